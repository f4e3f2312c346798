package nodel

// Slice describes a Python-style [start:stop:step] range over a LIST or
// STR Value, or a key-range restriction over a map/DataSource iterator.
// A nil *int field means "unspecified" (Python's omitted-bound
// behavior), distinguishing it from an explicit 0.
type Slice struct {
	Start *int
	Stop  *int
	Step  *int
}

// FullSlice is the unrestricted [:] slice.
func FullSlice() Slice { return Slice{} }

// Index builds a single-element slice equivalent to Python's `s[i]`.
func Index(i int) Slice {
	stop := i + 1
	if i == -1 {
		// i+1 would be 0, which as a stop bound selects nothing; leaving
		// Stop unset runs the slice to the end, so this selects just the
		// last element.
		return Slice{Start: &i}
	}
	return Slice{Start: &i, Stop: &stop}
}

func (s Slice) step() int {
	if s.Step == nil {
		return 1
	}
	return *s.Step
}

// Resolve converts s into concrete, clamped [start, stop, step) bounds
// for a sequence of the given length, following Python's slice
// semantics: negative indices count from the end, out-of-range bounds
// clamp rather than error, and a negative step reverses direction with
// start/stop defaults swapped. A zero step is treated as 1 (Python
// rejects it).
func (s Slice) Resolve(length int) (start, stop, step int) {
	step = s.step()
	if step == 0 {
		step = 1
	}

	normalize := func(i int) int {
		if i < 0 {
			i += length
		}
		return i
	}

	if step > 0 {
		start = 0
		stop = length
		if s.Start != nil {
			start = clamp(normalize(*s.Start), 0, length)
		}
		if s.Stop != nil {
			stop = clamp(normalize(*s.Stop), 0, length)
		}
	} else {
		start = length - 1
		stop = -1
		if s.Start != nil {
			start = clamp(normalize(*s.Start), -1, length-1)
		}
		if s.Stop != nil {
			stop = clamp(normalize(*s.Stop), -1, length-1)
		}
	}
	return start, stop, step
}

// Indices returns the concrete sequence of indices s selects over a
// sequence of the given length, in traversal order.
func (s Slice) Indices(length int) []int {
	start, stop, step := s.Resolve(length)
	var out []int
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
