// Package integer implements the cross-numeric-kind comparison rules from
// the data model's numeric comparison table: INT vs UINT promotion at the
// INT_MAX boundary, FLOAT vs integer conversion-when-representable, and
// BOOL-as-{0,1}.
package integer

import "math"

// CompareIntUint compares a signed and unsigned 64-bit integer per the
// promotion rule: if u exceeds math.MaxInt64, u is greater than any int64;
// otherwise both are compared in the int64 domain.
func CompareIntUint(i int64, u uint64) int {
	if u > math.MaxInt64 {
		return -1 // any representable int64 is less than u
	}
	ui := int64(u)
	switch {
	case i < ui:
		return -1
	case i > ui:
		return 1
	default:
		return 0
	}
}

// CompareFloatInt compares a float64 against an int64, converting the
// integer to float64 when it is exactly representable (|i| <= 2^53), and
// otherwise falling back to comparing in the integer domain by truncating
// the float (matching the "fall back to integer comparison domain" rule).
func CompareFloatInt(f float64, i int64) int {
	const maxExact = 1 << 53
	if i >= -maxExact && i <= maxExact {
		return compareFloat64(f, float64(i))
	}
	return compareInt64(int64(f), i)
}

// CompareFloatUint is the unsigned analogue of CompareFloatInt: past
// 2^53 it compares in the uint64 domain, with negative floats below any
// uint64 and floats at or above 2^64 above every uint64.
func CompareFloatUint(f float64, u uint64) int {
	const maxExact = 1 << 53
	if u <= maxExact {
		return compareFloat64(f, float64(u))
	}
	if f < 0 {
		return -1
	}
	if f >= 1<<64 {
		return 1
	}
	fu := uint64(f)
	switch {
	case fu < u:
		return -1
	case fu > u:
		return 1
	default:
		return 0
	}
}

// BoolAsInt maps false/true to 0/1, per the BOOL numeric-comparison rule.
func BoolAsInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
