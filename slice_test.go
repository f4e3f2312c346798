package nodel

import "testing"

func ints(p int) *int { return &p }

func Test_Slice_FullSlice(t *testing.T) {
	s := FullSlice()
	start, stop, step := s.Resolve(5)
	if start != 0 || stop != 5 || step != 1 {
		t.Fatalf("got (%d,%d,%d)", start, stop, step)
	}
}

func Test_Slice_NegativeIndices(t *testing.T) {
	s := Slice{Start: ints(-2)}
	start, stop, _ := s.Resolve(5)
	if start != 3 || stop != 5 {
		t.Fatalf("got (%d,%d)", start, stop)
	}
}

func Test_Slice_OutOfRangeClamps(t *testing.T) {
	s := Slice{Start: ints(-100), Stop: ints(100)}
	start, stop, _ := s.Resolve(5)
	if start != 0 || stop != 5 {
		t.Fatalf("got (%d,%d)", start, stop)
	}
}

func Test_Slice_NegativeStepReverses(t *testing.T) {
	s := Slice{Step: ints(-1)}
	got := s.Indices(5)
	want := []int{4, 3, 2, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func Test_Slice_Index(t *testing.T) {
	s := Index(2)
	got := s.Indices(5)
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("got %v", got)
	}
}
