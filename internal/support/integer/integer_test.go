package integer

import (
	"math"
	"testing"
)

func Test_CompareIntUint_BoundaryAtIntMax(t *testing.T) {
	tests := []struct {
		name string
		i    int64
		u    uint64
		want int
	}{
		{"u within int range, equal", math.MaxInt64, uint64(math.MaxInt64), 0},
		{"u within int range, less", 10, 5, 1},
		{"u exceeds int max", math.MaxInt64, uint64(math.MaxInt64) + 1, -1},
		{"u far exceeds int max", -1, math.MaxUint64, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareIntUint(tt.i, tt.u)
			if got != tt.want {
				t.Errorf("CompareIntUint(%d, %d) = %d, want %d", tt.i, tt.u, got, tt.want)
			}
		})
	}
}

func Test_CompareFloatInt_ExactRepresentable(t *testing.T) {
	if CompareFloatInt(3.0, 3) != 0 {
		t.Error("3.0 should equal 3")
	}
	if CompareFloatInt(2.5, 2) != 1 {
		t.Error("2.5 should be greater than 2")
	}
	if CompareFloatInt(-1.5, 1) != -1 {
		t.Error("-1.5 should be less than 1")
	}
}

func Test_BoolAsInt(t *testing.T) {
	if BoolAsInt(false) != 0 {
		t.Error("false should compare as 0")
	}
	if BoolAsInt(true) != 1 {
		t.Error("true should compare as 1")
	}
}

func Test_CompareFloatUint_LargeValues(t *testing.T) {
	if CompareFloatUint(-1.0, 0) != -1 {
		t.Error("-1.0 should be less than any uint")
	}
	if CompareFloatUint(10.0, 10) != 0 {
		t.Error("10.0 should equal uint 10")
	}
	if CompareFloatUint(9e18, 1<<63) != -1 {
		t.Error("9e18 should be less than uint 2^63")
	}
	if CompareFloatUint(float64(1<<63), 1<<63) != 0 {
		t.Error("2^63 as a float should equal uint 2^63")
	}
	if CompareFloatUint(1e20, math.MaxUint64) != 1 {
		t.Error("1e20 should be greater than MaxUint64")
	}
}
