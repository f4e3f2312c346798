package nodel

import (
	"fmt"
	"math"
	"unsafe"
)

// uintptrHash folds a pointer's address into the FNV mix used by
// identityOf. p is always a concrete pointer (*strCell, *container,
// *NodelError) except for the Opaque case, where the interface may box a
// non-pointer; %p on an interface value formats its data word address
// either way, so a single fmt fallback covers both without a type switch.
func uintptrHash(p any) uint64 {
	switch t := p.(type) {
	case *strCell:
		return uint64(uintptr(unsafe.Pointer(t)))
	case *container:
		return uint64(uintptr(unsafe.Pointer(t)))
	case *NodelError:
		return uint64(uintptr(unsafe.Pointer(t)))
	default:
		s := fmt.Sprintf("%p", p)
		var h uint64 = 14695981039346656037
		for i := 0; i < len(s); i++ {
			h = (h ^ uint64(s[i])) * 1099511628211
		}
		return h
	}
}

func floatBits(f float64) uint64 {
	return math.Float64bits(f)
}
