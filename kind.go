package nodel

// Kind is the Value discriminator — the tag half of the tagged union.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindStr
	KindList
	KindOMap
	KindSMap
	KindOpaque
	KindDataSource
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindList:
		return "list"
	case KindOMap:
		return "omap"
	case KindSMap:
		return "smap"
	case KindOpaque:
		return "opaque"
	case KindDataSource:
		return "dsrc"
	case KindError:
		return "error"
	default:
		return "?"
	}
}

func (k Kind) isContainer() bool {
	switch k {
	case KindList, KindOMap, KindSMap, KindDataSource:
		return true
	default:
		return false
	}
}

// Opaque is implemented by externally-typed objects carried by Value.
// Per the data model, opaque values support only string/JSON conversion
// and cloning — no structural access.
type Opaque interface {
	ToString() string
	ToJSON() ([]byte, error)
	Clone() Opaque
}
