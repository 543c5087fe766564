package types

import (
	"fmt"
	"sort"
	"strings"
)

// DataModel fixes the sizes of the fundamental types for one platform ABI.
type DataModel struct {
	Name        string
	Sizes       map[Kind]int
	PointerSize int
	CharSigned  bool

	// PtrDiff is the kind behind ptrdiff_t; size_t is its unsigned
	// counterpart.
	PtrDiff Kind
}

func baseSizes(long, longDouble, wchar int) map[Kind]int {
	return map[Kind]int{
		KindBool:       1,
		KindChar:       1,
		KindSChar:      1,
		KindUChar:      1,
		KindWChar:      wchar,
		KindChar16:     2,
		KindChar32:     4,
		KindShort:      2,
		KindUShort:     2,
		KindInt:        4,
		KindUInt:       4,
		KindLong:       long,
		KindULong:      long,
		KindLongLong:   8,
		KindULongLong:  8,
		KindFloat:      4,
		KindDouble:     8,
		KindLongDouble: longDouble,
	}
}

var (
	// LP64 is the 64-bit unix model: long and pointers are 8 bytes.
	LP64 = DataModel{Name: "lp64", Sizes: baseSizes(8, 16, 4), PointerSize: 8, CharSigned: true, PtrDiff: KindLong}
	// LLP64 is the 64-bit windows model: long stays 4 bytes.
	LLP64 = DataModel{Name: "llp64", Sizes: baseSizes(4, 8, 2), PointerSize: 8, CharSigned: true, PtrDiff: KindLongLong}
	// ILP32 is the classic 32-bit model.
	ILP32 = DataModel{Name: "ilp32", Sizes: baseSizes(4, 12, 4), PointerSize: 4, CharSigned: true, PtrDiff: KindInt}
)

var dataModels = map[string]DataModel{
	LP64.Name:  LP64,
	LLP64.Name: LLP64,
	ILP32.Name: ILP32,
}

// ModelByName returns a predefined data model.
func ModelByName(name string) (DataModel, error) {
	if m, ok := dataModels[strings.ToLower(name)]; ok {
		return m, nil
	}
	return DataModel{}, fmt.Errorf("unknown data model %q (known: %s)", name, strings.Join(ModelNames(), ", "))
}

// ModelNames lists the predefined data models.
func ModelNames() []string {
	names := make([]string, 0, len(dataModels))
	for n := range dataModels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SizeOf returns the size in bytes of a fundamental kind, or 0.
func (m DataModel) SizeOf(k Kind) int {
	return m.Sizes[k]
}

// SizeT returns the kind behind size_t.
func (m DataModel) SizeT() Kind {
	return UnsignedOf(m.PtrDiff)
}

// IsSigned reports whether an integral or floating kind is signed under m.
func (m DataModel) IsSigned(k Kind) bool {
	if k.IsFloating() {
		return true
	}
	if !k.IsIntegral() {
		return false
	}
	if k == KindChar {
		return m.CharSigned
	}
	if k == KindWChar {
		return true
	}
	return !unsignedKinds[k]
}

// IsUnsigned reports whether an integral kind is unsigned under m.
func (m DataModel) IsUnsigned(k Kind) bool {
	return k.IsIntegral() && !m.IsSigned(k)
}

// UnsignedOf maps a standard signed integer kind to its unsigned partner.
// Other kinds are returned unchanged.
func UnsignedOf(k Kind) Kind {
	for i, s := range signedIntegers {
		if s == k {
			return unsignedIntegers[i]
		}
	}
	return k
}

// SignedOf maps a standard unsigned integer kind to its signed partner.
// Other kinds are returned unchanged.
func SignedOf(k Kind) Kind {
	for i, u := range unsignedIntegers {
		if u == k {
			return signedIntegers[i]
		}
	}
	return k
}

// smallestOfSize returns the lowest-ranked kind in chain whose size is at
// least size bytes.
func (m DataModel) smallestOfSize(chain []Kind, size int) (Kind, bool) {
	for _, k := range chain {
		if m.SizeOf(k) >= size {
			return k, true
		}
	}
	return KindVoid, false
}

// SizeOfType returns the size of t in bytes, or 0 when the model carries no
// layout for it (classes, functions, unbounded arrays).
func (m DataModel) SizeOfType(t *Type) int {
	switch t.Kind {
	case KindPointer, KindMemberObjectPointer, KindNullptr:
		return m.PointerSize
	case KindMemberFunctionPointer:
		return 2 * m.PointerSize
	case KindArray:
		if t.Len < 0 {
			return 0
		}
		return t.Len * m.SizeOfType(t.Elem)
	case KindEnum:
		return m.SizeOfType(t.Decl.Underlying)
	case KindLValueRef, KindRValueRef:
		return m.SizeOfType(t.Elem)
	}
	return m.SizeOf(t.Kind)
}
