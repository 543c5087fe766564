// Package types implements the static type model that every concept query
// runs against. A Universe owns class, union and enum declarations together
// with the platform data model; Type values describe fundamental and compound
// types built on top of them.
package types

// Kind represents the fundamental category of a type.
type Kind int

const (
	// Fundamental types
	KindVoid Kind = iota
	KindNullptr
	KindBool
	KindChar
	KindSChar
	KindUChar
	KindWChar
	KindChar16
	KindChar32
	KindShort
	KindUShort
	KindInt
	KindUInt
	KindLong
	KindULong
	KindLongLong
	KindULongLong
	KindFloat
	KindDouble
	KindLongDouble

	// Compound types
	KindPointer
	KindLValueRef
	KindRValueRef
	KindArray
	KindFunction
	KindMemberObjectPointer
	KindMemberFunctionPointer

	// Declared types
	KindClass
	KindUnion
	KindEnum
)

var kindNames = map[Kind]string{
	KindVoid:                  "void",
	KindNullptr:               "nullptr_t",
	KindBool:                  "bool",
	KindChar:                  "char",
	KindSChar:                 "signed char",
	KindUChar:                 "unsigned char",
	KindWChar:                 "wchar_t",
	KindChar16:                "char16_t",
	KindChar32:                "char32_t",
	KindShort:                 "short",
	KindUShort:                "unsigned short",
	KindInt:                   "int",
	KindUInt:                  "unsigned int",
	KindLong:                  "long",
	KindULong:                 "unsigned long",
	KindLongLong:              "long long",
	KindULongLong:             "unsigned long long",
	KindFloat:                 "float",
	KindDouble:                "double",
	KindLongDouble:            "long double",
	KindPointer:               "pointer",
	KindLValueRef:             "lvalue reference",
	KindRValueRef:             "rvalue reference",
	KindArray:                 "array",
	KindFunction:              "function",
	KindMemberObjectPointer:   "member object pointer",
	KindMemberFunctionPointer: "member function pointer",
	KindClass:                 "class",
	KindUnion:                 "union",
	KindEnum:                  "enum",
}

// String returns the string representation of a Kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// IsFundamental reports whether k names a builtin type with no structure.
func (k Kind) IsFundamental() bool { return k >= KindVoid && k <= KindLongDouble }

// IsIntegral reports whether k is bool, a character kind or an integer kind.
func (k Kind) IsIntegral() bool { return k >= KindBool && k <= KindULongLong }

// IsFloating reports whether k is a floating-point kind.
func (k Kind) IsFloating() bool { return k >= KindFloat && k <= KindLongDouble }

// IsArithmetic reports whether k is integral or floating.
func (k Kind) IsArithmetic() bool { return k.IsIntegral() || k.IsFloating() }

// IsReference reports whether k is either reference kind.
func (k Kind) IsReference() bool { return k == KindLValueRef || k == KindRValueRef }

// IsDeclared reports whether the kind carries a Decl.
func (k Kind) IsDeclared() bool { return k == KindClass || k == KindUnion || k == KindEnum }

// IsClassLike reports whether k is a class or union, the kinds that may
// declare members and nested types.
func (k Kind) IsClassLike() bool { return k == KindClass || k == KindUnion }

// unsignedKinds lists the kinds that are unsigned regardless of data model.
var unsignedKinds = map[Kind]bool{
	KindBool:      true,
	KindUChar:     true,
	KindChar16:    true,
	KindChar32:    true,
	KindUShort:    true,
	KindUInt:      true,
	KindULong:     true,
	KindULongLong: true,
}

// signedIntegers and unsignedIntegers are the standard integer chains in
// ascending rank order.
var (
	signedIntegers   = []Kind{KindSChar, KindShort, KindInt, KindLong, KindLongLong}
	unsignedIntegers = []Kind{KindUChar, KindUShort, KindUInt, KindULong, KindULongLong}
)

// SignedChain returns the standard signed integer kinds in ascending rank.
func SignedChain() []Kind { return append([]Kind(nil), signedIntegers...) }

// UnsignedChain returns the standard unsigned integer kinds in ascending rank.
func UnsignedChain() []Kind { return append([]Kind(nil), unsignedIntegers...) }

// integerRank orders integral kinds for the usual arithmetic conversions.
func integerRank(k Kind) int {
	switch k {
	case KindBool:
		return 0
	case KindChar, KindSChar, KindUChar:
		return 1
	case KindShort, KindUShort:
		return 2
	case KindInt, KindUInt:
		return 3
	case KindLong, KindULong:
		return 4
	case KindLongLong, KindULongLong:
		return 5
	}
	return -1
}

// IntegerRank exposes the conversion rank of an integer kind; character
// kinds other than the plain char family report -1 and are ranked through
// their underlying size instead.
func IntegerRank(k Kind) int { return integerRank(k) }
