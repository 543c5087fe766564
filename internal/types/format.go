package types

import (
	"strconv"
	"strings"
)

// String prints t as a C-style type-id that internal/typeexpr parses back
// to an identical type.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return declare(t, "")
}

// declare prints t wrapped around the declarator text inner.
func declare(t *Type, inner string) string {
	switch t.Kind {
	case KindPointer:
		return declare(t.Elem, group(t.Elem, "*"+cvSuffix(t)+inner))
	case KindLValueRef:
		return declare(t.Elem, group(t.Elem, "&"+inner))
	case KindRValueRef:
		return declare(t.Elem, group(t.Elem, "&&"+inner))
	case KindArray:
		bound := ""
		if t.Len >= 0 {
			bound = strconv.Itoa(t.Len)
		}
		return declare(t.Elem, inner+"["+bound+"]")
	case KindFunction:
		return declare(t.Sig.Result, inner+params(t.Sig))
	case KindMemberObjectPointer:
		return declare(t.Elem, group(t.Elem, declName(t.Decl)+"::*"+cvSuffix(t)+inner))
	case KindMemberFunctionPointer:
		s := "(" + declName(t.Decl) + "::*" + cvSuffix(t) + inner + ")" + params(t.Sig)
		if t.Sig.Const {
			s += " const"
		}
		s += t.Sig.RefQual.String()
		return declare(t.Sig.Result, s)
	}
	return join(cvPrefix(t)+baseName(t), inner)
}

// group parenthesizes a pointer or reference declarator that binds to an
// array or function.
func group(elem *Type, s string) string {
	if elem.Kind == KindArray || elem.Kind == KindFunction {
		return "(" + s + ")"
	}
	return s
}

func join(base, inner string) string {
	if inner == "" {
		return base
	}
	switch inner[0] {
	case '*', '&', '[', '(':
		return base + inner
	}
	return base + " " + inner
}

func params(sig *Signature) string {
	parts := make([]string, 0, len(sig.Params)+1)
	for _, p := range sig.Params {
		parts = append(parts, p.String())
	}
	if sig.Variadic {
		parts = append(parts, "...")
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func cvPrefix(t *Type) string {
	s := ""
	if t.Const {
		s += "const "
	}
	if t.Volatile {
		s += "volatile "
	}
	return s
}

func cvSuffix(t *Type) string {
	s := ""
	if t.Const {
		s += " const"
	}
	if t.Volatile {
		s += " volatile"
	}
	return s
}

func baseName(t *Type) string {
	if t.Kind.IsDeclared() {
		return declName(t.Decl)
	}
	return t.Kind.String()
}

func declName(d *Decl) string {
	if d == nil {
		return "<anonymous>"
	}
	return d.Name
}
