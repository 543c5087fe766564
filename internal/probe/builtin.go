package probe

import (
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// builtin applies the language's builtin operator rules to exprs. Class
// operands only take part where the rule works on any object (address-of)
// or through a contextual conversion to bool.
func (p *Prober) builtin(op Op, exprs []*types.Type) types.Result {
	switch op {
	case OpOutputStream:
		op = OpLeftShift
	case OpInputStream:
		op = OpRightShift
	}
	switch op {
	case OpSubscript:
		return p.subscript(exprs[0], exprs[1])
	case OpDereference:
		return dereference(exprs[0])
	case OpAddressOf:
		if !exprs[0].IsLValue() {
			return types.NoResult
		}
		return types.Some(types.PointerTo(exprs[0].Referent()))
	case OpPreIncrement, OpPreDecrement:
		if !incrementable(exprs[0]) {
			return types.NoResult
		}
		return types.Some(exprs[0])
	case OpPostIncrement, OpPostDecrement:
		if !incrementable(exprs[0]) {
			return types.NoResult
		}
		return types.Some(types.RemoveCV(exprs[0].Referent()))
	case OpComplement:
		if !p.integralOperand(exprs[0]) {
			return types.NoResult
		}
		return p.o.Promoted(types.Decay(exprs[0]))
	case OpNot:
		if !p.o.ContextuallyBool(exprs[0]) {
			return types.NoResult
		}
		return boolean()
	case OpUnaryMinus:
		return p.o.Promoted(types.Decay(exprs[0]))
	case OpUnaryPlus:
		if v := types.Decay(exprs[0]); v.Kind == types.KindPointer {
			return types.Some(v)
		}
		return p.o.Promoted(types.Decay(exprs[0]))
	case OpAnd, OpOr:
		if !p.o.ContextuallyBool(exprs[0]) || !p.o.ContextuallyBool(exprs[1]) {
			return types.NoResult
		}
		return boolean()
	}

	a, b := exprs[0], exprs[1]
	va, vb := types.Decay(a), types.Decay(b)
	switch op {
	case OpMultiply, OpDivide:
		return p.o.UsualArithmetic(va, vb)
	case OpModulo, OpBitAnd, OpBitXor, OpBitOr:
		if !p.integralOperand(a) || !p.integralOperand(b) {
			return types.NoResult
		}
		return p.o.UsualArithmetic(va, vb)
	case OpPlus:
		if r := p.o.UsualArithmetic(va, vb); r.Ok() {
			return r
		}
		switch {
		case objectPointer(va) && p.integralOperand(b):
			return types.Some(va)
		case p.integralOperand(a) && objectPointer(vb):
			return types.Some(vb)
		}
		return types.NoResult
	case OpMinus:
		if r := p.o.UsualArithmetic(va, vb); r.Ok() {
			return r
		}
		switch {
		case objectPointer(va) && p.integralOperand(b):
			return types.Some(va)
		case objectPointer(va) && objectPointer(vb) && types.SameUnqualified(va.Elem, vb.Elem):
			return types.Some(p.u.PtrDiff())
		}
		return types.NoResult
	case OpLeftShift, OpRightShift:
		if !p.integralOperand(a) || !p.integralOperand(b) {
			return types.NoResult
		}
		return p.o.Promoted(va)
	case OpLess, OpGreater, OpLessEqual, OpGreaterEqual:
		if p.comparable(va, vb, false) {
			return boolean()
		}
		return types.NoResult
	case OpEqual, OpNotEqual:
		if p.comparable(va, vb, true) {
			return boolean()
		}
		return types.NoResult
	}
	return p.compoundAssign(op, a, b)
}

func boolean() types.Result { return types.Some(types.Basic(types.KindBool)) }

// subscript is *(a + b) with exactly one pointer operand.
func (p *Prober) subscript(a, b *types.Type) types.Result {
	va, vb := types.Decay(a), types.Decay(b)
	switch {
	case objectPointer(va) && p.integralOperand(b):
		return types.Some(types.LValueRefTo(va.Elem))
	case p.integralOperand(a) && objectPointer(vb):
		return types.Some(types.LValueRefTo(vb.Elem))
	}
	return types.NoResult
}

// dereference is the builtin indirection: an lvalue of the pointee. void
// pointers cannot be dereferenced.
func dereference(e *types.Type) types.Result {
	v := types.Decay(e)
	if v.Kind != types.KindPointer || v.Elem.Kind == types.KindVoid {
		return types.NoResult
	}
	return types.Some(types.LValueRefTo(v.Elem))
}

// objectPointer reports whether v points to an object type, which is what
// pointer arithmetic requires.
func objectPointer(v *types.Type) bool {
	if v.Kind != types.KindPointer {
		return false
	}
	switch v.Elem.Kind {
	case types.KindVoid, types.KindFunction:
		return false
	}
	return true
}

// integralOperand reports whether e is an integral or unscoped enum
// operand.
func (p *Prober) integralOperand(e *types.Type) bool {
	r, ok := p.o.Promoted(types.Decay(e)).Get()
	return ok && r.Kind.IsIntegral()
}

// modifiable reports whether e is an lvalue a builtin operator may write.
func modifiable(e *types.Type) bool {
	if !e.IsLValue() {
		return false
	}
	s := e.Referent()
	return !types.IsConst(s) && s.Kind != types.KindArray && s.Kind != types.KindFunction
}

// incrementable covers the builtin ++ and -- operands: modifiable
// arithmetic lvalues other than bool, and object pointers.
func incrementable(e *types.Type) bool {
	if !modifiable(e) {
		return false
	}
	s := types.RemoveCV(e.Referent())
	switch {
	case s.Kind == types.KindBool:
		return false
	case s.Kind.IsArithmetic():
		return true
	}
	return objectPointer(s)
}

// comparable reports whether the builtin relational (or, with equality
// set, equality) operators accept the decayed operands va and vb.
func (p *Prober) comparable(va, vb *types.Type, equality bool) bool {
	if p.o.UsualArithmetic(va, vb).Ok() {
		return true
	}
	if va.Kind == types.KindEnum && vb.Kind == types.KindEnum && va.Decl == vb.Decl {
		return true
	}
	if equality {
		if va.Kind == types.KindNullptr && vb.Kind == types.KindNullptr {
			return true
		}
		return p.o.CompositePointer(va, vb).Ok()
	}
	return va.Kind == types.KindPointer && vb.Kind == types.KindPointer && p.o.CompositePointer(va, vb).Ok()
}

// compoundAssign applies the builtin "a op= b" rules; the result is the
// left operand.
func (p *Prober) compoundAssign(op Op, a, b *types.Type) types.Result {
	if !modifiable(a) {
		return types.NoResult
	}
	l := types.RemoveCV(a.Referent())
	if l.Kind.IsDeclared() {
		return types.NoResult
	}
	_, arithB := p.o.Promoted(types.Decay(b)).Get()
	ok := false
	switch op {
	case OpMultiplyAssign, OpDivideAssign:
		ok = l.Kind.IsArithmetic() && arithB
	case OpModuloAssign, OpLeftShiftAssign, OpRightShiftAssign,
		OpBitAndAssign, OpBitOrAssign, OpBitXorAssign:
		ok = l.Kind.IsIntegral() && p.integralOperand(b)
	case OpPlusAssign, OpMinusAssign:
		ok = (l.Kind.IsArithmetic() && arithB) || (objectPointer(l) && p.integralOperand(b))
	}
	if !ok {
		return types.NoResult
	}
	return types.Some(a)
}
