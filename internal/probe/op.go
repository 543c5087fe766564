// Package probe answers "is this expression well-formed for these operand
// types, and what is its type". Every probe returns a types.Result; an
// ill-formed expression is NoResult, never an error or a panic.
package probe

import (
	"fmt"
	"sort"
)

// Op identifies a probed expression form.
type Op int

const (
	OpSubscript Op = iota
	OpPostIncrement
	OpPostDecrement
	OpPreIncrement
	OpPreDecrement
	OpComplement
	OpNot
	OpUnaryMinus
	OpUnaryPlus
	OpAddressOf
	OpDereference
	OpMultiply
	OpDivide
	OpModulo
	OpPlus
	OpMinus
	OpLeftShift
	OpRightShift
	OpLess
	OpGreater
	OpLessEqual
	OpGreaterEqual
	OpEqual
	OpNotEqual
	OpBitAnd
	OpBitXor
	OpBitOr
	OpAnd
	OpOr
	OpMultiplyAssign
	OpDivideAssign
	OpModuloAssign
	OpPlusAssign
	OpMinusAssign
	OpLeftShiftAssign
	OpRightShiftAssign
	OpBitAndAssign
	OpBitOrAssign
	OpBitXorAssign
	OpAssign
	OpCall
	OpStaticCast
	OpOutputStream
	OpInputStream
)

// Arity classifies how many operand types an Op takes.
type Arity int

const (
	Unary Arity = iota + 1
	Binary
	Variadic
)

type opInfo struct {
	name     string
	spelling string
	arity    Arity
	// postfix operators carry a dummy int argument in overload
	// resolution.
	postfix bool
	// mutating operators need a modifiable lvalue left operand.
	mutating bool
}

var ops = map[Op]opInfo{
	OpSubscript:        {name: "subscript", spelling: "[]", arity: Binary},
	OpPostIncrement:    {name: "post_increment", spelling: "++", arity: Unary, postfix: true, mutating: true},
	OpPostDecrement:    {name: "post_decrement", spelling: "--", arity: Unary, postfix: true, mutating: true},
	OpPreIncrement:     {name: "pre_increment", spelling: "++", arity: Unary, mutating: true},
	OpPreDecrement:     {name: "pre_decrement", spelling: "--", arity: Unary, mutating: true},
	OpComplement:       {name: "complement", spelling: "~", arity: Unary},
	OpNot:              {name: "not", spelling: "!", arity: Unary},
	OpUnaryMinus:       {name: "unary_minus", spelling: "-", arity: Unary},
	OpUnaryPlus:        {name: "unary_plus", spelling: "+", arity: Unary},
	OpAddressOf:        {name: "address_of", spelling: "&", arity: Unary},
	OpDereference:      {name: "dereference", spelling: "*", arity: Unary},
	OpMultiply:         {name: "multiply", spelling: "*", arity: Binary},
	OpDivide:           {name: "divide", spelling: "/", arity: Binary},
	OpModulo:           {name: "modulo", spelling: "%", arity: Binary},
	OpPlus:             {name: "plus", spelling: "+", arity: Binary},
	OpMinus:            {name: "minus", spelling: "-", arity: Binary},
	OpLeftShift:        {name: "left_shift", spelling: "<<", arity: Binary},
	OpRightShift:       {name: "right_shift", spelling: ">>", arity: Binary},
	OpLess:             {name: "less", spelling: "<", arity: Binary},
	OpGreater:          {name: "greater", spelling: ">", arity: Binary},
	OpLessEqual:        {name: "less_equal", spelling: "<=", arity: Binary},
	OpGreaterEqual:     {name: "greater_equal", spelling: ">=", arity: Binary},
	OpEqual:            {name: "equal", spelling: "==", arity: Binary},
	OpNotEqual:         {name: "not_equal", spelling: "!=", arity: Binary},
	OpBitAnd:           {name: "bitwise_and", spelling: "&", arity: Binary},
	OpBitXor:           {name: "bitwise_xor", spelling: "^", arity: Binary},
	OpBitOr:            {name: "bitwise_or", spelling: "|", arity: Binary},
	OpAnd:              {name: "and", spelling: "&&", arity: Binary},
	OpOr:               {name: "or", spelling: "||", arity: Binary},
	OpMultiplyAssign:   {name: "multiply_assign", spelling: "*=", arity: Binary, mutating: true},
	OpDivideAssign:     {name: "divide_assign", spelling: "/=", arity: Binary, mutating: true},
	OpModuloAssign:     {name: "modulo_assign", spelling: "%=", arity: Binary, mutating: true},
	OpPlusAssign:       {name: "plus_assign", spelling: "+=", arity: Binary, mutating: true},
	OpMinusAssign:      {name: "minus_assign", spelling: "-=", arity: Binary, mutating: true},
	OpLeftShiftAssign:  {name: "left_shift_assign", spelling: "<<=", arity: Binary, mutating: true},
	OpRightShiftAssign: {name: "right_shift_assign", spelling: ">>=", arity: Binary, mutating: true},
	OpBitAndAssign:     {name: "bitwise_and_assign", spelling: "&=", arity: Binary, mutating: true},
	OpBitOrAssign:      {name: "bitwise_or_assign", spelling: "|=", arity: Binary, mutating: true},
	OpBitXorAssign:     {name: "bitwise_xor_assign", spelling: "^=", arity: Binary, mutating: true},
	OpAssign:           {name: "assign", spelling: "=", arity: Binary, mutating: true},
	OpCall:             {name: "call", spelling: "()", arity: Variadic},
	OpStaticCast:       {name: "static_cast", arity: Binary},
	OpOutputStream:     {name: "output_stream", spelling: "<<", arity: Binary},
	OpInputStream:      {name: "input_stream", spelling: ">>", arity: Binary},
}

var opsByName = func() map[string]Op {
	m := make(map[string]Op, len(ops))
	for op, info := range ops {
		m[info.name] = op
	}
	return m
}()

// String returns the probe name of the operation, e.g. "plus_assign".
func (op Op) String() string {
	if info, ok := ops[op]; ok {
		return info.name
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Spelling returns the operator token, e.g. "+=".
func (op Op) Spelling() string { return ops[op].spelling }

// Arity returns how many operand types op takes.
func (op Op) Arity() Arity { return ops[op].arity }

// OperatorName returns the function name an overload of op is declared
// under, e.g. "operator+=".
func (op Op) OperatorName() string {
	switch op {
	case OpStaticCast:
		return ""
	case OpOutputStream:
		return "operator<<"
	case OpInputStream:
		return "operator>>"
	}
	return "operator" + ops[op].spelling
}

// Lookup resolves a probe name. Binary operators are also accepted by
// their spelling.
func Lookup(name string) (Op, bool) {
	if op, ok := opsByName[name]; ok {
		return op, true
	}
	for op, info := range ops {
		if info.arity == Binary && info.spelling != "" && info.spelling == name && op != OpOutputStream && op != OpInputStream {
			return op, true
		}
	}
	return 0, false
}

// Names lists every probe name, sorted.
func Names() []string {
	names := make([]string, 0, len(ops))
	for _, info := range ops {
		names = append(names, info.name)
	}
	sort.Strings(names)
	return names
}
