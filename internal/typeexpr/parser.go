package typeexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orizon-lang/conceptcheck/internal/types"
)

// Parser resolves names against a Universe while parsing.
type Parser struct {
	u    *types.Universe
	toks []Token
	pos  int
	src  string
}

// Parse reads a complete type-id.
func Parse(u *types.Universe, src string) (*types.Type, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", src, err)
	}
	p := &Parser{u: u, toks: toks, src: src}
	t, err := p.typeID()
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", src, err)
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, fmt.Errorf("type %q: offset %d: unexpected %s", src, tok.Pos, describe(tok))
	}
	return t, nil
}

// MustParse is Parse for fixtures known to be well formed.
func MustParse(u *types.Universe, src string) *types.Type {
	t, err := Parse(u, src)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseList parses each source string in order.
func ParseList(u *types.Universe, srcs []string) ([]*types.Type, error) {
	out := make([]*types.Type, 0, len(srcs))
	for _, s := range srcs {
		t, err := Parse(u, s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (p *Parser) peek() Token { return p.toks[p.pos] }

func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) next() Token {
	t := p.toks[p.pos]
	if t.Type != TokenEOF {
		p.pos++
	}
	return t
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.next()
	if tok.Type != tt {
		return tok, fmt.Errorf("offset %d: expected %s, found %s", tok.Pos, tt, describe(tok))
	}
	return tok, nil
}

func describe(tok Token) string {
	if tok.Value != "" {
		return fmt.Sprintf("%q", tok.Value)
	}
	return tok.Type.String()
}

// typeID := specifiers abstract-declarator
func (p *Parser) typeID() (*types.Type, error) {
	base, err := p.specifiers()
	if err != nil {
		return nil, err
	}
	decl, err := p.abstract()
	if err != nil {
		return nil, err
	}
	return decl(base)
}

// fundamental words that combine into one builtin kind.
var fundamentalWords = map[string]bool{
	"void": true, "bool": true, "char": true, "wchar_t": true, "char16_t": true,
	"char32_t": true, "short": true, "int": true, "long": true, "signed": true,
	"unsigned": true, "float": true, "double": true, "nullptr_t": true,
}

func (p *Parser) specifiers() (*types.Type, error) {
	var (
		isConst, isVolatile bool
		words               []string
		named               *types.Type
		start               = p.peek().Pos
	)
	for {
		tok := p.peek()
		if tok.Type != TokenIdent {
			break
		}
		switch {
		case tok.Value == "const":
			isConst = true
			p.next()
			continue
		case tok.Value == "volatile":
			isVolatile = true
			p.next()
			continue
		case fundamentalWords[tok.Value] && named == nil:
			words = append(words, tok.Value)
			p.next()
			continue
		case named == nil && len(words) == 0 && !p.memberPointerAhead():
			name := p.qualifiedName()
			t, ok := p.u.LookupType(name)
			if !ok {
				return nil, fmt.Errorf("offset %d: unknown type name %q", tok.Pos, name)
			}
			named = t
			continue
		}
		break
	}

	var base *types.Type
	switch {
	case named != nil:
		base = named
	case len(words) > 0:
		k, err := fundamentalKind(words)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", start, err)
		}
		base = types.Basic(k)
	default:
		tok := p.peek()
		return nil, fmt.Errorf("offset %d: expected a type, found %s", tok.Pos, describe(tok))
	}
	if isConst {
		base = types.AddConst(base)
	}
	if isVolatile {
		base = types.AddVolatile(base)
	}
	return base, nil
}

// qualifiedName reads IDENT { '::' IDENT } stopping before "::*".
func (p *Parser) qualifiedName() string {
	parts := []string{p.next().Value}
	for p.peek().Type == TokenScope && p.peekAt(1).Type == TokenIdent {
		p.next()
		parts = append(parts, p.next().Value)
	}
	return strings.Join(parts, "::")
}

// memberPointerAhead reports whether the tokens at the cursor spell
// "Name::*" (possibly qualified).
func (p *Parser) memberPointerAhead() bool {
	i := 0
	for {
		if p.peekAt(i).Type != TokenIdent {
			return false
		}
		if p.peekAt(i+1).Type != TokenScope {
			return false
		}
		switch p.peekAt(i + 2).Type {
		case TokenStar:
			return true
		case TokenIdent:
			i += 2
		default:
			return false
		}
	}
}

func fundamentalKind(words []string) (types.Kind, error) {
	count := map[string]int{}
	for _, w := range words {
		count[w]++
	}
	signed, unsigned := count["signed"] > 0, count["unsigned"] > 0
	if signed && unsigned {
		return 0, fmt.Errorf("both signed and unsigned in %q", strings.Join(words, " "))
	}
	only := func(k types.Kind, allowed ...string) (types.Kind, error) {
		ok := map[string]bool{}
		for _, a := range allowed {
			ok[a] = true
		}
		for w := range count {
			if !ok[w] {
				return 0, fmt.Errorf("invalid type specifier combination %q", strings.Join(words, " "))
			}
		}
		return k, nil
	}
	switch {
	case count["void"] > 0:
		return only(types.KindVoid, "void")
	case count["nullptr_t"] > 0:
		return only(types.KindNullptr, "nullptr_t")
	case count["bool"] > 0:
		return only(types.KindBool, "bool")
	case count["wchar_t"] > 0:
		return only(types.KindWChar, "wchar_t")
	case count["char16_t"] > 0:
		return only(types.KindChar16, "char16_t")
	case count["char32_t"] > 0:
		return only(types.KindChar32, "char32_t")
	case count["char"] > 0:
		switch {
		case signed:
			return only(types.KindSChar, "char", "signed")
		case unsigned:
			return only(types.KindUChar, "char", "unsigned")
		}
		return only(types.KindChar, "char")
	case count["float"] > 0:
		return only(types.KindFloat, "float")
	case count["double"] > 0:
		if count["long"] == 1 {
			return only(types.KindLongDouble, "double", "long")
		}
		return only(types.KindDouble, "double")
	case count["short"] > 0:
		if unsigned {
			return only(types.KindUShort, "short", "unsigned", "int")
		}
		return only(types.KindShort, "short", "signed", "int")
	case count["long"] == 1:
		if unsigned {
			return only(types.KindULong, "long", "unsigned", "int")
		}
		return only(types.KindLong, "long", "signed", "int")
	case count["long"] == 2:
		if unsigned {
			return only(types.KindULongLong, "long", "unsigned", "int")
		}
		return only(types.KindLongLong, "long", "signed", "int")
	case count["long"] > 2:
		return 0, fmt.Errorf("too many 'long' in %q", strings.Join(words, " "))
	}
	if unsigned {
		return only(types.KindUInt, "unsigned", "int")
	}
	return only(types.KindInt, "int", "signed")
}

// declarator transforms the specifier type into the declared type.
type declarator func(*types.Type) (*types.Type, error)

// abstract := { ptr-operator } direct
func (p *Parser) abstract() (declarator, error) {
	var ops []declarator
	for {
		op, ok, err := p.ptrOperator()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		ops = append(ops, op)
	}
	direct, err := p.direct()
	if err != nil {
		return nil, err
	}
	return func(t *types.Type) (*types.Type, error) {
		for _, op := range ops {
			var err error
			if t, err = op(t); err != nil {
				return nil, err
			}
		}
		return direct(t)
	}, nil
}

func (p *Parser) ptrOperator() (declarator, bool, error) {
	tok := p.peek()
	switch {
	case tok.Type == TokenStar:
		p.next()
		isConst, isVolatile := p.cvQualifiers()
		return func(t *types.Type) (*types.Type, error) {
			if t.IsReference() {
				return nil, fmt.Errorf("offset %d: pointer to reference", tok.Pos)
			}
			return qualify(types.PointerTo(t), isConst, isVolatile), nil
		}, true, nil
	case tok.Type == TokenAmp || tok.Type == TokenAmpAmp:
		p.next()
		return func(t *types.Type) (*types.Type, error) {
			if t.IsVoid() {
				return nil, fmt.Errorf("offset %d: reference to void", tok.Pos)
			}
			if t.IsReference() {
				return nil, fmt.Errorf("offset %d: reference to reference", tok.Pos)
			}
			if tok.Type == TokenAmp {
				return types.LValueRefTo(t), nil
			}
			return types.RValueRefTo(t), nil
		}, true, nil
	case tok.Type == TokenIdent && p.memberPointerAhead():
		name := p.qualifiedName()
		if _, err := p.expect(TokenScope); err != nil {
			return nil, false, err
		}
		if _, err := p.expect(TokenStar); err != nil {
			return nil, false, err
		}
		isConst, isVolatile := p.cvQualifiers()
		owner, ok := p.u.Decl(name)
		if !ok || owner.Kind == types.DeclEnum {
			return nil, false, fmt.Errorf("offset %d: %q is not a class", tok.Pos, name)
		}
		return func(t *types.Type) (*types.Type, error) {
			if t.IsReference() {
				return nil, fmt.Errorf("offset %d: member pointer to reference", tok.Pos)
			}
			if t.Kind == types.KindFunction {
				return qualify(types.MemberFunctionPointerTo(owner, t.Sig), isConst, isVolatile), nil
			}
			return qualify(types.MemberObjectPointerTo(owner, t), isConst, isVolatile), nil
		}, true, nil
	}
	return nil, false, nil
}

func qualify(t *types.Type, isConst, isVolatile bool) *types.Type {
	if isConst {
		t = types.AddConst(t)
	}
	if isVolatile {
		t = types.AddVolatile(t)
	}
	return t
}

func (p *Parser) cvQualifiers() (isConst, isVolatile bool) {
	for p.peek().Type == TokenIdent {
		switch p.peek().Value {
		case "const":
			isConst = true
		case "volatile":
			isVolatile = true
		default:
			return
		}
		p.next()
	}
	return
}

// direct := [ '(' abstract ')' ] { '[' N? ']' | '(' params ')' quals }
func (p *Parser) direct() (declarator, error) {
	inner := declarator(func(t *types.Type) (*types.Type, error) { return t, nil })
	if p.peek().Type == TokenLParen && p.groupingAhead() {
		p.next()
		d, err := p.abstract()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		inner = d
	}

	var suffixes []declarator
	for {
		switch p.peek().Type {
		case TokenLBracket:
			s, err := p.arraySuffix()
			if err != nil {
				return nil, err
			}
			suffixes = append(suffixes, s)
			continue
		case TokenLParen:
			s, err := p.functionSuffix()
			if err != nil {
				return nil, err
			}
			suffixes = append(suffixes, s)
			continue
		}
		break
	}

	return func(t *types.Type) (*types.Type, error) {
		for i := len(suffixes) - 1; i >= 0; i-- {
			var err error
			if t, err = suffixes[i](t); err != nil {
				return nil, err
			}
		}
		return inner(t)
	}, nil
}

// groupingAhead distinguishes "(*)" style grouping from a parameter list.
func (p *Parser) groupingAhead() bool {
	switch p.peekAt(1).Type {
	case TokenStar, TokenAmp, TokenAmpAmp:
		return true
	case TokenIdent:
		save := p.pos
		p.pos++
		ok := p.memberPointerAhead()
		p.pos = save
		return ok
	}
	return false
}

func (p *Parser) arraySuffix() (declarator, error) {
	open := p.next()
	n := -1
	if p.peek().Type == TokenNumber {
		v, err := strconv.Atoi(p.next().Value)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", open.Pos, err)
		}
		n = v
	}
	if _, err := p.expect(TokenRBracket); err != nil {
		return nil, err
	}
	return func(t *types.Type) (*types.Type, error) {
		switch {
		case t.IsReference():
			return nil, fmt.Errorf("offset %d: array of references", open.Pos)
		case t.IsVoid():
			return nil, fmt.Errorf("offset %d: array of void", open.Pos)
		case t.Kind == types.KindFunction:
			return nil, fmt.Errorf("offset %d: array of functions", open.Pos)
		}
		return types.ArrayOf(t, n), nil
	}, nil
}

func (p *Parser) functionSuffix() (declarator, error) {
	open := p.next()
	sig := &types.Signature{}
	if p.peek().Type == TokenIdent && p.peek().Value == "void" && p.peekAt(1).Type == TokenRParen {
		p.next()
	}
	for p.peek().Type != TokenRParen {
		if p.peek().Type == TokenEllipsis {
			p.next()
			sig.Variadic = true
			break
		}
		param, err := p.typeID()
		if err != nil {
			return nil, err
		}
		if !param.IsReference() {
			param = types.Decay(param)
		}
		sig.Params = append(sig.Params, param)
		if p.peek().Type != TokenComma {
			break
		}
		p.next()
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	sig.Const, _ = p.cvQualifiers()
	switch p.peek().Type {
	case TokenAmp:
		p.next()
		sig.RefQual = types.RefLValue
	case TokenAmpAmp:
		p.next()
		sig.RefQual = types.RefRValue
	}
	return func(t *types.Type) (*types.Type, error) {
		if t.Kind == types.KindArray || t.Kind == types.KindFunction {
			return nil, fmt.Errorf("offset %d: function returning %s", open.Pos, t.Kind)
		}
		s := *sig
		s.Result = t
		return &types.Type{Kind: types.KindFunction, Sig: &s}, nil
	}, nil
}
