// Package typeexpr parses C-style type-ids such as "const Foo&",
// "int(*)(double)" or "int (Foo::*)(int) const" into types.Type values.
package typeexpr

import (
	"fmt"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenNumber
	TokenStar
	TokenAmp
	TokenAmpAmp
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenScope
	TokenEllipsis
)

var tokenNames = map[TokenType]string{
	TokenEOF:      "end of input",
	TokenIdent:    "identifier",
	TokenNumber:   "number",
	TokenStar:     "'*'",
	TokenAmp:      "'&'",
	TokenAmpAmp:   "'&&'",
	TokenLParen:   "'('",
	TokenRParen:   "')'",
	TokenLBracket: "'['",
	TokenRBracket: "']'",
	TokenComma:    "','",
	TokenScope:    "'::'",
	TokenEllipsis: "'...'",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token is one lexeme with its byte offset.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// tokenize splits src into tokens, ending with TokenEOF.
func tokenize(src string) ([]Token, error) {
	var toks []Token
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			toks = append(toks, Token{Type: TokenIdent, Value: string(runes[start:i]), Pos: start})
		case unicode.IsDigit(r):
			start := i
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				i++
			}
			toks = append(toks, Token{Type: TokenNumber, Value: string(runes[start:i]), Pos: start})
		case r == '&':
			if i+1 < len(runes) && runes[i+1] == '&' {
				toks = append(toks, Token{Type: TokenAmpAmp, Value: "&&", Pos: i})
				i += 2
				continue
			}
			toks = append(toks, Token{Type: TokenAmp, Value: "&", Pos: i})
			i++
		case r == ':':
			if i+1 >= len(runes) || runes[i+1] != ':' {
				return nil, fmt.Errorf("offset %d: expected '::'", i)
			}
			toks = append(toks, Token{Type: TokenScope, Value: "::", Pos: i})
			i += 2
		case r == '.':
			if i+2 >= len(runes) || runes[i+1] != '.' || runes[i+2] != '.' {
				return nil, fmt.Errorf("offset %d: expected '...'", i)
			}
			toks = append(toks, Token{Type: TokenEllipsis, Value: "...", Pos: i})
			i += 3
		default:
			tt, ok := punctuation[r]
			if !ok {
				return nil, fmt.Errorf("offset %d: unexpected character %q", i, r)
			}
			toks = append(toks, Token{Type: tt, Value: string(r), Pos: i})
			i++
		}
	}
	toks = append(toks, Token{Type: TokenEOF, Pos: len(runes)})
	return toks, nil
}

var punctuation = map[rune]TokenType{
	'*': TokenStar,
	'(': TokenLParen,
	')': TokenRParen,
	'[': TokenLBracket,
	']': TokenRBracket,
	',': TokenComma,
}
