package parse

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokLAngle
	tokRAngle
	tokComma
	tokAmp
	tokAmpAmp
	tokStar
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokInt:
		return "integer"
	case tokLAngle:
		return "'<'"
	case tokRAngle:
		return "'>'"
	case tokComma:
		return "','"
	case tokAmp:
		return "'&'"
	case tokAmpAmp:
		return "'&&'"
	case tokStar:
		return "'*'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		panic("unreachable")
	}
}

type token struct {
	Kind tokenKind
	Text string
	Pos  int
}

func lex(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c, size := utf8.DecodeRuneInString(src[i:])
		if c == utf8.RuneError && size == 1 {
			return nil, fmt.Errorf("at %d: invalid UTF-8", i)
		}
		switch {
		case unicode.IsSpace(c):
			i += size
		case c == '<':
			tokens = append(tokens, token{tokLAngle, "<", i})
			i++
		case c == '>':
			tokens = append(tokens, token{tokRAngle, ">", i})
			i++
		case c == ',':
			tokens = append(tokens, token{tokComma, ",", i})
			i++
		case c == '*':
			tokens = append(tokens, token{tokStar, "*", i})
			i++
		case c == '(':
			tokens = append(tokens, token{tokLParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{tokRParen, ")", i})
			i++
		case c == '&':
			if i+1 < len(src) && src[i+1] == '&' {
				tokens = append(tokens, token{tokAmpAmp, "&&", i})
				i += 2
			} else {
				tokens = append(tokens, token{tokAmp, "&", i})
				i++
			}
		case c == '-' || '0' <= c && c <= '9':
			start := i
			i++
			for i < len(src) && '0' <= src[i] && src[i] <= '9' {
				i++
			}
			text := src[start:i]
			if text == "-" {
				return nil, fmt.Errorf("at %d: stray '-'", start)
			}
			tokens = append(tokens, token{tokInt, text, start})
		case unicode.IsLetter(c) || c == '_':
			start := i
			for i < len(src) {
				r, sz := utf8.DecodeRuneInString(src[i:])
				if !isIdentRune(r) {
					break
				}
				i += sz
			}
			tokens = append(tokens, token{tokIdent, src[start:i], start})
		default:
			return nil, fmt.Errorf("at %d: unexpected character %q", i, c)
		}
	}
	tokens = append(tokens, token{tokEOF, "", len(src)})
	return tokens, nil
}

func isIdentRune(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}
