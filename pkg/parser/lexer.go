package parser

import (
	"fmt"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokClock
	tokWord
	tokPlus
	tokLParen
	tokRParen
	tokAt
	tokSlash
	tokDash
)

var tokenNames = map[tokenKind]string{
	tokEOF:    "end of input",
	tokNumber: "number",
	tokClock:  "time (m:ss)",
	tokWord:   "word",
	tokPlus:   "'+'",
	tokLParen: "'('",
	tokRParen: "')'",
	tokAt:     "'@'",
	tokSlash:  "'/'",
	tokDash:   "'-'",
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return t.kind.String()
	}
	return fmt.Sprintf("'%s'", t.text)
}

func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case isSpace(c):
			i++
		case isDigit(c):
			start := i
			for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
				i++
			}
			if i < len(input) && input[i] == ':' {
				// clocks are validated by the parser, "7:invalid" lexes as one token
				i++
				for i < len(input) && isAlnum(input[i]) {
					i++
				}
				tokens = append(tokens, token{kind: tokClock, text: input[start:i], pos: start})
				continue
			}
			tokens = append(tokens, token{kind: tokNumber, text: input[start:i], pos: start})
		case isLetter(c):
			start := i
			for i < len(input) && isAlnum(input[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokWord, text: input[start:i], pos: start})
		default:
			kind, ok := punct[c]
			if !ok {
				r, _ := utf8.DecodeRuneInString(input[i:])
				return nil, newError(input, i, fmt.Sprintf("unexpected character '%c'", r))
			}
			tokens = append(tokens, token{kind: kind, text: string(c), pos: i})
			i++
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(input)})
	return tokens, nil
}

var punct = map[byte]tokenKind{
	'+': tokPlus,
	'(': tokLParen,
	')': tokRParen,
	'@': tokAt,
	'/': tokSlash,
	'-': tokDash,
}

func isSpace(c byte) bool  { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isAlnum(c byte) bool  { return isDigit(c) || isLetter(c) }
