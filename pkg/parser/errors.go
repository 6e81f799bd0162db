package parser

import (
	"fmt"
	"strings"
)

// Error describes where and why the input was rejected.
type Error struct {
	Input  string
	Offset int // byte offset into Input
	Line   int // 1-based
	Column int // 1-based, in runes
	Msg    string
}

func newError(input string, offset int, msg string) *Error {
	line, col := 1, 1
	if offset > len(input) {
		offset = len(input)
	}
	for _, r := range input[:offset] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &Error{Input: input, Offset: offset, Line: line, Column: col, Msg: msg}
}

func expected(input string, got token, what ...string) *Error {
	return newError(input, got.pos, fmt.Sprintf("expected %s, found %s", strings.Join(what, " or "), got))
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

// Pretty renders the offending line with a caret under the error position.
func (e *Error) Pretty() string {
	lines := strings.Split(e.Input, "\n")
	line := ""
	if e.Line-1 < len(lines) {
		line = lines[e.Line-1]
	}
	num := fmt.Sprintf("%d", e.Line)
	pad := strings.Repeat(" ", len(num))

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s--> %d:%d\n", pad, e.Line, e.Column)
	fmt.Fprintf(&sb, "%s |\n", pad)
	fmt.Fprintf(&sb, "%s | %s\n", num, line)
	fmt.Fprintf(&sb, "%s | %s^\n", pad, strings.Repeat(" ", e.Column-1))
	fmt.Fprintf(&sb, "%s |\n", pad)
	fmt.Fprintf(&sb, "%s = %s", pad, e.Msg)
	return sb.String()
}
