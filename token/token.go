// Package token defines the shared lexeme representation produced by the
// lexer and consumed by the parser: a tag drawn from a closed set plus a
// value and a source line.
package token

import "fmt"

// Kind differentiates the closed set of lexeme tags the tokenizer emits.
type Kind int

const (
	EOF Kind = iota
	Identifier
	Keyword
	Number
	String
	Operator
	Character
)

// kindNames gives print-friendly names to Kind, indexed by Kind.
var kindNames = [...]string{
	"EOF",
	"identifier",
	"keyword",
	"number",
	"string",
	"operator",
	"character",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Token is one lexeme: a tag, its textual or numeric value, and the 1-based
// source line it was scanned from.
type Token struct {
	Kind  Kind
	Value string  // Raw text for Identifier, Keyword, Operator, Character, Number; escape-decoded contents for String.
	Num   float64 // Decoded value for Number; unused otherwise.
	Line  int
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "<eof>"
	case Number:
		return fmt.Sprintf("%g", t.Num)
	case String:
		return fmt.Sprintf("%q", t.Value)
	default:
		return t.Value
	}
}

// Keywords is the set of Lua 5.1 reserved words. A word in this set is
// tokenized as Keyword rather than Identifier.
var Keywords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "if": true,
	"in": true, "local": true, "nil": true, "not": true, "or": true,
	"repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

// Operators lists the operator lexemes, multi-character ones first so that a
// greedy longest-match scan never needs backtracking across this table.
var Operators = []string{
	"...", "==", "~=", "<=", ">=", "..",
	"<", ">", "=", "+", "-", "*", "/", "%", "^", "#", ".",
}

// Characters is the set of single-rune structural punctuation: delimiters
// that are never part of a longer operator lexeme. A lone '.' is an
// Operator (it may start a "." or ".." or "..." lexeme), not a Character.
var Characters = "(){}[];:,"
