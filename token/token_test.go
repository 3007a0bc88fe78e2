package token

import "testing"

func TestKindString(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{EOF, "EOF"},
		{Identifier, "identifier"},
		{Number, "number"},
		{Kind(99), "Kind(99)"},
	}
	for _, c := range cases {
		if got := c.k.String(); got != c.want {
			t.Errorf("Kind(%d).String() = %q, want %q", c.k, got, c.want)
		}
	}
}

func TestTokenString(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: EOF}, "<eof>"},
		{Token{Kind: Number, Num: 3.5}, "3.5"},
		{Token{Kind: String, Value: "hi"}, `"hi"`},
		{Token{Kind: Operator, Value: "+"}, "+"},
	}
	for _, c := range cases {
		if got := c.tok.String(); got != c.want {
			t.Errorf("Token.String() = %q, want %q", got, c.want)
		}
	}
}

func TestKeywordsExcludeIdentifiers(t *testing.T) {
	if Keywords["foo"] {
		t.Error("foo should not be a keyword")
	}
	if !Keywords["function"] {
		t.Error("function should be a keyword")
	}
}

func TestOperatorsLongestFirst(t *testing.T) {
	// A greedy scan depends on longer lexemes appearing before any of their
	// prefixes, so "..." must precede "..", which must precede ".".
	idx := map[string]int{}
	for i, op := range Operators {
		idx[op] = i
	}
	if idx["..."] > idx[".."] || idx[".."] > idx["."] {
		t.Errorf("Operators not ordered longest-first: %v", Operators)
	}
}
