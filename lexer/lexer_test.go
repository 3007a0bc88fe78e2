package lexer

import (
	"testing"

	"luac51/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenizeBasic(t *testing.T) {
	toks, err := Tokenize([]byte(`local x = 1 + 2`))
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	want := []token.Kind{
		token.Keyword, token.Identifier, token.Operator, token.Number,
		token.Operator, token.Number, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := Tokenize([]byte(`"a\tb\065"`))
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if len(toks) != 2 || toks[0].Kind != token.String {
		t.Fatalf("unexpected tokens: %v", toks)
	}
	if want := "a\tbA"; toks[0].Value != want {
		t.Errorf("decoded string = %q, want %q", toks[0].Value, want)
	}
}

func TestTokenizeEmbeddedNUL(t *testing.T) {
	toks, err := Tokenize([]byte("\"a\\0b\""))
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if want := "a\x00b"; toks[0].Value != want {
		t.Errorf("decoded string = %q, want %q", toks[0].Value, want)
	}
}

func TestTokenizeLongString(t *testing.T) {
	toks, err := Tokenize([]byte("[==[\nhello]=]]==]"))
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if len(toks) != 2 || toks[0].Kind != token.String {
		t.Fatalf("unexpected tokens: %v", toks)
	}
	if want := "hello]=]"; toks[0].Value != want {
		t.Errorf("long string body = %q, want %q", toks[0].Value, want)
	}
}

func TestTokenizeLongComment(t *testing.T) {
	toks, err := Tokenize([]byte("--[[ ignored\nstill ignored ]] local x"))
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	got := kinds(toks)
	want := []token.Kind{token.Keyword, token.Identifier, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want kinds %v", toks, want)
	}
}

func TestTokenizeHexNumber(t *testing.T) {
	toks, err := Tokenize([]byte(`0xFF`))
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if toks[0].Num != 255 {
		t.Errorf("0xFF decoded as %v, want 255", toks[0].Num)
	}
}

func TestTokenizeOperatorLongestMatch(t *testing.T) {
	toks, err := Tokenize([]byte(`a...b..c.d`))
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	var ops []string
	for _, tk := range toks {
		if tk.Kind == token.Operator {
			ops = append(ops, tk.Value)
		}
	}
	want := []string{"...", "..", "."}
	if len(ops) != len(want) {
		t.Fatalf("operators = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("operator %d = %q, want %q", i, ops[i], want[i])
		}
	}
}

func TestTokenizeUnterminatedStringError(t *testing.T) {
	_, err := Tokenize([]byte(`"unterminated`))
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestTokenizeLineNumbers(t *testing.T) {
	toks, err := Tokenize([]byte("local x\nlocal y"))
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if toks[0].Line != 1 {
		t.Errorf("first token line = %d, want 1", toks[0].Line)
	}
	var foundLine2 bool
	for _, tk := range toks {
		if tk.Line == 2 {
			foundLine2 = true
		}
	}
	if !foundLine2 {
		t.Error("expected a token on line 2")
	}
}
