package expr

import (
	"errors"
	"strings"
	"testing"
)

func TestLexer_Tokens(t *testing.T) {
	l := lexer{s: "Math.pow(x, .5) ** 2e-1 [ ] % ^"}
	want := []tokenKind{
		tokIdent, tokDot, tokIdent, tokLParen, tokIdent, tokComma, tokNumber, tokRParen,
		tokStarStar, tokNumber, tokLParen, tokRParen, tokPercent, tokCaret, tokEOF,
	}
	for i, k := range want {
		tok := l.next()
		if tok.kind != k {
			t.Fatalf("token %d kind=%v text=%q want %v", i, tok.kind, tok.text, k)
		}
	}
}

func TestLexer_NonASCIIIsIllegal(t *testing.T) {
	l := lexer{s: "π"}
	tok := l.next()
	if tok.kind != tokIllegal || tok.text != "π" {
		t.Fatalf("next() kind=%v text=%q", tok.kind, tok.text)
	}
	if tok := l.next(); tok.kind != tokEOF {
		t.Fatalf("after illegal kind=%v", tok.kind)
	}
}

func TestCompile_Accepts(t *testing.T) {
	tests := []string{
		"x",
		"Math.sin(x)",
		"sin(x)",
		"-x^2",
		"2^-x",
		"x ** 3",
		"Math.max(1, x, 3)",
		"Math.PI * x",
		"(((x)))",
		"[x + 1] * 2",
		"1e3 + .5 + 5.",
		"atan2(x, 1) % 2",
	}
	for _, src := range tests {
		if _, err := Compile(src); err != nil {
			t.Fatalf("Compile(%q) error: %v", src, err)
		}
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{in: "", want: ErrParse},
		{in: "   ", want: ErrParse},
		{in: "((", want: ErrParse},
		{in: "x +", want: ErrParse},
		{in: "x y", want: ErrParse},
		{in: "sin(x", want: ErrParse},
		{in: "2 # 3", want: ErrParse},
		{in: "Math.", want: ErrParse},
		{in: "1.2.3", want: ErrParse},
		{in: "y", want: ErrUnknownIdent},
		{in: "Math.x", want: ErrUnknownIdent},
		{in: "foo(x)", want: ErrUnknownIdent},
		{in: "sin", want: ErrEval},
		{in: "sin(1, 2)", want: ErrEval},
		{in: "atan2(1)", want: ErrEval},
		{in: "max()", want: ErrEval},
		{in: "window.alert(1)", want: ErrUnknownIdent},
	}
	for _, tt := range tests {
		_, err := Compile(tt.in)
		if !errors.Is(err, tt.want) {
			t.Fatalf("Compile(%q) err=%v want %v", tt.in, err, tt.want)
		}
	}
}

func TestCompile_UnknownIdentIsEvalError(t *testing.T) {
	_, err := Compile("Math.foo(x)")
	if !errors.Is(err, ErrEval) || !errors.Is(err, ErrUnknownIdent) {
		t.Fatalf("Compile err=%v", err)
	}
}

func TestCompile_DepthLimit(t *testing.T) {
	deep := strings.Repeat("(", maxDepth+1) + "x" + strings.Repeat(")", maxDepth+1)
	if _, err := Compile(deep); !errors.Is(err, ErrParse) {
		t.Fatalf("Compile(deep parens) err=%v", err)
	}
	if _, err := Compile(strings.Repeat("-", 10000) + "x"); !errors.Is(err, ErrParse) {
		t.Fatalf("Compile(deep unary) err=%v", err)
	}

	if _, err := Compile(strings.Repeat("x^", 6_000_000) + "x"); !errors.Is(err, ErrParse) {
		t.Fatalf("Compile(power chain) err=%v", err)
	}
	if _, err := Compile(strings.Repeat("x**", maxDepth+1) + "x"); !errors.Is(err, ErrParse) {
		t.Fatalf("Compile(** chain) err=%v", err)
	}

	ok := strings.Repeat("(", maxDepth) + "x" + strings.Repeat(")", maxDepth)
	if _, err := Compile(ok); err != nil {
		t.Fatalf("Compile(max depth) err=%v", err)
	}
	if _, err := Compile(strings.Repeat("x^", maxDepth-1) + "x"); err != nil {
		t.Fatalf("Compile(max power chain) err=%v", err)
	}
}

func TestCompile_OperandLimit(t *testing.T) {
	for _, src := range []string{
		strings.Repeat("x+", 8_000_000) + "x",
		strings.Repeat("x*", maxOperands) + "x",
		strings.Repeat("x-1+", maxOperands/2) + "x",
	} {
		if _, err := Compile(src); !errors.Is(err, ErrParse) {
			t.Fatalf("Compile(%d bytes) err=%v want ErrParse", len(src), err)
		}
		if _, ok := Evaluate(src, 1); ok {
			t.Fatalf("Evaluate(%d bytes) ok", len(src))
		}
	}

	long := strings.Repeat("x+", maxOperands-1) + "x"
	p, err := Compile(long)
	if err != nil {
		t.Fatalf("Compile(%d operands) err=%v", maxOperands, err)
	}
	if got, ok := p.At(1); !ok || got != maxOperands {
		t.Fatalf("At(1) got=%v,%v want %d", got, ok, maxOperands)
	}
}
