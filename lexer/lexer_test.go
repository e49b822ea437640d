package lexer

import (
	"testing"

	"github.com/ha1tch/calcline/token"
)

func TestBasicOperators(t *testing.T) {
	input := "+-*/^!~&|()[],:.=#%‰"
	expected := []token.Type{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.CARET, token.BANG,
		token.TILDE, token.AMP, token.PIPE, token.LPAREN, token.RPAREN,
		token.LBRACKET, token.RBRACKET, token.COMMA, token.COLON, token.DOT,
		token.EQ, token.HASH, token.PERCENT, token.PERMILLE,
	}
	l := New(input, 1)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Errorf("token %d: got %v, want %v (literal %q)", i, tok.Type, want, tok.Literal)
		}
	}
}

func TestTwoCharOperators(t *testing.T) {
	tests := []struct {
		input string
		want  token.Type
	}{
		{"==", token.EQEQ}, {"!=", token.NEQ}, {"<=", token.LTE}, {">=", token.GTE},
		{"<<", token.SHL}, {">>", token.SHR}, {"&&", token.ANDAND}, {"||", token.OROR},
		{"->", token.ARROW}, {"→", token.ARROW}, {"<", token.LT}, {">", token.GT},
	}
	for _, tt := range tests {
		l := New(tt.input, 1)
		tok := l.NextToken()
		if tok.Type != tt.want {
			t.Errorf("input %q: got %v, want %v", tt.input, tok.Type, tt.want)
		}
	}
}

func TestNumericLiterals(t *testing.T) {
	tests := []struct {
		input string
		typ   token.Type
		lit   string
	}{
		{"12345", token.INT, "12345"},
		{"1_234_567", token.INT, "1_234_567"},
		{"0x1F", token.INT, "0x1F"},
		{"0o17", token.INT, "0o17"},
		{"0b101", token.INT, "0b101"},
		{"123.45", token.FLOAT, "123.45"},
		{".5", token.FLOAT, ".5"},
		{"1e10", token.FLOAT, "1e10"},
		{"1.5e-3", token.FLOAT, "1.5e-3"},
	}
	for _, tt := range tests {
		l := New(tt.input, 1)
		tok := l.NextToken()
		if tok.Type != tt.typ || tok.Literal != tt.lit {
			t.Errorf("input %q: got {%v %q}, want {%v %q}", tt.input, tok.Type, tok.Literal, tt.typ, tt.lit)
		}
	}
}

func TestClockLiteral(t *testing.T) {
	tests := []string{"14:30", "09:15:00", "23:59:59"}
	for _, input := range tests {
		l := New(input, 1)
		tok := l.NextToken()
		if tok.Type != token.CLOCK {
			t.Errorf("input %q: got %v, want CLOCK", input, tok.Type)
		}
		if tok.Literal != input {
			t.Errorf("input %q: literal = %q", input, tok.Literal)
		}
	}
}

func TestCurrencyAdjacent(t *testing.T) {
	l := New("$5", 1)
	tok := l.NextToken()
	if tok.Type != token.CURRENCY_NUM || tok.Literal != "$5" {
		t.Errorf("got {%v %q}, want {CURRENCY_NUM \"$5\"}", tok.Type, tok.Literal)
	}
}

func TestCurrencySymbolWithoutDigitIsIllegal(t *testing.T) {
	l := New("$ 5", 1)
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Errorf("got %v, want ILLEGAL for a currency symbol with a space before the digit", tok.Type)
	}
}

func TestConstantSymbol(t *testing.T) {
	l := New("π", 1)
	tok := l.NextToken()
	if tok.Type != token.CONSTANT_SYM || tok.Literal != "π" {
		t.Errorf("got {%v %q}", tok.Type, tok.Literal)
	}
}

func TestSuperscript(t *testing.T) {
	tests := []string{"²", "³", "⁻¹"}
	for _, input := range tests {
		l := New(input, 1)
		tok := l.NextToken()
		if tok.Type != token.SUPERSCRIPT {
			t.Errorf("input %q: got %v, want SUPERSCRIPT", input, tok.Type)
		}
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  token.Type
	}{
		{"to", token.TO}, {"in", token.IN}, {"as", token.AS},
		{"if", token.IF}, {"then", token.THEN}, {"else", token.ELSE},
		{"per", token.PER}, {"mod", token.MOD}, {"xor", token.XOR},
		{"true", token.TRUE}, {"false", token.FALSE},
		{"now", token.NOW}, {"today", token.TODAY}, {"ago", token.AGO},
	}
	for _, tt := range tests {
		l := New(tt.input, 1)
		tok := l.NextToken()
		if tok.Type != tt.want {
			t.Errorf("input %q: got %v, want %v", tt.input, tok.Type, tt.want)
		}
	}
}

func TestMultiWordKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  token.Type
	}{
		{"sig figs", token.SIG_FIGS},
		{"significant figures", token.SIG_FIGS},
		{"ISO 8601", token.ISO_8601},
		{"RFC 9557", token.RFC_9557},
		{"RFC 2822", token.RFC_2822},
		{"days of year", token.DAYS_OF_YEAR},
		{"weeks of year", token.WEEKS_OF_YEAR},
	}
	for _, tt := range tests {
		l := New(tt.input, 1)
		tok := l.NextToken()
		if tok.Type != tt.want {
			t.Errorf("input %q: got %v (literal %q), want %v", tt.input, tok.Type, tok.Literal, tt.want)
		}
	}
}

func TestIdentifierFallsBackWhenNotKeyword(t *testing.T) {
	l := New("hong_kong_dollar", 1)
	tok := l.NextToken()
	if tok.Type != token.IDENT || tok.Literal != "hong_kong_dollar" {
		t.Errorf("got {%v %q}", tok.Type, tok.Literal)
	}
}

func TestTokenizeAppendsEOF(t *testing.T) {
	toks := Tokenize("5 km to m", 1)
	if len(toks) == 0 || toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("expected trailing EOF token")
	}
}

func TestUnrecognizedCharacterIsRecoverable(t *testing.T) {
	toks := Tokenize("5 @ km", 1)
	foundIllegal := false
	for _, tok := range toks {
		if tok.Type == token.ILLEGAL {
			foundIllegal = true
		}
	}
	if !foundIllegal {
		t.Fatalf("expected an ILLEGAL token for '@', tokenization must not abort")
	}
	// The scan still reaches EOF despite the illegal character.
	if toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("expected scan to continue to EOF after an illegal character")
	}
}

func TestLineNumberPropagates(t *testing.T) {
	l := New("5", 42)
	tok := l.NextToken()
	if tok.Line != 42 {
		t.Errorf("tok.Line = %d, want 42", tok.Line)
	}
}
