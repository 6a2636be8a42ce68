package lexer

import (
	"testing"

	"bintpl/token"
)

// tokenTypes extracts just the TokenType sequence from a scan, since
// exact column bookkeeping is not part of this package's contract.
func tokenTypes(tokens []token.Token) []token.TokenType {
	types := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.TokenType
	}
	return types
}

func runScan(t *testing.T, input string, expected []token.TokenType) []token.Token {
	t.Helper()
	lex := New(input)
	got, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan(%q) returned error: %v", input, err)
	}
	gotTypes := tokenTypes(got)
	if len(gotTypes) != len(expected) {
		t.Fatalf("Scan(%q) = %v, want %v", input, gotTypes, expected)
	}
	for i := range expected {
		if gotTypes[i] != expected[i] {
			t.Errorf("Scan(%q)[%d] = %v, want %v", input, i, gotTypes[i], expected[i])
		}
	}
	return got
}

func TestOperators(t *testing.T) {
	expected := []token.TokenType{
		token.EQUAL_EQUAL, token.SLASH_EQ, token.STAR, token.PLUS,
		token.LARGER, token.MINUS, token.LESS, token.NOT_EQUAL, token.LESS_EQUAL,
		token.LARGER_EQUAL, token.BANG, token.BANG, token.EOF,
	}
	runScan(t, "==/=*+>-<!=<=>=!!", expected)
}

func TestCompoundAssignAndShift(t *testing.T) {
	expected := []token.TokenType{
		token.PLUS_EQ, token.SHL, token.SHL_EQ, token.SHR, token.SHR_EQ,
		token.AND_AND, token.OR_OR, token.EOF,
	}
	runScan(t, "+=<<<<=>>>>=&&||", expected)
}

func TestDelimiters(t *testing.T) {
	expected := []token.TokenType{
		token.LPA, token.RPA, token.LCUR, token.RCUR, token.LBRACK, token.RBRACK,
		token.SEMICOLON, token.COMMA, token.COLON, token.DOT, token.EOF,
	}
	runScan(t, "(){}[];,:.", expected)
}

func TestKeywordsAndTypes(t *testing.T) {
	expected := []token.TokenType{
		token.STRUCT, token.UNION, token.ENUM, token.TYPEDEF,
		token.LOCAL, token.CONST, token.TYPE_UINT32, token.TYPE_STRING,
		token.IDENTIFIER, token.EOF,
	}
	runScan(t, "struct union enum typedef local const uint32 string myVar", expected)
}

func TestIntAndFloatLiterals(t *testing.T) {
	tokens := runScan(t, "42 3.14 0x1F", []token.TokenType{token.INT, token.FLOAT, token.INT, token.EOF})
	if tokens[0].Literal.(int64) != 42 {
		t.Errorf("expected 42, got %v", tokens[0].Literal)
	}
	if tokens[1].Literal.(float64) != 3.14 {
		t.Errorf("expected 3.14, got %v", tokens[1].Literal)
	}
	if tokens[2].Literal.(int64) != 0x1F {
		t.Errorf("expected 31, got %v", tokens[2].Literal)
	}
}

func TestStringLiteral(t *testing.T) {
	tokens := runScan(t, `"hello\nworld"`, []token.TokenType{token.STRING, token.EOF})
	if tokens[0].Literal.(string) != "hello\nworld" {
		t.Errorf("expected %q, got %q", "hello\nworld", tokens[0].Literal)
	}
}

func TestUnclosedStringIsError(t *testing.T) {
	lex := New(`"unterminated`)
	_, err := lex.Scan()
	if err == nil {
		t.Fatalf("expected an error for unterminated string literal")
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	runScan(t, "uint32 a; # trailing comment\nuint32 b;", []token.TokenType{
		token.TYPE_UINT32, token.IDENTIFIER, token.SEMICOLON,
		token.TYPE_UINT32, token.IDENTIFIER, token.SEMICOLON, token.EOF,
	})
}

func TestBitfieldDeclaration(t *testing.T) {
	runScan(t, "struct F { uint a:3; };", []token.TokenType{
		token.STRUCT, token.IDENTIFIER, token.LCUR,
		token.TYPE_UINT, token.IDENTIFIER, token.COLON, token.INT, token.SEMICOLON,
		token.RCUR, token.SEMICOLON, token.EOF,
	})
}
