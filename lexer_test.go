// Copyright 2024 qb64-lang-utils contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qbparse

import (
	"math/big"
	"testing"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(src, NewSymbolStore())
	var toks []Token
	for {
		tok, ok := l.Next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexer_KeywordIdentifierPartition(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want TokenKind
	}{
		{"bare keyword", "if", KEYWORD},
		{"keyword with string sigil", "if$", ID},
		{"keyword with parametric string sigil", "if$8", ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexAll(t, tt.src)
			if len(toks) != 1 {
				t.Fatalf("expected 1 token, got %d: %v", len(toks), toks)
			}
			if toks[0].Kind != tt.want {
				t.Errorf("%s: got %s, want %s", tt.src, toks[0].Kind, tt.want)
			}
		})
	}
}

func TestLexer_IllegalSigilOnKeyword(t *testing.T) {
	toks := lexAll(t, "if%")
	if len(toks) != 1 || toks[0].Kind != ERROR {
		t.Fatalf("expected a single ERROR token, got %v", toks)
	}
}

func TestLexer_QuestionMarkIsPrintKeyword(t *testing.T) {
	toks := lexAll(t, "?")
	if len(toks) != 1 || toks[0].Kind != KEYWORD || toks[0].Value != "?" {
		t.Fatalf("expected KEYWORD(?), got %v", toks)
	}
}

func TestLexer_CaseInsensitiveKeyword(t *testing.T) {
	for _, src := range []string{"IF", "If", "iF", "if"} {
		toks := lexAll(t, src)
		if len(toks) != 1 || toks[0].Kind != KEYWORD || toks[0].Value != "if" {
			t.Errorf("%s: expected KEYWORD(if), got %v", src, toks)
		}
	}
}

func TestLexer_BuiltinSigilRoundTrip(t *testing.T) {
	store := NewSymbolStore()
	for sigil, want := range builtinSigils {
		got, err := store.LookupSigil(&sigil)
		if err != nil {
			t.Fatalf("LookupSigil(%q): %v", sigil, err)
		}
		if got != want {
			t.Errorf("LookupSigil(%q) = %v, want %v", sigil, got, want)
		}
	}
}

func TestLexer_ParametricSigilCaching(t *testing.T) {
	store := NewSymbolStore()
	sigil := "`12"
	t1, err := store.LookupSigil(&sigil)
	if err != nil {
		t.Fatal(err)
	}
	t2, err := store.LookupSigil(&sigil)
	if err != nil {
		t.Fatal(err)
	}
	if t1 != t2 {
		t.Error("expected identical cached Type for repeated parametric sigil lookup")
	}
	if t1.Name != "_bit * 12" {
		t.Errorf("got name %q", t1.Name)
	}
}

// Numeric literals below are all prefixed with "(" to push them off column
// 0: a bare leading digit run at the start of a physical line is read as a
// LINE_NUM first (genuine BASIC line numbers and literal-leading statements
// are lexically ambiguous at column 0; see classifyID's caller in lexer.go),
// so these cases are only testable mid-line.

func TestLexer_IntLiteral(t *testing.T) {
	toks := lexAll(t, "(42")
	if len(toks) != 2 || toks[1].Kind != INT_LIT {
		t.Fatalf("got %v", toks)
	}
	v, ok := toks[1].Value.(*big.Int)
	if !ok || v.Int64() != 42 {
		t.Errorf("got value %v", toks[1].Value)
	}
}

func TestLexer_DecLiteral(t *testing.T) {
	toks := lexAll(t, "(3.25")
	if len(toks) != 2 || toks[1].Kind != DEC_LIT {
		t.Fatalf("got %v", toks)
	}
	if toks[1].Value.(float64) != 3.25 {
		t.Errorf("got value %v", toks[1].Value)
	}
}

func TestLexer_ExpLiteral_FFlagMantissaExponent(t *testing.T) {
	toks := lexAll(t, "(1.725F+2")
	if len(toks) != 2 || toks[1].Kind != EXP_LIT {
		t.Fatalf("got %v", toks)
	}
	v, ok := toks[1].Value.(ExpLitFloat)
	if !ok {
		t.Fatalf("expected ExpLitFloat, got %T", toks[1].Value)
	}
	if v.Mantissa != 1725 || v.Exponent != -1 {
		t.Errorf("got (%d, %d), want (1725, -1)", v.Mantissa, v.Exponent)
	}
}

func TestLexer_ExpLiteral_OutOfRange(t *testing.T) {
	toks := lexAll(t, "(1D999")
	if len(toks) != 2 || toks[1].Kind != ERROR {
		t.Fatalf("expected ERROR for out-of-range double literal, got %v", toks)
	}
}

func TestLexer_BaseLiteral(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int64
	}{
		{"hex", "&H1F", 31},
		{"octal", "&O17", 15},
		{"binary", "&B101", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexAll(t, tt.src)
			if len(toks) != 1 || toks[0].Kind != BASE_LIT {
				t.Fatalf("got %v", toks)
			}
			if toks[0].Value.(*big.Int).Int64() != tt.want {
				t.Errorf("got %v, want %d", toks[0].Value, tt.want)
			}
		})
	}
}

func TestLexer_BaseLiteral_TwosComplementReinterpretation(t *testing.T) {
	// &HFFFF% doesn't fit signed integer's range but does fit its
	// unsigned range, so it's reinterpreted as -1.
	toks := lexAll(t, "&HFFFF%")
	if len(toks) != 1 || toks[0].Kind != BASE_LIT {
		t.Fatalf("got %v", toks)
	}
	if toks[0].Value.(*big.Int).Int64() != -1 {
		t.Errorf("got %v, want -1", toks[0].Value)
	}
}

func TestLexer_StringLiteral(t *testing.T) {
	toks := lexAll(t, `"hello world"`)
	if len(toks) != 1 || toks[0].Kind != STRING_LIT || toks[0].Value != "hello world" {
		t.Fatalf("got %v", toks)
	}
}

func TestLexer_LineContinuationJoinsLines(t *testing.T) {
	toks := lexAll(t, "x = 1 _\n+ 2")
	for _, tok := range toks {
		if tok.Kind == NEWLINE {
			t.Fatalf("continuation should produce no NEWLINE token, got %v", toks)
		}
	}
	if len(toks) != 5 || toks[4].Kind != INT_LIT {
		t.Fatalf("got %v", toks)
	}
}

func TestLexer_CommentAndRemarkNormalizeToNewline(t *testing.T) {
	for _, src := range []string{"'comment\n", "REM remark\n"} {
		toks := lexAll(t, src)
		if len(toks) != 1 || toks[0].Kind != NEWLINE {
			t.Errorf("%q: expected a single NEWLINE token, got %v", src, toks)
		}
	}
}

func TestLexer_LineNumberAndLabel(t *testing.T) {
	toks := lexAll(t, "10 mylabel:")
	if len(toks) != 1 || toks[0].Kind != LINE_NUM_LABEL {
		t.Fatalf("got %v", toks)
	}
	v := toks[0].Value.(LineNumLabel)
	if v.Digits != "10" || v.Label != "mylabel" {
		t.Errorf("got %+v", v)
	}
}

func TestLexer_LineNumberOnlyAtColumnZero(t *testing.T) {
	toks := lexAll(t, "x = 10")
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %v", toks)
	}
	if toks[2].Kind != INT_LIT {
		t.Errorf("expected the trailing 10 to lex as INT_LIT mid-line, got %s", toks[2].Kind)
	}
}

func TestLexer_StatementSeparatorIsNewline(t *testing.T) {
	toks := lexAll(t, "1 : 2")
	if len(toks) != 3 || toks[1].Kind != NEWLINE || toks[1].Value != ":" {
		t.Fatalf("got %v", toks)
	}
}
