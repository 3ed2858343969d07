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
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// idBodyPattern is the identifier-body grammar: a leading letter, then any run
// of letters/digits/underscore/dot that must end on a letter or digit.
const idBodyPattern = `[A-Za-z](?:[A-Za-z0-9_.]*[A-Za-z0-9])?`

// sigilAltPattern enumerates every sigil the ID rule recognizes, ordered
// so that within each shared-prefix group the longer alternative comes
// first (Go's regexp picks the first alternative that matches at a
// position, not the longest, so ordering here is load-bearing).
const sigilAltPattern = "`[0-9]*|~`[0-9]*|~%%|~%&|~%|~&&|~&|%%|%&|%|&&|&|##|#|!|\\$[0-9]*"

// intSigilAltPattern is the subset of sigilAltPattern usable to request a
// specific integer type for a BASE_LIT, per spec.md §4.D item 11
// ("optionally followed by a signed-or-unsigned integer sigil").
const intSigilAltPattern = "`[0-9]*|~`[0-9]*|~%%|~%&|~%|~&&|~&|%%|%&|%|&&|&"

var (
	reLineNumLabel = regexp.MustCompile(`^([0-9]+)[ \t]+(` + idBodyPattern + `)[ \t]*:`)
	reLineNum      = regexp.MustCompile(`^([0-9]+)`)
	reLineLabel    = regexp.MustCompile(`^(` + idBodyPattern + `)[ \t]*:`)
	reLineJoin     = regexp.MustCompile(`^_[ \t]*\r?\n`)
	reNewline      = regexp.MustCompile(`^\r?\n`)
	reComment      = regexp.MustCompile(`^'.*(?:\n|$)`)
	reRemark       = regexp.MustCompile(`(?i)^REM(?:[ \t]+.*)?(?:\n|$)`)
	reStringLit    = regexp.MustCompile(`^"([^"\r\n]*)"`)
	reExpLit       = regexp.MustCompile(`(?i)^(\.[0-9]+|[0-9]+\.?[0-9]*)([def])([+-])?([0-9]*)`)
	reBaseLit      = regexp.MustCompile(`(?i)^&(?:(H)([0-9A-Fa-f]+)|(O)([0-7]+)|(B)([01]+))`)
	reBaseLitSigil = regexp.MustCompile(`^(?:` + intSigilAltPattern + `)`)
	reDecLit       = regexp.MustCompile(`^(\.[0-9]+|[0-9]+\.[0-9]*)`)
	reIntLit       = regexp.MustCompile(`^[0-9]+`)
	reID           = regexp.MustCompile(`(?i)^(_*` + idBodyPattern + `|\?)((?:` + sigilAltPattern + `))?`)
	rePunctuation  = regexp.MustCompile(`^(<=|>=|<>|<|>|=|\(|\)|\*|/|\^|\\|\+|-|;|,|\.|#)`)
)

// Lexer converts source text into a stream of Tokens, consulting a
// SymbolStore for name classification. It is a pull iterator: each call
// to Next produces the next token, or (zero Token, false) once the input
// is exhausted.
type Lexer struct {
	input       string
	pos         int
	line        int
	atLineStart bool
	symbols     *SymbolStore
}

// NewLexer returns a Lexer over input that will classify identifiers
// against symbols.
func NewLexer(input string, symbols *SymbolStore) *Lexer {
	return &Lexer{input: input, line: 1, atLineStart: true, symbols: symbols}
}

func (l *Lexer) rest() string { return l.input[l.pos:] }

func (l *Lexer) skipHorizontalSpace() {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.pos++
	}
}

func (l *Lexer) countNewlines(s string) {
	l.line += strings.Count(s, "\n")
}

func (l *Lexer) errorToken(format string, args ...any) Token {
	return Token{Kind: ERROR, Value: fmt.Sprintf(format, args...), Lineno: l.line}
}

// Next returns the next token, or ok=false at true end of input. Lexical
// errors (illegal sigils, out-of-range literals, unrecognized characters)
// are never reported through a Go error — they come back as an ERROR-kind
// Token, which ParseContext converts to a ParseError the first time it is
// encountered.
func (l *Lexer) Next() (tok Token, ok bool) {
	for {
		l.skipHorizontalSpace()
		if l.pos >= len(l.input) {
			return Token{}, false
		}
		startLine := l.line
		s := l.rest()

		if l.atLineStart {
			if m := reLineNumLabel.FindStringSubmatch(s); m != nil {
				l.pos += len(m[0])
				l.atLineStart = false
				return Token{Kind: LINE_NUM_LABEL, Value: LineNumLabel{Digits: m[1], Label: m[2]}, Lineno: startLine}, true
			}
			if m := reLineNum.FindStringSubmatch(s); m != nil {
				l.pos += len(m[0])
				l.atLineStart = false
				return Token{Kind: LINE_NUM, Value: m[1], Lineno: startLine}, true
			}
			if m := reLineLabel.FindStringSubmatch(s); m != nil {
				l.pos += len(m[0])
				l.atLineStart = false
				return Token{Kind: LINE_LABEL, Value: m[1], Lineno: startLine}, true
			}
		}

		if strings.HasPrefix(s, ":") {
			l.pos++
			l.atLineStart = false
			return Token{Kind: NEWLINE, Value: ":", Lineno: startLine}, true
		}

		if m := reLineJoin.FindString(s); m != "" {
			l.pos += len(m)
			l.countNewlines(m)
			continue // no token produced
		}

		if m := reNewline.FindString(s); m != "" {
			l.pos += len(m)
			l.countNewlines(m)
			l.atLineStart = true
			return Token{Kind: NEWLINE, Value: "\n", Lineno: startLine}, true
		}

		if m := reComment.FindString(s); m != "" {
			l.pos += len(m)
			l.countNewlines(m)
			l.atLineStart = true
			return Token{Kind: NEWLINE, Value: "'", Lineno: startLine}, true
		}

		if m := reRemark.FindString(s); m != "" {
			l.pos += len(m)
			l.countNewlines(m)
			l.atLineStart = true
			return Token{Kind: NEWLINE, Value: "rem", Lineno: startLine}, true
		}
		l.atLineStart = false

		if m := reStringLit.FindStringSubmatch(s); m != nil {
			l.pos += len(m[0])
			return Token{Kind: STRING_LIT, Value: m[1], Lineno: startLine}, true
		}

		if m := reExpLit.FindStringSubmatch(s); m != nil {
			l.pos += len(m[0])
			return l.buildExpLit(m, startLine), true
		}

		if m := reBaseLit.FindStringSubmatch(s); m != nil {
			consumed := m[0]
			magnitude, _ := baseLitMagnitude(m)
			remAfterDigits := s[len(consumed):]
			var sigil *string
			if sm := reBaseLitSigil.FindString(remAfterDigits); sm != "" {
				consumed += sm
				sigil = &sm
			}
			l.pos += len(consumed)
			value, typeErr := l.resolveBaseLitValue(magnitude, sigil)
			if typeErr != nil {
				return l.errorToken("%s", typeErr.Error()), true
			}
			return Token{Kind: BASE_LIT, Value: value, Lineno: startLine}, true
		}

		if m := reDecLit.FindStringSubmatch(s); m != nil {
			l.pos += len(m[0])
			v, _ := strconv.ParseFloat(m[1], 64)
			return Token{Kind: DEC_LIT, Value: v, Lineno: startLine}, true
		}

		if m := reIntLit.FindStringSubmatch(s); m != nil {
			l.pos += len(m[0])
			v := new(big.Int)
			v.SetString(m[0], 10)
			return Token{Kind: INT_LIT, Value: v, Lineno: startLine}, true
		}

		if m := reID.FindStringSubmatch(s); m != nil {
			l.pos += len(m[0])
			return l.classifyID(m[1], m[2], startLine), true
		}

		if m := rePunctuation.FindStringSubmatch(s); m != nil {
			l.pos += len(m[0])
			return Token{Kind: PUNCTUATION, Value: m[1], Lineno: startLine}, true
		}

		r, size := utf8.DecodeRuneInString(s)
		l.pos += size
		return l.errorToken("unexpected character %q", r), true
	}
}

func baseLitMagnitude(m []string) (*big.Int, int) {
	v := new(big.Int)
	switch {
	case m[1] != "":
		v.SetString(m[2], 16)
		return v, 16
	case m[3] != "":
		v.SetString(m[4], 8)
		return v, 8
	default:
		v.SetString(m[6], 2)
		return v, 2
	}
}

func (l *Lexer) resolveBaseLitValue(magnitude *big.Int, sigil *string) (*big.Int, error) {
	if sigil != nil {
		typ, err := l.symbols.LookupSigil(sigil)
		if err != nil {
			return nil, err
		}
		return ConstrainBaseIntValue(magnitude, typ)
	}
	value, _, err := DetectBaseIntType(magnitude)
	return value, err
}

func (l *Lexer) buildExpLit(m []string, lineno int) Token {
	base, flag, sign, expDigits := m[1], strings.ToLower(m[2]), m[3], m[4]
	dot := strings.IndexByte(base, '.')
	fracDigits := 0
	mantissaDigits := base
	if dot >= 0 {
		fracDigits = len(base) - dot - 1
		mantissaDigits = base[:dot] + base[dot+1:]
	}
	requestedExp := int64(0)
	if expDigits != "" {
		requestedExp, _ = strconv.ParseInt(expDigits, 10, 64)
	}
	if sign == "-" {
		requestedExp = -requestedExp
	}

	if flag == "f" {
		mantissa, _ := strconv.ParseInt(mantissaDigits, 10, 64)
		return Token{
			Kind:   EXP_LIT,
			Value:  ExpLitFloat{Mantissa: mantissa, Exponent: requestedExp - int64(fracDigits)},
			Lineno: lineno,
		}
	}

	signText := "+"
	if sign == "-" {
		signText = "-"
	}
	expText := expDigits
	if expText == "" {
		expText = "0"
	}
	value, _ := strconv.ParseFloat(base+"e"+signText+expText, 64)

	var typ *Type
	if flag == "d" {
		typ = builtinTypes["double"]
	} else {
		typ = builtinTypes["single"]
	}
	if value < typ.FloatMin || value > typ.FloatMax {
		return l.errorToken("literal outside range of requested type")
	}
	return Token{Kind: EXP_LIT, Value: value, Lineno: lineno}
}

// classifyID applies symbol-store-aware reclassification to a lexed
// identifier, per spec.md §4.D item 14.
func (l *Lexer) classifyID(rawName string, rawSigil string, lineno int) Token {
	name := strings.ToLower(rawName)
	var sigil *string
	if rawSigil != "" {
		sigil = &rawSigil
	}

	if l.symbols.IsKeyword(name) {
		if sigil == nil {
			return Token{Kind: KEYWORD, Value: name, Lineno: lineno}
		}
		if !strings.HasPrefix(*sigil, "$") {
			return l.errorToken("illegal sigil %q on keyword %q", *sigil, name)
		}
		// sigil "$..." falls through: a string-sigil'd keyword is an ID,
		// so the procedure/variable lookups below still run for it (this
		// is a standalone "if", not part of the chain below it).
	}

	if proc := l.symbols.FindProcedure(name); proc != nil {
		if sigil != nil {
			typ, err := l.symbols.LookupSigil(sigil)
			if err != nil {
				return l.errorToken("%s", err.Error())
			}
			if proc.Signature != nil && proc.Signature.Ret != nil && typ != proc.Signature.Ret {
				return l.errorToken("sigil %q does not match procedure %q's return type", *sigil, name)
			}
		}
		return Token{Kind: PROCEDURE, Value: proc, Lineno: lineno}
	}
	if v, err := l.symbols.FindVariable(name, sigil); err != nil {
		return l.errorToken("%s", err.Error())
	} else if v != nil {
		return Token{Kind: VARIABLE, Value: v, Lineno: lineno}
	}

	typ, err := l.symbols.LookupSigil(sigil)
	if err != nil {
		return l.errorToken("%s", err.Error())
	}
	return Token{Kind: ID, Value: IdentValue{Name: name, Type: typ}, Lineno: lineno}
}
