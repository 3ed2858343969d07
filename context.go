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
	"os"
)

// ParseContext wraps a Lexer with one-token lookahead and an explicit
// push-back stack, the shared plumbing every parsing function in this
// package drives. Setting TRACE_TOKENS in the environment makes every
// token movement print to stderr, mirroring the teacher's cobra-era
// flag-driven verbosity but keyed off an env var since the lexer has no
// command-line surface of its own.
type ParseContext struct {
	Symbols *SymbolStore

	lexer    *Lexer
	Tok      Token
	pushback []Token
	trace    bool
}

// NewParseContext builds a context over source and loads its first token.
func NewParseContext(source string, symbols *SymbolStore) (*ParseContext, error) {
	c := &ParseContext{
		Symbols: symbols,
		lexer:   NewLexer(source, symbols),
		trace:   os.Getenv("TRACE_TOKENS") != "",
	}
	if err := c.advance(); err != nil {
		return nil, err
	}
	return c, nil
}

// advance discards the current token and loads the next one, from the
// push-back stack if non-empty, otherwise from the lexer. A synthetic EOF
// token is substituted once the lexer is exhausted. If the new current
// token is lexer-originated ERROR, it is converted to a ParseError here:
// this is the single place that conversion happens, so every caller that
// reaches a token has already had lexical errors surfaced.
func (c *ParseContext) advance() error {
	var tok Token
	if n := len(c.pushback); n > 0 {
		tok = c.pushback[n-1]
		c.pushback = c.pushback[:n-1]
	} else if t, ok := c.lexer.Next(); ok {
		tok = t
	} else {
		line := 1
		if c.lexer != nil {
			line = c.lexer.line
		}
		tok = Token{Kind: EOF, Lineno: line}
	}
	if tok.Kind == ERROR {
		msg, _ := tok.Value.(string)
		return newParseError(tok.Lineno, "%s", msg)
	}
	c.Tok = tok
	c.traceToken()
	return nil
}

// Advance is the exported form of advance, for callers outside this
// package's own parsing functions that merely want to move past the
// current token without consuming/matching it.
func (c *ParseContext) Advance() error { return c.advance() }

// Reverse pushes the current token back for a future Advance to return to,
// and makes t the current token. Used when a parsing function peeks ahead
// one token to decide between alternatives and needs to undo the peek.
func (c *ParseContext) Reverse(t Token) {
	c.pushback = append(c.pushback, c.Tok)
	c.Tok = t
	c.traceToken()
}

// Skip advances past the current token repeatedly while it matches
// (kind[, value]).
func (c *ParseContext) Skip(kind TokenKind, value ...string) error {
	for c.AtA(kind, value...) {
		if err := c.advance(); err != nil {
			return err
		}
	}
	return nil
}

// Consume requires the current token to match (kind[, value]), then
// advances past it.
func (c *ParseContext) Consume(kind TokenKind, value ...string) error {
	if !c.AtA(kind, value...) {
		if len(value) > 0 {
			return newParseError(c.Tok.Lineno, "expected %s %q, got %s", kind, value[0], c.Tok)
		}
		return newParseError(c.Tok.Lineno, "expected %s, got %s", kind, c.Tok)
	}
	return c.advance()
}

// AtA reports whether the current token is of kind (and, if value is
// given, also carries that exact string value).
func (c *ParseContext) AtA(kind TokenKind, value ...string) bool {
	if c.Tok.Kind != kind {
		return false
	}
	if len(value) == 0 {
		return true
	}
	v, ok := c.Tok.Value.(string)
	return ok && v == value[0]
}

// AtLineTerminator reports whether the current token ends a statement:
// NEWLINE, the ELSE keyword (which a single-line IF's THEN-clause stops
// before), or EOF.
func (c *ParseContext) AtLineTerminator() bool {
	return c.AtA(NEWLINE) || c.AtA(KEYWORD, "else") || c.AtA(EOF)
}

func (c *ParseContext) traceToken() {
	if c.trace {
		fmt.Fprintf(os.Stderr, "> %s\n", c.Tok)
	}
}
