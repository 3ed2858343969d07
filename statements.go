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

import "github.com/samber/lo"

// blockEndKeywords are the keywords (other than "end") that close a
// do_block without being consumed by it; the caller inspects which one
// stopped the block.
var blockEndKeywords = map[string]bool{
	"else": true, "elseif": true, "endif": true,
	"loop": true, "next": true, "wend": true,
	"case": true, "sub": true, "function": true,
}

// doStmt parses exactly one statement, dispatching on the leading token
// per spec.md §4.G.
func doStmt(ctx *ParseContext) (Statement, error) {
	if err := ctx.Skip(NEWLINE); err != nil {
		return nil, err
	}
	switch ctx.Tok.Kind {
	case KEYWORD:
		v, _ := ctx.Tok.Value.(string)
		switch v {
		case "print", "?":
			return doPrint(ctx)
		case "if":
			return doIf(ctx)
		default:
			return nil, newParseError(ctx.Tok.Lineno, "unexpected keyword %q", v)
		}
	case VARIABLE:
		return doAssignment(ctx)
	case PROCEDURE:
		return nil, newParseError(ctx.Tok.Lineno, "procedure calls are unimplemented")
	case ID:
		return doUnknownVarOrProcedure(ctx)
	default:
		return nil, newParseError(ctx.Tok.Lineno, "unexpected token %s", ctx.Tok)
	}
}

// doAssignment parses `lval = rval`.
func doAssignment(ctx *ParseContext) (Statement, error) {
	lv, err := ParseLValue(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Consume(PUNCTUATION, "="); err != nil {
		return nil, err
	}
	rv, err := ParseExpression(ctx)
	if err != nil {
		return nil, err
	}
	return &Assignment{LVal: lv, RVal: rv}, nil
}

// doUnknownVarOrProcedure resolves a bare ID seen in statement position:
// peek ahead to see whether it is an implicitly-declared assignment target
// ("=" follows), an implicit-array reference ("(" follows, unimplemented),
// or neither (unimplemented).
func doUnknownVarOrProcedure(ctx *ParseContext) (Statement, error) {
	idTok := ctx.Tok
	if err := ctx.advance(); err != nil {
		return nil, err
	}
	if ctx.AtA(PUNCTUATION, "=") {
		ctx.Reverse(idTok)
		return doAssignment(ctx)
	}
	if ctx.AtA(PUNCTUATION, "(") {
		return nil, newParseError(idTok.Lineno, "implicit array declaration is unimplemented")
	}
	return nil, newParseError(idTok.Lineno, "unimplemented statement form after identifier")
}

// doPrint parses a PRINT/? statement: a loop of (expr|,|;), matching the
// source's do_print exactly. Each "," splices a tab-separator constant;
// ";" suppresses the trailing newline without producing one; any other
// continuation parses as an expression — no separator is required
// between adjacent non-literal items ("? 2 x" prints two items with
// nothing between them), ParseExpression itself is what rejects two
// literals in a row. A trailing newline constant is appended only when the
// last item was an expression, so a statement that ends on a separator or
// has no items at all gets none.
func doPrint(ctx *ParseContext) (Statement, error) {
	if err := ctx.advance(); err != nil { // consume "print" or "?"
		return nil, err
	}
	var params []Expr
	wantFinalNewline := false
	for !ctx.AtLineTerminator() {
		switch {
		case ctx.AtA(PUNCTUATION, ","):
			params = append(params, tabSeparator)
			wantFinalNewline = false
			if err := ctx.advance(); err != nil {
				return nil, err
			}
		case ctx.AtA(PUNCTUATION, ";"):
			wantFinalNewline = false
			if err := ctx.advance(); err != nil {
				return nil, err
			}
		default:
			expr, err := ParseExpression(ctx)
			if err != nil {
				return nil, err
			}
			params = append(params, expr)
			wantFinalNewline = true
		}
	}
	if wantFinalNewline {
		params = append(params, finalNewline)
	}
	return &Print{Params: params}, nil
}

// doIf parses every shape of the IF statement: the REM no-op form, the
// single-line form (with an optional ELSE), and the multi-line form with
// its ELSEIF chain, per spec.md §4.G.
func doIf(ctx *ParseContext) (Statement, error) {
	if err := ctx.advance(); err != nil { // consume "if"
		return nil, err
	}
	guard, err := ParseExpression(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Consume(KEYWORD, "then"); err != nil {
		return nil, err
	}

	if ctx.AtA(NEWLINE, "rem") {
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		return &If{Guard: guard}, nil
	}

	if !ctx.AtA(NEWLINE, "\n") {
		thens, err := singleLineBlock(ctx, true)
		if err != nil {
			return nil, err
		}
		var elses []Statement
		if ctx.AtA(KEYWORD, "else") {
			if err := ctx.advance(); err != nil {
				return nil, err
			}
			if elses, err = singleLineBlock(ctx, false); err != nil {
				return nil, err
			}
		}
		return &If{Guard: guard, Thens: thens, Elses: elses}, nil
	}

	thens, err := doBlock(ctx)
	if err != nil {
		return nil, err
	}
	var elseifs []lo.Tuple2[Expr, []Statement]
	for ctx.AtA(KEYWORD, "elseif") {
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		eguard, err := ParseExpression(ctx)
		if err != nil {
			return nil, err
		}
		if err := ctx.Consume(KEYWORD, "then"); err != nil {
			return nil, err
		}
		ebody, err := doBlock(ctx)
		if err != nil {
			return nil, err
		}
		elseifs = append(elseifs, lo.Tuple2[Expr, []Statement]{A: eguard, B: ebody})
	}
	var elses []Statement
	if ctx.AtA(KEYWORD, "else") {
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		if elses, err = doBlock(ctx); err != nil {
			return nil, err
		}
	}
	// A second "else" or an "elseif" following "else" both leave the
	// wrong keyword current here; neither "endif" nor "end if" will
	// match, so the terminator check below raises ParseError for both
	// without needing a dedicated check.
	if ctx.AtA(KEYWORD, "endif") {
		if err := ctx.advance(); err != nil {
			return nil, err
		}
	} else {
		if err := ctx.Consume(KEYWORD, "end"); err != nil {
			return nil, err
		}
		if err := ctx.Consume(KEYWORD, "if"); err != nil {
			return nil, err
		}
	}
	return &If{Guard: guard, Thens: thens, Elseifs: elseifs, Elses: elses}, nil
}

// singleLineBlock parses the statements of a single-line IF's THEN or
// ELSE clause: repeated statements separated by the ":" statement
// separator, stopping at a real end-of-line, EOF, or (in the THEN
// clause) the ELSE keyword.
func singleLineBlock(ctx *ParseContext, stopAtElse bool) ([]Statement, error) {
	var stmts []Statement
	for {
		for ctx.AtA(NEWLINE, ":") {
			if err := ctx.advance(); err != nil {
				return nil, err
			}
		}
		if ctx.AtA(NEWLINE, "\n") || ctx.AtA(EOF) || (stopAtElse && ctx.AtA(KEYWORD, "else")) {
			return stmts, nil
		}
		stmt, err := doStmt(ctx)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

// doBlock parses statements until an end-of-block marker, per spec.md
// §4.G. Blank lines (runs of NEWLINE tokens) between statements are
// ignored.
func doBlock(ctx *ParseContext) ([]Statement, error) {
	var stmts []Statement
	for {
		if err := ctx.Skip(NEWLINE); err != nil {
			return nil, err
		}
		end, err := atBlockEnd(ctx)
		if err != nil {
			return nil, err
		}
		if end {
			return stmts, nil
		}
		stmt, err := doStmt(ctx)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

// atBlockEnd reports whether the current token marks the end of a block,
// without consuming it — except for a lone "end" probe, which advances
// one token to see what follows and then always restores the original
// position via Reverse.
func atBlockEnd(ctx *ParseContext) (bool, error) {
	if ctx.AtA(EOF) {
		return true, nil
	}
	if ctx.Tok.Kind != KEYWORD {
		return false, nil
	}
	v, _ := ctx.Tok.Value.(string)
	if v != "end" {
		return blockEndKeywords[v], nil
	}
	endTok := ctx.Tok
	if err := ctx.advance(); err != nil {
		return false, err
	}
	isMarker := ctx.Tok.Kind == KEYWORD
	ctx.Reverse(endTok)
	return isMarker, nil
}
