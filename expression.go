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

// binaryPrecedence is the Pratt binding-power table from spec.md §4.F.
// Higher binds tighter. prefixNotPrecedence and prefixNegationPrecedence
// are the two prefix operators' distinct slots: negation sits above the
// multiplicative operators (13) so that "-2^3" parses as
// UniOp("negation", 2^3), per the Design Notes' explicit call-out.
var binaryPrecedence = map[string]int{
	"imp": 2,
	"eqv": 3,
	"xor": 4,
	"or":  5,
	"and": 6,
	"=":   8, "<>": 8, "<": 8, ">": 8, "<=": 8, ">=": 8,
	"+": 9, "-": 9,
	"mod": 10,
	`\`:   11,
	"*": 12, "/": 12,
	"^": 14,
}

const (
	prefixNotPrecedence      = 7
	prefixNegationPrecedence = 13
)

// ParseExpression parses one expression at the lowest binding power.
func ParseExpression(ctx *ParseContext) (Expr, error) {
	return parseExpr(ctx, 0)
}

func parseExpr(ctx *ParseContext, bp int) (Expr, error) {
	left, err := nud(ctx)
	if err != nil {
		return nil, err
	}
	for {
		op, opBp, ok := ledOperator(ctx)
		if !ok {
			if isLiteralKind(ctx.Tok.Kind) {
				return nil, newParseError(ctx.Tok.Lineno, "unexpected literal %s", ctx.Tok)
			}
			return left, nil
		}
		if opBp <= bp {
			return left, nil
		}
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		right, err := parseExpr(ctx, opBp)
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: op, Left: left, Right: right}
	}
}

// ledOperator reports the current token's trailing-operator text and
// binding power, if it is a keyword or punctuation found in
// binaryPrecedence.
func ledOperator(ctx *ParseContext) (op string, bp int, ok bool) {
	if ctx.Tok.Kind != KEYWORD && ctx.Tok.Kind != PUNCTUATION {
		return "", 0, false
	}
	v, _ := ctx.Tok.Value.(string)
	bp, ok = binaryPrecedence[v]
	return v, bp, ok
}

// isLiteralKind reports whether kind is one of the literal token kinds nud
// accepts. Two literals appearing back to back with no operator between
// them is a ParseError (spec.md §4.F), distinct from a literal simply
// being followed by something that isn't an operator at all (a comma, a
// bare identifier in a PRINT list, a line terminator), which is not.
func isLiteralKind(kind TokenKind) bool {
	switch kind {
	case STRING_LIT, BASE_LIT, EXP_LIT, DEC_LIT, INT_LIT:
		return true
	default:
		return false
	}
}

// nud parses a leading token: literal, prefix operator, parenthesized
// sub-expression, or variable/identifier reference.
func nud(ctx *ParseContext) (Expr, error) {
	tok := ctx.Tok

	switch {
	case tok.Kind == PUNCTUATION && tok.Value == "(":
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		inner, err := parseExpr(ctx, 0)
		if err != nil {
			return nil, err
		}
		if err := ctx.Consume(PUNCTUATION, ")"); err != nil {
			return nil, err
		}
		return inner, nil

	case tok.Kind == PUNCTUATION && tok.Value == "-":
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		operand, err := parseExpr(ctx, prefixNegationPrecedence)
		if err != nil {
			return nil, err
		}
		return &UniOp{Op: "negation", Param: operand}, nil

	case tok.Kind == KEYWORD && tok.Value == "not":
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		operand, err := parseExpr(ctx, prefixNotPrecedence)
		if err != nil {
			return nil, err
		}
		return &UniOp{Op: "not", Param: operand}, nil

	case tok.Kind == STRING_LIT:
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		return &Constant{Value: tok.Value, Type: builtinTypes["string"]}, nil

	case tok.Kind == BASE_LIT || tok.Kind == EXP_LIT || tok.Kind == DEC_LIT || tok.Kind == INT_LIT:
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		// detect_numeric_type is a stub that always reports single,
		// per spec.md §9's Design Notes; reproduced as-is.
		return &Constant{Value: tok.Value, Type: builtinTypes["single"]}, nil

	case tok.Kind == ID:
		return parseLValueExpr(ctx)

	case tok.Kind == VARIABLE:
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		v, _ := tok.Value.(*Variable)
		return &Var{Target: v}, nil

	case tok.Kind == PROCEDURE:
		return nil, newParseError(tok.Lineno, "procedure calls are unimplemented")

	default:
		return nil, newParseError(tok.Lineno, "unexpected token %s", tok)
	}
}

// parseLValueExpr parses an l-value and returns it as an Expr, for use
// from expression context (the ID nud case above).
func parseLValueExpr(ctx *ParseContext) (Expr, error) {
	lv, err := ParseLValue(ctx)
	if err != nil {
		return nil, err
	}
	return lv.(Expr), nil
}

// ParseLValue parses the current token as an assignment target: an
// existing VARIABLE reference, or an ID implicitly declared via
// symbols.CreateLocal. Both cases construct the same Var node, per
// spec.md §4.F.
func ParseLValue(ctx *ParseContext) (LValue, error) {
	tok := ctx.Tok
	switch tok.Kind {
	case VARIABLE:
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		v, _ := tok.Value.(*Variable)
		return &Var{Target: v}, nil
	case ID:
		iv, _ := tok.Value.(IdentValue)
		if err := ctx.advance(); err != nil {
			return nil, err
		}
		v, err := ctx.Symbols.CreateLocal(iv.Name, iv.Type)
		if err != nil {
			return nil, err
		}
		return &Var{Target: v}, nil
	default:
		return nil, newParseError(tok.Lineno, "expected a variable, got %s", tok)
	}
}
