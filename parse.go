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

// Program is the result of a successful Parse: a populated SymbolStore
// whose "_main" procedure holds the top-level statement list.
type Program struct {
	Symbols *SymbolStore
}

// MainStatements returns the top-level parsed statement list.
func (p *Program) MainStatements() []Statement {
	return p.Symbols.FindProcedure("_main").Body.Statements
}

// Parse converts BASIC source text into a Program: a typed AST rooted in
// the synthetic "_main" procedure, plus the SymbolStore built up while
// parsing it. Parsing stops, without consuming them, at EOF or a leading
// SUB/FUNCTION keyword — multi-procedure compilation units are out of
// scope (spec.md §1).
func Parse(source string) (*Program, error) {
	symbols := NewSymbolStore()
	main := &Procedure{
		Name:      "_main",
		Signature: &TypeSignature{Ret: builtinTypes["_none"]},
		Body:      &ProcDefinition{},
	}
	symbols.procedures["_main"] = main

	ctx, err := NewParseContext(source, symbols)
	if err != nil {
		return nil, err
	}

	var stmts []Statement
	for {
		if err := ctx.Skip(NEWLINE); err != nil {
			return nil, err
		}
		if ctx.AtA(EOF) || ctx.AtA(KEYWORD, "sub") || ctx.AtA(KEYWORD, "function") {
			break
		}
		stmt, err := doStmt(ctx)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	main.Body.Statements = stmts

	return &Program{Symbols: symbols}, nil
}
