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

// Node is the uniform interface every AST node satisfies: a way to
// enumerate its direct sub-nodes, for the generic FindAll traversal
// below. Leaf nodes (Constant, Var) return no children.
type Node interface {
	Children() []Node
}

// Statement is any top-level node a block can contain.
type Statement interface {
	Node
	statementNode()
}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// LValue is the target of an assignment.
type LValue interface {
	Node
	lvalueNode()
}

// ProcDefinition is a procedure body: an ordered list of statements.
type ProcDefinition struct {
	Statements []Statement
}

func (p *ProcDefinition) Children() []Node {
	out := make([]Node, len(p.Statements))
	for i, s := range p.Statements {
		out[i] = s
	}
	return out
}

// Var references a variable; it is both an expression and an l-value (the
// source's l-value parsing rule constructs the very same node whether the
// variable already existed or was just implicitly declared).
type Var struct {
	Target *Variable
}

func (*Var) exprNode()          {}
func (*Var) lvalueNode()        {}
func (v *Var) Children() []Node { return nil }

// Constant is a literal value. Value's concrete type depends on Type:
// string for STRING_LIT, *big.Int for INT_LIT/BASE_LIT, float64 for
// DEC_LIT/EXP_LIT with the E/D flag, and ExpLitFloat for EXP_LIT with the
// F flag (see token.go).
type Constant struct {
	Value any
	Type  *Type
}

func (*Constant) exprNode()          {}
func (c *Constant) Children() []Node { return nil }

// tabSeparator and finalNewline are the two synthetic constants do_print
// splices into a Print's Params, per spec.md §4.G.
var (
	tabSeparator = &Constant{Value: "\t", Type: builtinTypes["string"]}
	finalNewline = &Constant{Value: "\n", Type: builtinTypes["string"]}
)

// BinOp is a binary operator application. Op is the lowercased operator
// text ("+", "and", "mod", ...).
type BinOp struct {
	Op          string
	Left, Right Expr
}

func (*BinOp) exprNode() {}
func (b *BinOp) Children() []Node {
	return []Node{b.Left, b.Right}
}

// UniOp is a unary operator application: Op is "negation" or "not".
type UniOp struct {
	Op    string
	Param Expr
}

func (*UniOp) exprNode() {}
func (u *UniOp) Children() []Node {
	return []Node{u.Param}
}

// Call is a procedure call; both an expression and a statement. The
// statement/expression parsers for procedure calls are not implemented
// (spec.md §4.F/§4.G leave them as Unimplemented), so nothing currently
// constructs a Call, but the node exists so the dispatch tables and AST
// traversal are complete for future callers.
type Call struct {
	Target *Procedure
	Args   []Expr
}

func (*Call) exprNode()      {}
func (*Call) statementNode() {}
func (c *Call) Children() []Node {
	out := make([]Node, len(c.Args))
	for i, a := range c.Args {
		out[i] = a
	}
	return out
}

// Assignment is `lval = rval`.
type Assignment struct {
	LVal LValue
	RVal Expr
}

func (*Assignment) statementNode() {}
func (a *Assignment) Children() []Node {
	return []Node{a.LVal, a.RVal}
}

// Print is a PRINT/? statement; Params interleaves expressions with the
// synthetic tab/newline constants do_print inserts for `,`/`;` and the
// trailing newline.
type Print struct {
	Params []Expr
}

func (*Print) statementNode() {}
func (p *Print) Children() []Node {
	out := make([]Node, len(p.Params))
	for i, e := range p.Params {
		out[i] = e
	}
	return out
}

// If models every shape of the IF statement: single-line, single-line
// with ELSE, and multi-line with an ELSEIF chain. Elseifs pairs a guard
// expression with its THEN-block statements using lo.Tuple2, the same
// generic pair type the teacher repo uses for its operand/offset stacks.
type If struct {
	Guard   Expr
	Thens   []Statement
	Elseifs []lo.Tuple2[Expr, []Statement]
	Elses   []Statement
}

func (*If) statementNode() {}
func (i *If) Children() []Node {
	out := make([]Node, 0, 1+len(i.Thens)+len(i.Elses)+2*len(i.Elseifs))
	out = append(out, i.Guard)
	for _, s := range i.Thens {
		out = append(out, s)
	}
	for _, pair := range i.Elseifs {
		out = append(out, pair.A)
		for _, s := range pair.B {
			out = append(out, s)
		}
	}
	for _, s := range i.Elses {
		out = append(out, s)
	}
	return out
}

// FindAll performs a pre-order depth-first traversal of n, collecting
// every node assignable to T for which pred holds (pred may be nil to
// match unconditionally). This is the Go equivalent of the original's
// Node.find_all(kind, **props) generic traversal.
func FindAll[T Node](n Node, pred func(T) bool) []T {
	var out []T
	var walk func(Node)
	walk = func(n Node) {
		if n == nil {
			return
		}
		if t, ok := n.(T); ok && (pred == nil || pred(t)) {
			out = append(out, t)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Find returns the first node FindAll would return, or the zero value and
// false if there is none.
func Find[T Node](n Node) (T, bool) {
	all := FindAll[T](n, nil)
	if len(all) == 0 {
		var zero T
		return zero, false
	}
	return all[0], true
}
