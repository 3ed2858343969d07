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

import "testing"

// treeSrc builds a nested If/BinOp tree exercising every kind of child
// slot Children() enumerates: the guard, the THEN block, an ELSEIF guard
// and body, and the ELSE block.
const treeSrc = "if 1 + 2 then\nx = 3 * 4\nelseif 5 then\ny = 6\nelse\nz = 7 + 8\nend if\n"

func TestAST_FindAllVisitsEveryConstantExactlyOnce(t *testing.T) {
	p := mustParse(t, treeSrc)
	stmts := p.MainStatements()
	if len(stmts) != 1 {
		t.Fatalf("got %d top-level statements", len(stmts))
	}
	root := stmts[0]

	consts := FindAll[*Constant](root, nil)
	// guard (1, 2), x = 3 * 4 (3, 4), elseif guard (5), y = 6 (6),
	// z = 7 + 8 (7, 8): 8 constants total.
	if len(consts) != 8 {
		t.Fatalf("expected 8 constants, got %d: %#v", len(consts), consts)
	}
	seen := make(map[*Constant]bool)
	for _, c := range consts {
		if seen[c] {
			t.Errorf("constant %#v visited more than once", c)
		}
		seen[c] = true
	}
}

func TestAST_FindAllVisitsEveryBinOp(t *testing.T) {
	p := mustParse(t, treeSrc)
	root := p.MainStatements()[0]

	// The outer guard (1 + 2), x's rvalue (3 * 4), and z's rvalue (7 + 8)
	// are BinOps; the elseif guard (5) and y's rvalue (6) are bare
	// constants, not BinOps.
	bins := FindAll[*BinOp](root, nil)
	if len(bins) != 3 {
		t.Fatalf("expected 3 BinOps, got %d: %#v", len(bins), bins)
	}
}

func TestAST_FindAllFindsNestedAssignments(t *testing.T) {
	p := mustParse(t, treeSrc)
	root := p.MainStatements()[0]

	assigns := FindAll[*Assignment](root, nil)
	if len(assigns) != 3 {
		t.Fatalf("expected 3 assignments (x, y, z), got %d: %#v", len(assigns), assigns)
	}
	names := make([]string, len(assigns))
	for i, a := range assigns {
		names[i] = a.LVal.(*Var).Target.Name
	}
	want := []string{"x", "y", "z"}
	for i, w := range want {
		if names[i] != w {
			t.Errorf("assignment %d: got target %q, want %q (pre-order should visit THEN, ELSEIF, ELSE in source order)", i, names[i], w)
		}
	}
}

func TestAST_FindAllCountsElseifAndElseAsPartOfOneIf(t *testing.T) {
	p := mustParse(t, treeSrc)
	root := p.MainStatements()[0]

	// elseif/else are fields of the one outer If, not separate If nodes.
	ifs := FindAll[*If](root, nil)
	if len(ifs) != 1 {
		t.Fatalf("expected exactly 1 If node, got %d", len(ifs))
	}
}

func TestAST_FindReturnsFirstMatch(t *testing.T) {
	p := mustParse(t, treeSrc)
	root := p.MainStatements()[0]

	a, ok := Find[*Assignment](root)
	if !ok {
		t.Fatal("expected a match")
	}
	if a.LVal.(*Var).Target.Name != "x" {
		t.Errorf("expected the first assignment (x), got %q", a.LVal.(*Var).Target.Name)
	}
}

func TestAST_FindReturnsFalseWhenAbsent(t *testing.T) {
	p := mustParse(t, `? "no if here"`)
	root := p.MainStatements()[0]

	if _, ok := Find[*If](root); ok {
		t.Error("expected no If node in a bare print statement")
	}
}

func TestAST_FindAllWithPredicateFilters(t *testing.T) {
	p := mustParse(t, treeSrc)
	root := p.MainStatements()[0]

	big := FindAll[*Constant](root, func(c *Constant) bool {
		v, ok := c.Value.(interface{ Int64() int64 })
		return ok && v.Int64() >= 7
	})
	if len(big) != 2 {
		t.Fatalf("expected the two constants >= 7 (7 and 8), got %d: %#v", len(big), big)
	}
}
