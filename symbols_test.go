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

func TestSymbolStore_CreateLocalRejectsDuplicate(t *testing.T) {
	s := NewSymbolStore()
	if _, err := s.CreateLocal("x", nil); err != nil {
		t.Fatalf("first CreateLocal: %v", err)
	}
	if _, err := s.CreateLocal("x", nil); err == nil {
		t.Fatal("expected a duplicate-variable ParseError on the second CreateLocal at the same type")
	}
}

func TestSymbolStore_SameNameDifferentTypeIsNotDuplicate(t *testing.T) {
	s := NewSymbolStore()
	if _, err := s.CreateLocal("x", builtinTypes["single"]); err != nil {
		t.Fatalf("single: %v", err)
	}
	if _, err := s.CreateLocal("x", builtinTypes["integer"]); err != nil {
		t.Fatalf("expected overloading the same name at a different type to succeed, got %v", err)
	}
}

func TestStatements_VariableOverloadedBySigilIsDistinctFromDefaultType(t *testing.T) {
	p := mustParse(t, "x = 1 : x% = 2")
	stmts := p.MainStatements()
	if len(stmts) != 2 {
		t.Fatalf("got %d statements", len(stmts))
	}
	first := stmts[0].(*Assignment).LVal.(*Var).Target
	second := stmts[1].(*Assignment).LVal.(*Var).Target
	if first.Name != second.Name {
		t.Fatalf("expected both variables to share the name %q, got %q and %q", first.Name, first.Name, second.Name)
	}
	if first.Type == second.Type {
		t.Errorf("expected the %% sigil to overload a distinct integer-typed variable, got the same Type")
	}
	if first == second {
		t.Errorf("expected two distinct Variable objects")
	}
}
