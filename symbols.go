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

// keywords is the fixed, case-insensitive keyword set from spec.md §6.
// Lexed names are lowercased before this lookup, so the set itself only
// needs lowercase entries.
var keywords = map[string]bool{
	"dim": true, "as": true, "const": true, "sub": true, "function": true,
	"if": true, "then": true, "else": true, "elseif": true, "endif": true, "end": true,
	"do": true, "while": true, "loop": true, "wend": true,
	"goto": true, "exit": true,
	"imp": true, "eqv": true, "xor": true, "or": true, "and": true, "not": true, "mod": true,
	"print": true, "?": true,
}

// Variable is a logical BASIC variable, identified by name plus type: the
// same textual name may exist simultaneously at several scalar types.
type Variable struct {
	Name string
	Type *Type
}

// Procedure is a callable; built-ins have no Body (and may have no
// Signature). The synthetic _main procedure always exists with signature
// _none().
type Procedure struct {
	Name      string
	Signature *TypeSignature
	Body      *ProcDefinition
}

// builtinProcs is the process-wide built-in procedure table. The source
// spec's core scenarios never register anything here (PRINT/? are handled
// as keywords, not procedures) but find_procedure must still consult it.
var builtinProcs = map[string]*Procedure{}

// SymbolStore holds everything discovered or declared while parsing one
// compilation unit: procedures, variables (by name and then by type), and
// the cache of parametric types constructed via sigil lookup. All state
// here is fresh per parse() invocation; the only thing shared across
// parses is the immutable builtin tables above.
type SymbolStore struct {
	variables   map[string]map[*Type]*Variable
	procedures  map[string]*Procedure
	types       map[string]*Type
	DefaultType *Type
}

// NewSymbolStore creates an empty store with the default scalar type set
// to single, per spec.md §3.
func NewSymbolStore() *SymbolStore {
	return &SymbolStore{
		variables:   make(map[string]map[*Type]*Variable),
		procedures:  make(map[string]*Procedure),
		types:       make(map[string]*Type),
		DefaultType: builtinTypes["single"],
	}
}

// IsKeyword reports whether name (already lowercased) is in the fixed
// keyword set.
func (s *SymbolStore) IsKeyword(name string) bool {
	return keywords[name]
}

// FindProcedure looks up a per-unit procedure, falling back to the
// built-in procedure table.
func (s *SymbolStore) FindProcedure(name string) *Procedure {
	if p, ok := s.procedures[name]; ok {
		return p
	}
	return builtinProcs[name]
}

// FindVariable resolves sigil to a Type and returns the Variable at
// (name, type) if one has been created.
func (s *SymbolStore) FindVariable(name string, sigil *string) (*Variable, error) {
	byType, ok := s.variables[name]
	if !ok {
		return nil, nil
	}
	typ, err := s.LookupSigil(sigil)
	if err != nil {
		return nil, err
	}
	return byType[typ], nil
}

// CreateLocal creates and registers a new Variable at (name, type),
// defaulting type to the store's DefaultType. Creating a variable that
// already exists at that (name, type) is a DuplicateVariable error.
func (s *SymbolStore) CreateLocal(name string, typ *Type) (*Variable, error) {
	if typ == nil {
		typ = s.DefaultType
	}
	byType, ok := s.variables[name]
	if !ok {
		byType = make(map[*Type]*Variable)
		s.variables[name] = byType
	}
	if _, exists := byType[typ]; exists {
		return nil, newParseError(0, "duplicate variable %s", name)
	}
	v := &Variable{Name: name, Type: typ}
	byType[typ] = v
	return v, nil
}
