package deduce

import (
	"fmt"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/tree"
)

// Scope holds globally declared entities: builtin types, class types,
// class templates. It is fixed before any call resolution begins and
// never mutated during resolution.
type Scope struct {
	Parent   *Scope
	Entities Map[Identifier, tree.Entity]
}

func NewScope() *Scope {
	return &Scope{Entities: NewMap[Identifier, tree.Entity]()}
}

func (s *Scope) Fork() *Scope {
	return &Scope{Parent: s, Entities: NewMap[Identifier, tree.Entity]()}
}

func (s *Scope) Def(name Identifier, e tree.Entity) {
	if err := s.TryDef(name, e); err != nil {
		panic(err)
	}
}

// TryDef is Def for caller-supplied names, where a duplicate is input
// error rather than an internal one.
func (s *Scope) TryDef(name Identifier, e tree.Entity) error {
	if s.Entities.Contains(name) {
		return fmt.Errorf("redefined: %v", name)
	}
	s.Entities.Add(name, e)
	return nil
}

func (s *Scope) Lookup(name Identifier) (tree.Entity, bool) {
	if e, ok := s.Entities[name]; ok {
		return e, true
	}
	if s.Parent != nil {
		return s.Parent.Lookup(name)
	}
	return nil, false
}

// BuiltinScope contains the builtin types under their source names.
func BuiltinScope() *Scope {
	s := NewScope()
	for _, ty := range []*tree.BuiltinType{
		tree.TheVoidType,
		tree.TheBoolType,
		tree.TheCharType,
		tree.TheIntType,
		tree.TheLongType,
		tree.TheFloatType,
		tree.TheDoubleType,
		tree.TheNullptrType,
	} {
		s.Def(NewIdentifier(ty.Kind.String()), ty)
	}
	return s
}
