package tree

import (
	"github.com/davecgh/go-spew/spew"
)

// Entity is anything a template parameter can bind to: a type, a
// constant value, or a class template.
type Entity interface {
	_Entity()
	String() string
}

type EntityKind int

const (
	EntityType EntityKind = iota
	EntityValue
	EntityTemplate
)

func (k EntityKind) String() string {
	switch k {
	case EntityType:
		return "type"
	case EntityValue:
		return "value"
	case EntityTemplate:
		return "template"
	default:
		panic("unreachable")
	}
}

func KindOf(e Entity) EntityKind {
	switch e.(type) {
	case Type:
		return EntityType
	case Value:
		return EntityValue
	case *TemplateRef:
		return EntityTemplate
	default:
		spew.Dump(e)
		panic("unreachable")
	}
}

func IdenticalEntity(a, b Entity) bool {
	switch a := a.(type) {
	case Type:
		b, ok := b.(Type)
		return ok && Identical(a, b)
	case Value:
		b, ok := b.(Value)
		return ok && IdenticalValue(a, b)
	case *TemplateRef:
		b, ok := b.(*TemplateRef)
		return ok && a.Name == b.Name && a.Arity == b.Arity
	default:
		spew.Dump(a)
		panic("unreachable")
	}
}
