package tree

import (
	"fmt"
)

// Value is a compile-time constant, the bindable entity of a value
// parameter.
type Value interface {
	Entity
	_Value()
	Type() Type
}

type ValueBase struct{}

func (*ValueBase) _Entity() {}
func (*ValueBase) _Value()  {}

type IntValue struct {
	ValueBase
	Value int64
	Ty    *BuiltinType
}

func (v *IntValue) Type() Type {
	return v.Ty
}

func (v *IntValue) String() string {
	return fmt.Sprintf("%d", v.Value)
}

type BoolValue struct {
	ValueBase
	Value bool
}

func (v *BoolValue) Type() Type {
	return TheBoolType
}

func (v *BoolValue) String() string {
	return fmt.Sprintf("%t", v.Value)
}

type NullptrValue struct {
	ValueBase
}

func (v *NullptrValue) Type() Type {
	return TheNullptrType
}

func (v *NullptrValue) String() string {
	return "nullptr"
}

func MakeBool(b bool) *BoolValue {
	return &BoolValue{Value: b}
}

func MakeInt(n int64) *IntValue {
	return &IntValue{Value: n, Ty: TheIntType}
}

func IdenticalValue(a, b Value) bool {
	switch a := a.(type) {
	case *IntValue:
		b, ok := b.(*IntValue)
		return ok && a.Value == b.Value && a.Ty.Kind == b.Ty.Kind
	case *BoolValue:
		b, ok := b.(*BoolValue)
		return ok && a.Value == b.Value
	case *NullptrValue:
		_, ok := b.(*NullptrValue)
		return ok
	default:
		panic("unreachable")
	}
}
