package tree

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	. "github.com/garciat/tad/common"
)

// Expr is the deduction/default/constraint expression language. The
// engine never interprets these directly; an ExprEvaluator does.
type Expr interface {
	_Expr()
	String() string
}

type ExprBase struct{}

func (*ExprBase) _Expr() {}

// RefExpr references a template parameter binding or a global entity.
type RefExpr struct {
	ExprBase
	Name Identifier
}

func (e *RefExpr) String() string {
	return e.Name.Value
}

type TypeExpr struct {
	ExprBase
	Type Type
}

func (e *TypeExpr) String() string {
	return e.Type.String()
}

type ValueExpr struct {
	ExprBase
	Value Value
}

func (e *ValueExpr) String() string {
	return e.Value.String()
}

type ConstOfExpr struct {
	ExprBase
	Of Expr
}

func (e *ConstOfExpr) String() string {
	return fmt.Sprintf("const %v", e.Of)
}

type RefOfExpr struct {
	ExprBase
	Kind RefKind
	Of   Expr
}

func (e *RefOfExpr) String() string {
	if e.Kind == RValueRef {
		return fmt.Sprintf("%v&&", e.Of)
	}
	return fmt.Sprintf("%v&", e.Of)
}

type PtrOfExpr struct {
	ExprBase
	Of Expr
}

func (e *PtrOfExpr) String() string {
	return fmt.Sprintf("%v*", e.Of)
}

// DecayExpr strips reference and top-level cv-qualifiers.
type DecayExpr struct {
	ExprBase
	Of Expr
}

func (e *DecayExpr) String() string {
	return fmt.Sprintf("decay<%v>", e.Of)
}

// UnrefExpr strips a reference, keeping cv-qualifiers.
type UnrefExpr struct {
	ExprBase
	Of Expr
}

func (e *UnrefExpr) String() string {
	return fmt.Sprintf("unref<%v>", e.Of)
}

// LikeExpr re-binds to Target while preserving the reference and
// cv-qualifier shape of Of. `like<T, box>` with T bound to
// `const in_meters&` yields `const box&`.
type LikeExpr struct {
	ExprBase
	Of     Expr
	Target Expr
}

func (e *LikeExpr) String() string {
	return fmt.Sprintf("like<%v, %v>", e.Of, e.Target)
}

// MemberExpr is the type of a named field of a class type, the
// `decltype(declval<T>().field)` shape.
type MemberExpr struct {
	ExprBase
	Of    Expr
	Field Identifier
}

func (e *MemberExpr) String() string {
	return fmt.Sprintf("member<%v, %v>", e.Of, e.Field)
}

// ApplyExpr instantiates a class template: `tmpl<args...>` where tmpl
// may be a template-template parameter.
type ApplyExpr struct {
	ExprBase
	Template Expr
	Args     []Expr
}

func (e *ApplyExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, arg := range e.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%v<%s>", e.Template, strings.Join(parts, ", "))
}

type SameExpr struct {
	ExprBase
	Left  Expr
	Right Expr
}

func (e *SameExpr) String() string {
	return fmt.Sprintf("same<%v, %v>", e.Left, e.Right)
}

type DerivedFromExpr struct {
	ExprBase
	Derived Expr
	Base    Expr
}

func (e *DerivedFromExpr) String() string {
	return fmt.Sprintf("derived_from<%v, %v>", e.Derived, e.Base)
}

type HasMemberExpr struct {
	ExprBase
	Of    Expr
	Field Identifier
}

func (e *HasMemberExpr) String() string {
	return fmt.Sprintf("has_member<%v, %v>", e.Of, e.Field)
}

// WalkRefs visits the name of every RefExpr in e.
func WalkRefs(e Expr, f func(Identifier)) {
	switch e := e.(type) {
	case *RefExpr:
		f(e.Name)
	case *TypeExpr, *ValueExpr:
		// no names
	case *ConstOfExpr:
		WalkRefs(e.Of, f)
	case *RefOfExpr:
		WalkRefs(e.Of, f)
	case *PtrOfExpr:
		WalkRefs(e.Of, f)
	case *DecayExpr:
		WalkRefs(e.Of, f)
	case *UnrefExpr:
		WalkRefs(e.Of, f)
	case *LikeExpr:
		WalkRefs(e.Of, f)
		WalkRefs(e.Target, f)
	case *MemberExpr:
		WalkRefs(e.Of, f)
	case *ApplyExpr:
		WalkRefs(e.Template, f)
		for _, arg := range e.Args {
			WalkRefs(arg, f)
		}
	case *SameExpr:
		WalkRefs(e.Left, f)
		WalkRefs(e.Right, f)
	case *DerivedFromExpr:
		WalkRefs(e.Derived, f)
		WalkRefs(e.Base, f)
	case *HasMemberExpr:
		WalkRefs(e.Of, f)
	default:
		spew.Dump(e)
		panic("unreachable")
	}
}
