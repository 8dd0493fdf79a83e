package deduce

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/garciat/tad/tree"
)

// ExprEvaluator evaluates deduction and constraint expressions in a
// binding environment, producing a categorized entity. Evaluation
// must be pure: same environment, same result.
type ExprEvaluator interface {
	Evaluate(env *Bindings, expr tree.Expr) (tree.Entity, error)
}

// Evaluator is the reference ExprEvaluator over the tree.Expr
// language. Names resolve against the environment first, then the
// global scope.
type Evaluator struct {
	Globals *Scope
}

func NewEvaluator(globals *Scope) *Evaluator {
	return &Evaluator{Globals: globals}
}

func (e *Evaluator) Evaluate(env *Bindings, expr tree.Expr) (tree.Entity, error) {
	switch expr := expr.(type) {
	case *tree.RefExpr:
		if env != nil {
			if ent, ok := env.Lookup(expr.Name); ok {
				return ent, nil
			}
		}
		if ent, ok := e.Globals.Lookup(expr.Name); ok {
			return ent, nil
		}
		return nil, fmt.Errorf("undeclared name: %v", expr.Name)
	case *tree.TypeExpr:
		return expr.Type, nil
	case *tree.ValueExpr:
		return expr.Value, nil
	case *tree.ConstOfExpr:
		ty, err := e.evalType(env, expr.Of)
		if err != nil {
			return nil, err
		}
		return tree.Qualify(tree.Cv{Const: true}, ty), nil
	case *tree.RefOfExpr:
		ty, err := e.evalType(env, expr.Of)
		if err != nil {
			return nil, err
		}
		if tree.Identical(tree.Decay(ty), tree.TheVoidType) {
			return nil, fmt.Errorf("cannot form a reference to void")
		}
		return tree.MakeRef(expr.Kind, ty), nil
	case *tree.PtrOfExpr:
		ty, err := e.evalType(env, expr.Of)
		if err != nil {
			return nil, err
		}
		if _, ok := ty.(*tree.RefType); ok {
			return nil, fmt.Errorf("cannot form a pointer to reference %v", ty)
		}
		return &tree.PointerType{Elem: ty}, nil
	case *tree.DecayExpr:
		ty, err := e.evalType(env, expr.Of)
		if err != nil {
			return nil, err
		}
		return tree.Decay(ty), nil
	case *tree.UnrefExpr:
		ty, err := e.evalType(env, expr.Of)
		if err != nil {
			return nil, err
		}
		return tree.StripRef(ty), nil
	case *tree.LikeExpr:
		return e.evalLike(env, expr)
	case *tree.MemberExpr:
		ty, err := e.evalType(env, expr.Of)
		if err != nil {
			return nil, err
		}
		class, err := e.classOf(ty)
		if err != nil {
			return nil, err
		}
		field, ok := class.FieldType(expr.Field)
		if !ok {
			return nil, fmt.Errorf("%v has no member %v", class, expr.Field)
		}
		return field, nil
	case *tree.ApplyExpr:
		return e.evalApply(env, expr)
	case *tree.SameExpr:
		left, err := e.Evaluate(env, expr.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.Evaluate(env, expr.Right)
		if err != nil {
			return nil, err
		}
		return tree.MakeBool(tree.IdenticalEntity(left, right)), nil
	case *tree.DerivedFromExpr:
		derived, err := e.evalClass(env, expr.Derived)
		if err != nil {
			return nil, err
		}
		base, err := e.evalClass(env, expr.Base)
		if err != nil {
			return nil, err
		}
		return tree.MakeBool(derived.Name == base.Name || derived.DerivesFrom(base)), nil
	case *tree.HasMemberExpr:
		ty, err := e.evalType(env, expr.Of)
		if err != nil {
			return nil, err
		}
		class, err := e.classOf(ty)
		if err != nil {
			return tree.MakeBool(false), nil
		}
		_, ok := class.FieldType(expr.Field)
		return tree.MakeBool(ok), nil
	default:
		spew.Dump(expr)
		panic("unreachable")
	}
}

// evalLike rewraps the target type in the reference and cv-qualifier
// shape of the subject's binding.
func (e *Evaluator) evalLike(env *Bindings, expr *tree.LikeExpr) (tree.Entity, error) {
	of, err := e.evalType(env, expr.Of)
	if err != nil {
		return nil, err
	}
	target, err := e.evalType(env, expr.Target)
	if err != nil {
		return nil, err
	}
	target = tree.Decay(target)
	if ref, ok := of.(*tree.RefType); ok {
		cv, _ := tree.Unqual(ref.Elem)
		return tree.MakeRef(ref.Kind, tree.Qualify(cv, target)), nil
	}
	cv, _ := tree.Unqual(of)
	return tree.Qualify(cv, target), nil
}

func (e *Evaluator) evalApply(env *Bindings, expr *tree.ApplyExpr) (tree.Entity, error) {
	tmplEnt, err := e.Evaluate(env, expr.Template)
	if err != nil {
		return nil, err
	}
	tmpl, ok := tmplEnt.(*tree.TemplateRef)
	if !ok {
		return nil, fmt.Errorf("%v is not a template", tmplEnt)
	}
	if tmpl.Arity != len(expr.Args) {
		return nil, fmt.Errorf("template %v takes %d arguments, got %d", tmpl, tmpl.Arity, len(expr.Args))
	}
	args := make([]tree.Entity, len(expr.Args))
	for i, arg := range expr.Args {
		ent, err := e.Evaluate(env, arg)
		if err != nil {
			return nil, err
		}
		args[i] = ent
	}
	return &tree.TemplateInst{Template: tmpl.Name, Args: args}, nil
}

func (e *Evaluator) evalType(env *Bindings, expr tree.Expr) (tree.Type, error) {
	ent, err := e.Evaluate(env, expr)
	if err != nil {
		return nil, err
	}
	ty, ok := ent.(tree.Type)
	if !ok {
		return nil, fmt.Errorf("%v is a %v, not a type", ent, tree.KindOf(ent))
	}
	return ty, nil
}

func (e *Evaluator) evalClass(env *Bindings, expr tree.Expr) (*tree.ClassType, error) {
	ty, err := e.evalType(env, expr)
	if err != nil {
		return nil, err
	}
	return e.classOf(ty)
}

func (e *Evaluator) classOf(ty tree.Type) (*tree.ClassType, error) {
	class, ok := tree.Decay(ty).(*tree.ClassType)
	if !ok {
		return nil, fmt.Errorf("%v is not a class type", ty)
	}
	return class, nil
}
