package deduce

import (
	"fmt"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/tree"
)

// Attempt runs one candidate template against one argument list, in
// the fixed order: initial deduction, then per parameter in
// declaration order its deduction expression, default, category
// check, and constraint, then the template-level constraint, then
// signature instantiation and the argument conversion check.
//
// Each parameter's final binding is visible to every later
// parameter's expressions; a parameter's own initial binding is
// visible only to its own deduction expression.
func (r *Resolver) Attempt(decl *TemplateDecl, args []tree.Type) Outcome {
	initial, err := r.DeduceInitial(decl, args)
	if err != nil {
		return substFailure(err)
	}

	finals := NewBindings()
	for _, param := range decl.Params {
		ent, deduced := initial[param.Name]

		if param.Deduce != nil {
			env := finals
			if deduced {
				env = env.With(param.Name, ent)
			}
			result, err := r.Eval.Evaluate(env, param.Deduce)
			if err != nil {
				return substFailure(fmt.Errorf("deduction expression for %v: %w", param.Name, err))
			}
			ent, deduced = result, true
		}

		if !deduced && param.Default != nil {
			result, err := r.Eval.Evaluate(finals, param.Default)
			if err != nil {
				return substFailure(fmt.Errorf("default for %v: %w", param.Name, err))
			}
			ent, deduced = result, true
		}

		if !deduced {
			return substFailure(fmt.Errorf("cannot deduce parameter %v", param.Name))
		}
		if kind := tree.KindOf(ent); kind != param.Kind {
			return substFailure(fmt.Errorf("parameter %v requires a %v, got %v (a %v)", param.Name, param.Kind, ent, kind))
		}
		if param.Kind == tree.EntityValue {
			if err := r.checkValueType(param, ent.(tree.Value)); err != nil {
				return substFailure(err)
			}
		}

		if param.Constraint != nil {
			env := finals.With(param.Name, ent)
			ok, err := r.checkConstraint(env, param.Constraint)
			if err != nil {
				return substFailure(fmt.Errorf("constraint for %v: %w", param.Name, err))
			}
			if !ok {
				return constraintViolation(param.Name, fmt.Errorf("constraint %v not satisfied with %v = %v", param.Constraint, param.Name, ent))
			}
		}

		finals = finals.With(param.Name, ent)
	}

	if decl.Constraint != nil {
		ok, err := r.checkConstraint(finals, decl.Constraint)
		if err != nil {
			return substFailure(fmt.Errorf("requires clause: %w", err))
		}
		if !ok {
			return constraintViolation(Identifier{}, fmt.Errorf("requires clause %v not satisfied", decl.Constraint))
		}
	}

	sig, err := r.Instantiate(decl, finals)
	if err != nil {
		return substFailure(err)
	}
	ranks, err := r.ConvertArgs(args, sig.Params)
	if err != nil {
		return substFailure(err)
	}

	return Outcome{
		Kind:      OutcomeSuccess,
		Signature: sig,
		Bindings:  finals,
		Ranks:     ranks,
	}
}

// checkConstraint evaluates a requires-style predicate against the
// given bindings. A non-bool result is an evaluation error, not a
// violation.
func (r *Resolver) checkConstraint(env *Bindings, constraint tree.Expr) (bool, error) {
	result, err := r.Eval.Evaluate(env, constraint)
	if err != nil {
		return false, err
	}
	b, ok := result.(*tree.BoolValue)
	if !ok {
		return false, fmt.Errorf("%v is not a bool", result)
	}
	return b.Value, nil
}

// checkValueType checks a value binding against the parameter's
// declared type.
func (r *Resolver) checkValueType(param *TemplateParam, v tree.Value) error {
	declared, err := r.ResolveType(param.ValueType)
	if err != nil {
		return fmt.Errorf("parameter %v: %w", param.Name, err)
	}
	if tree.Identical(v.Type(), declared) {
		return nil
	}
	if _, convErr := r.Convert(v.Type(), declared); convErr != nil {
		return fmt.Errorf("parameter %v: value %v of type %v does not fit %v", param.Name, v, v.Type(), declared)
	}
	return nil
}
