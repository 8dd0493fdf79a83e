package deduce

import (
	"fmt"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/tree"
)

// DeduceInitial performs ordinary, unconstrained deduction: it matches
// the pattern signature against the call's argument types and records
// a first-pass binding per deduced parameter. Parameters that no
// argument participates in deducing are simply absent from the result.
func (r *Resolver) DeduceInitial(decl *TemplateDecl, args []tree.Type) (Map[Identifier, tree.Entity], error) {
	if len(args) != len(decl.Signature.Params) {
		return nil, fmt.Errorf("takes %d arguments, got %d", len(decl.Signature.Params), len(args))
	}
	initial := NewMap[Identifier, tree.Entity]()
	for i, pattern := range decl.Signature.Params {
		if err := r.deduceArg(decl, pattern, args[i], initial); err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
	}
	return initial, nil
}

// deduceArg handles the value-category adjustments of one function
// parameter: by-value decay, reference binding, forwarding
// references. Argument types encode value category: lvalue arguments
// arrive as lvalue references, prvalues bare.
func (r *Resolver) deduceArg(decl *TemplateDecl, pattern tree.Type, arg tree.Type, out Map[Identifier, tree.Entity]) error {
	if pattern, ok := pattern.(*tree.RefType); ok {
		if name, ok := forwardingParam(decl, pattern); ok {
			if argRef, ok := arg.(*tree.RefType); ok && argRef.Kind == tree.LValueRef {
				return r.bind(decl, name, argRef, out)
			}
			return r.bind(decl, name, tree.StripRef(arg), out)
		}
		return r.deduceType(decl, pattern.Elem, tree.StripRef(arg), out)
	}
	_, core := tree.Unqual(pattern)
	return r.deduceType(decl, core, tree.Decay(arg), out)
}

// forwardingParam reports whether pattern is a forwarding reference:
// an rvalue reference to a bare type parameter.
func forwardingParam(decl *TemplateDecl, pattern *tree.RefType) (Identifier, bool) {
	if pattern.Kind != tree.RValueRef {
		return Identifier{}, false
	}
	name, ok := pattern.Elem.(*tree.TypeName)
	if !ok {
		return Identifier{}, false
	}
	param := decl.Param(name.Name)
	if param == nil || param.Kind != tree.EntityType {
		return Identifier{}, false
	}
	return name.Name, true
}

// deduceType structurally matches pattern against arg. Qualifiers
// spelled in the pattern absorb matching qualifiers of the argument;
// leftover qualifiers deduce into the parameter.
func (r *Resolver) deduceType(decl *TemplateDecl, pattern tree.Type, arg tree.Type, out Map[Identifier, tree.Entity]) error {
	if !r.containsParam(decl, pattern) {
		// concrete pattern; viability is the conversion check's concern
		return nil
	}
	pcv, pcore := tree.Unqual(pattern)
	acv, acore := tree.Unqual(arg)
	rest := acv.Minus(pcv)

	switch pcore := pcore.(type) {
	case *tree.TypeName:
		return r.bind(decl, pcore.Name, tree.Qualify(rest, acore), out)
	case *tree.PointerType:
		aptr, ok := acore.(*tree.PointerType)
		if !ok {
			return fmt.Errorf("cannot deduce %v from %v", pattern, arg)
		}
		return r.deduceType(decl, pcore.Elem, aptr.Elem, out)
	case *tree.TemplateInst:
		ainst, ok := acore.(*tree.TemplateInst)
		if !ok {
			return fmt.Errorf("cannot deduce %v from %v", pattern, arg)
		}
		if len(ainst.Args) != len(pcore.Args) {
			return fmt.Errorf("cannot deduce %v from %v", pattern, arg)
		}
		if param := decl.Param(pcore.Template); param != nil {
			ref := &tree.TemplateRef{Name: ainst.Template, Arity: len(ainst.Args)}
			if err := r.bind(decl, pcore.Template, ref, out); err != nil {
				return err
			}
		} else if pcore.Template != ainst.Template {
			return fmt.Errorf("cannot deduce %v from %v", pattern, arg)
		}
		for i := range pcore.Args {
			if err := r.deduceEntity(decl, pcore.Args[i], ainst.Args[i], out); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("cannot deduce %v from %v", pattern, arg)
	}
}

// deduceEntity matches one template-argument position, where the
// pattern may name a parameter of any kind.
func (r *Resolver) deduceEntity(decl *TemplateDecl, pattern tree.Entity, arg tree.Entity, out Map[Identifier, tree.Entity]) error {
	switch pattern := pattern.(type) {
	case *tree.TypeName:
		if decl.Param(pattern.Name) != nil {
			return r.bind(decl, pattern.Name, arg, out)
		}
		argTy, ok := arg.(tree.Type)
		if !ok || !tree.Identical(pattern, argTy) {
			return fmt.Errorf("cannot deduce %v from %v", pattern, arg)
		}
		return nil
	case tree.Type:
		argTy, ok := arg.(tree.Type)
		if !ok {
			return fmt.Errorf("cannot deduce %v from %v", pattern, arg)
		}
		if r.containsParam(decl, pattern) {
			return r.deduceType(decl, pattern, argTy, out)
		}
		if !tree.Identical(pattern, argTy) {
			return fmt.Errorf("cannot deduce %v from %v", pattern, arg)
		}
		return nil
	default:
		if !tree.IdenticalEntity(pattern, arg) {
			return fmt.Errorf("cannot deduce %v from %v", pattern, arg)
		}
		return nil
	}
}

func (r *Resolver) bind(decl *TemplateDecl, name Identifier, ent tree.Entity, out Map[Identifier, tree.Entity]) error {
	param := decl.Param(name)
	Assert(param != nil, "binding an undeclared parameter")
	if tree.KindOf(ent) != param.Kind {
		return fmt.Errorf("deduced %v (a %v) for %v parameter %v", ent, tree.KindOf(ent), param.Kind, name)
	}
	if existing, ok := out[name]; ok {
		if !tree.IdenticalEntity(existing, ent) {
			return fmt.Errorf("conflicting deductions for %v: %v vs %v", name, existing, ent)
		}
		return nil
	}
	out.Add(name, ent)
	return nil
}

func (r *Resolver) containsParam(decl *TemplateDecl, ty tree.Type) bool {
	switch ty := ty.(type) {
	case *tree.TypeName:
		return decl.Param(ty.Name) != nil
	case *tree.CvType:
		return r.containsParam(decl, ty.Elem)
	case *tree.RefType:
		return r.containsParam(decl, ty.Elem)
	case *tree.PointerType:
		return r.containsParam(decl, ty.Elem)
	case *tree.TemplateInst:
		if decl.Param(ty.Template) != nil {
			return true
		}
		for _, arg := range ty.Args {
			if argTy, ok := arg.(tree.Type); ok && r.containsParam(decl, argTy) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
