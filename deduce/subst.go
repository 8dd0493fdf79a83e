package deduce

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/garciat/tad/tree"
)

// Instantiate substitutes final bindings into the declared signature.
// Any invalid resulting type is a substitution failure, reported as an
// error, never as a panic.
func (r *Resolver) Instantiate(decl *TemplateDecl, finals *Bindings) (*tree.Signature, error) {
	params := make([]tree.Type, len(decl.Signature.Params))
	for i, pattern := range decl.Signature.Params {
		ty, err := r.ApplySubst(pattern, finals)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		params[i] = ty
	}
	result, err := r.ApplySubst(decl.Signature.Result, finals)
	if err != nil {
		return nil, fmt.Errorf("result type: %w", err)
	}
	return &tree.Signature{Params: params, Result: result}, nil
}

// ApplySubst substitutes bindings into a pattern type, resolving
// leftover names against the global scope.
func (r *Resolver) ApplySubst(ty tree.Type, b *Bindings) (tree.Type, error) {
	switch ty := ty.(type) {
	case *tree.BuiltinType:
		return ty, nil
	case *tree.ClassType:
		return ty, nil
	case *tree.TypeName:
		ent, ok := b.Lookup(ty.Name)
		if !ok {
			ent, ok = r.Globals.Lookup(ty.Name)
		}
		if !ok {
			return nil, fmt.Errorf("cannot name type %v", ty.Name)
		}
		t, isType := ent.(tree.Type)
		if !isType {
			return nil, fmt.Errorf("%v names a %v, not a type", ty.Name, tree.KindOf(ent))
		}
		return t, nil
	case *tree.RefType:
		elem, err := r.ApplySubst(ty.Elem, b)
		if err != nil {
			return nil, err
		}
		if tree.Identical(tree.Decay(elem), tree.TheVoidType) {
			return nil, fmt.Errorf("cannot form a reference to void")
		}
		return tree.MakeRef(ty.Kind, elem), nil
	case *tree.PointerType:
		elem, err := r.ApplySubst(ty.Elem, b)
		if err != nil {
			return nil, err
		}
		if _, ok := elem.(*tree.RefType); ok {
			return nil, fmt.Errorf("cannot form a pointer to reference %v", elem)
		}
		return &tree.PointerType{Elem: elem}, nil
	case *tree.CvType:
		elem, err := r.ApplySubst(ty.Elem, b)
		if err != nil {
			return nil, err
		}
		return tree.Qualify(tree.Cv{Const: ty.Const, Volatile: ty.Volatile}, elem), nil
	case *tree.TemplateInst:
		name := ty.Template
		ent, ok := b.Lookup(name)
		if !ok {
			ent, ok = r.Globals.Lookup(name)
		}
		if !ok {
			return nil, fmt.Errorf("cannot name template %v", name)
		}
		ref, isRef := ent.(*tree.TemplateRef)
		if !isRef {
			return nil, fmt.Errorf("%v is not a template", name)
		}
		if ref.Arity != len(ty.Args) {
			return nil, fmt.Errorf("template %v takes %d arguments, got %d", ref, ref.Arity, len(ty.Args))
		}
		name = ref.Name
		args := make([]tree.Entity, len(ty.Args))
		for i, arg := range ty.Args {
			sub, err := r.substEntity(arg, b)
			if err != nil {
				return nil, err
			}
			args[i] = sub
		}
		return &tree.TemplateInst{Template: name, Args: args}, nil
	default:
		spew.Dump(ty)
		panic("unreachable")
	}
}

// substEntity substitutes one template-argument position, where a
// name may resolve to an entity of any kind.
func (r *Resolver) substEntity(ent tree.Entity, b *Bindings) (tree.Entity, error) {
	switch ent := ent.(type) {
	case *tree.TypeName:
		bound, ok := b.Lookup(ent.Name)
		if !ok {
			bound, ok = r.Globals.Lookup(ent.Name)
		}
		if !ok {
			return nil, fmt.Errorf("cannot name %v", ent.Name)
		}
		return bound, nil
	case tree.Type:
		return r.ApplySubst(ent, b)
	default:
		return ent, nil
	}
}

// ResolveType resolves a type with no template parameters in scope,
// e.g. a call-site argument type or a class field type.
func (r *Resolver) ResolveType(ty tree.Type) (tree.Type, error) {
	return r.ApplySubst(ty, NewBindings())
}
