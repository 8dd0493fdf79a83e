package deduce

import (
	"fmt"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/tree"
)

// ConvRank orders standard conversion sequences from best to worst.
type ConvRank int

const (
	RankExact ConvRank = iota
	RankQualification
	RankPromotion
	RankConversion
)

func (r ConvRank) String() string {
	switch r {
	case RankExact:
		return "exact"
	case RankQualification:
		return "qualification"
	case RankPromotion:
		return "promotion"
	case RankConversion:
		return "conversion"
	default:
		panic("unreachable")
	}
}

func worse(a, b ConvRank) ConvRank {
	if a > b {
		return a
	}
	return b
}

// ConvertArgs ranks the conversion of every argument to the
// corresponding parameter of an instantiated signature.
func (r *Resolver) ConvertArgs(args []tree.Type, params []tree.Type) ([]ConvRank, error) {
	Assert(len(args) == len(params), "argument count mismatch after instantiation")
	ranks := make([]ConvRank, len(args))
	for i := range args {
		rank, err := r.Convert(args[i], params[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		ranks[i] = rank
	}
	return ranks, nil
}

// Convert ranks the conversion from an argument of type arg to a
// function parameter of type param. Argument types encode value
// category: lvalues arrive as lvalue references, prvalues bare.
func (r *Resolver) Convert(arg, param tree.Type) (ConvRank, error) {
	if param, ok := param.(*tree.RefType); ok {
		return r.convertRef(arg, param)
	}
	a := tree.Decay(arg)
	p := tree.Decay(param) // top-level cv on a by-value parameter is immaterial
	if tree.Identical(a, p) {
		return RankExact, nil
	}
	if p, ok := p.(*tree.PointerType); ok {
		return r.convertToPointer(a, p)
	}
	ab, aok := a.(*tree.BuiltinType)
	pb, pok := p.(*tree.BuiltinType)
	if aok && pok {
		return convertBuiltin(ab, pb)
	}
	aclass, aok := a.(*tree.ClassType)
	pclass, pok := p.(*tree.ClassType)
	if aok && pok && aclass.DerivesFrom(pclass) {
		return RankConversion, nil
	}
	return 0, fmt.Errorf("cannot convert %v to %v", arg, param)
}

func (r *Resolver) convertRef(arg tree.Type, param *tree.RefType) (ConvRank, error) {
	argRef, argIsRef := arg.(*tree.RefType)
	argIsLValue := argIsRef && argRef.Kind == tree.LValueRef
	pcv, pcore := tree.Unqual(param.Elem)
	acv, acore := tree.Unqual(tree.StripRef(arg))

	if param.Kind == tree.LValueRef && !argIsLValue && !pcv.Const {
		return 0, fmt.Errorf("non-const lvalue reference %v cannot bind to an rvalue", param)
	}
	if param.Kind == tree.RValueRef && argIsLValue {
		return 0, fmt.Errorf("rvalue reference %v cannot bind to an lvalue", param)
	}
	if !pcv.Superset(acv) {
		return 0, fmt.Errorf("binding %v to %v loses qualifiers", arg, param)
	}
	if tree.Identical(acore, pcore) {
		if pcv == acv {
			return RankExact, nil
		}
		return RankQualification, nil
	}
	aclass, aok := acore.(*tree.ClassType)
	pclass, pok := pcore.(*tree.ClassType)
	if aok && pok && aclass.DerivesFrom(pclass) {
		return RankConversion, nil
	}
	// binding anything else materializes a temporary
	if !pcv.Const && param.Kind != tree.RValueRef {
		return 0, fmt.Errorf("cannot bind %v to %v", arg, param)
	}
	rank, err := r.Convert(acore, pcore)
	if err != nil {
		return 0, fmt.Errorf("cannot bind %v to %v: %w", arg, param, err)
	}
	return worse(rank, RankConversion), nil
}

func (r *Resolver) convertToPointer(a tree.Type, p *tree.PointerType) (ConvRank, error) {
	if ab, ok := a.(*tree.BuiltinType); ok && ab.Kind == tree.BuiltinNullptr {
		return RankConversion, nil
	}
	ap, ok := a.(*tree.PointerType)
	if !ok {
		return 0, fmt.Errorf("cannot convert %v to %v", a, p)
	}
	acv, acore := tree.Unqual(ap.Elem)
	pcv, pcore := tree.Unqual(p.Elem)
	if !pcv.Superset(acv) {
		return 0, fmt.Errorf("converting %v to %v loses qualifiers", a, p)
	}
	if tree.Identical(acore, pcore) {
		return RankQualification, nil
	}
	aclass, aok := acore.(*tree.ClassType)
	pclass, pok := pcore.(*tree.ClassType)
	if aok && pok && aclass.DerivesFrom(pclass) {
		return RankConversion, nil
	}
	return 0, fmt.Errorf("cannot convert %v to %v", a, p)
}

func convertBuiltin(a, p *tree.BuiltinType) (ConvRank, error) {
	// integral and floating-point promotions
	switch {
	case a.Kind == tree.BuiltinChar && p.Kind == tree.BuiltinInt:
		return RankPromotion, nil
	case a.Kind == tree.BuiltinBool && p.Kind == tree.BuiltinInt:
		return RankPromotion, nil
	case a.Kind == tree.BuiltinFloat && p.Kind == tree.BuiltinDouble:
		return RankPromotion, nil
	}
	arith := func(t *tree.BuiltinType) bool {
		return t.IsNumeric() || t.Kind == tree.BuiltinBool
	}
	if arith(a) && arith(p) {
		return RankConversion, nil
	}
	return 0, fmt.Errorf("cannot convert %v to %v", a, p)
}
