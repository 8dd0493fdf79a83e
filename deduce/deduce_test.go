package deduce

import (
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/parse"
	"github.com/garciat/tad/tree"
)

// testResolver builds a resolver over a small class hierarchy:
//
//	struct box { double value; };
//	struct in_meters : box {};
//	template<typename T> struct vec;
//	template<typename T, int N> struct span;
func testResolver() *Resolver {
	scope := BuiltinScope().Fork()
	box := &tree.ClassType{
		Name:   NewIdentifier("box"),
		Fields: []*tree.FieldDecl{{Name: NewIdentifier("value"), Type: tree.TheDoubleType}},
	}
	inMeters := &tree.ClassType{Name: NewIdentifier("in_meters"), Bases: []*tree.ClassType{box}}
	scope.Def(box.Name, box)
	scope.Def(inMeters.Name, inMeters)
	scope.Def(NewIdentifier("vec"), &tree.TemplateRef{Name: NewIdentifier("vec"), Arity: 1})
	scope.Def(NewIdentifier("span"), &tree.TemplateRef{Name: NewIdentifier("span"), Arity: 2})
	return NewResolver(scope)
}

func mustType(t *testing.T, src string) tree.Type {
	t.Helper()
	ty, err := parse.ParseType(src)
	require.NoError(t, err)
	return ty
}

func mustExpr(t *testing.T, src string) tree.Expr {
	t.Helper()
	expr, err := parse.ParseExpr(src)
	require.NoError(t, err)
	return expr
}

// argType parses and resolves a call-site argument type.
func argType(t *testing.T, r *Resolver, src string) tree.Type {
	t.Helper()
	ty, err := r.ResolveType(mustType(t, src))
	require.NoError(t, err)
	return ty
}

func argTypes(t *testing.T, r *Resolver, srcs ...string) []tree.Type {
	t.Helper()
	args := make([]tree.Type, len(srcs))
	for i, src := range srcs {
		args[i] = argType(t, r, src)
	}
	return args
}

// sigOf parses signature patterns, leaving parameter names unresolved.
func sigOf(t *testing.T, params []string, result string) *tree.Signature {
	t.Helper()
	sig := &tree.Signature{Result: mustType(t, result)}
	for _, src := range params {
		sig.Params = append(sig.Params, mustType(t, src))
	}
	return sig
}

func typeParam(name string) *TemplateParam {
	return &TemplateParam{Name: NewIdentifier(name), Kind: tree.EntityType}
}

func mustDecl(t *testing.T, decl *TemplateDecl) *TemplateDecl {
	t.Helper()
	require.NoError(t, decl.Validate())
	return decl
}

func binding(t *testing.T, b *Bindings, name string) tree.Entity {
	t.Helper()
	ent, ok := b.Lookup(NewIdentifier(name))
	require.True(t, ok, "no binding for %s in %v", name, b)
	return ent
}

func assertBound(t *testing.T, b *Bindings, name string, want tree.Type) {
	t.Helper()
	ent := binding(t, b, name)
	ty, ok := ent.(tree.Type)
	require.True(t, ok, "%s bound to %v, not a type", name, ent)
	require.True(t, tree.Identical(want, ty), "%s bound to %v, want %v", name, ty, want)
}
