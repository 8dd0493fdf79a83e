package deduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/tree"
)

func TestApplySubst(t *testing.T) {
	r := testResolver()
	tests := []struct {
		pattern string
		env     map[string]string
		want    string
	}{
		{"T", map[string]string{"T": "int"}, "int"},
		{"int", nil, "int"},
		{"box", nil, "box"},
		{"const T&", map[string]string{"T": "int"}, "const int&"},
		{"T*", map[string]string{"T": "const box"}, "const box*"},
		// reference collapsing through substitution
		{"T&&", map[string]string{"T": "int&"}, "int&"},
		{"T&", map[string]string{"T": "int&&"}, "int&"},
		{"vec<T>", map[string]string{"T": "int"}, "vec<int>"},
		// top-level cv on a reference binding vanishes
		{"const T", map[string]string{"T": "int&"}, "int&"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := r.ApplySubst(mustType(t, tt.pattern), evalEnv(t, r, tt.env))
			require.NoError(t, err)
			want := argType(t, r, tt.want)
			assert.True(t, tree.Identical(want, got), "got %v, want %v", got, want)
		})
	}
}

func TestApplySubstTemplateTemplate(t *testing.T) {
	r := testResolver()
	env := NewBindings().
		With(NewIdentifier("C"), &tree.TemplateRef{Name: NewIdentifier("span"), Arity: 2}).
		With(NewIdentifier("T"), tree.TheIntType).
		With(NewIdentifier("N"), tree.MakeInt(3))

	got, err := r.ApplySubst(mustType(t, "C<T, N>"), env)
	require.NoError(t, err)
	assert.True(t, tree.Identical(argType(t, r, "span<int, 3>"), got), "got %v", got)
}

func TestApplySubstErrors(t *testing.T) {
	r := testResolver()
	tests := []struct {
		pattern string
		env     map[string]string
		wantErr string
	}{
		{"T", nil, "cannot name type T"},
		{"T&", map[string]string{"T": "void"}, "reference to void"},
		{"T*", map[string]string{"T": "int&"}, "pointer to reference"},
		{"missing<int>", nil, "cannot name template missing"},
		{"box<int>", nil, "box is not a template"},
		{"vec<int, long>", nil, "takes 1 arguments, got 2"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := r.ApplySubst(mustType(t, tt.pattern), evalEnv(t, r, tt.env))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestApplySubstValueAsType(t *testing.T) {
	r := testResolver()
	env := NewBindings().With(NewIdentifier("N"), tree.MakeInt(3))
	_, err := r.ApplySubst(mustType(t, "N"), env)
	assert.ErrorContains(t, err, "names a value, not a type")
}

func TestInstantiate(t *testing.T) {
	r := testResolver()
	decl := mustDecl(t, &TemplateDecl{
		Name:      NewIdentifier("f"),
		Params:    []*TemplateParam{typeParam("T"), typeParam("U")},
		Signature: sigOf(t, []string{"T&&", "const U&"}, "U"),
	})
	finals := NewBindings().
		With(NewIdentifier("T"), argType(t, r, "box&")).
		With(NewIdentifier("U"), tree.TheDoubleType)

	sig, err := r.Instantiate(decl, finals)
	require.NoError(t, err)
	assert.Equal(t, "(box&, const double&) -> double", sig.String())
}

func TestResolveType(t *testing.T) {
	r := testResolver()

	ty, err := r.ResolveType(mustType(t, "const in_meters&"))
	require.NoError(t, err)
	_, elem := tree.Unqual(tree.StripRef(ty))
	_, ok := elem.(*tree.ClassType)
	assert.True(t, ok, "got %v", ty)

	_, err = r.ResolveType(mustType(t, "undeclared"))
	assert.ErrorContains(t, err, "cannot name type")
}
