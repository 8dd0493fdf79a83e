package deduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/tree"
)

func call(t *testing.T, r *Resolver, name string, args ...string) Call {
	t.Helper()
	return Call{Name: NewIdentifier(name), Args: argTypes(t, r, args...)}
}

// plainDecl declares a template with no template parameters, which
// behaves like an ordinary function overload.
func plainDecl(t *testing.T, r *Resolver, name string, params []string, result string) *TemplateDecl {
	t.Helper()
	decl := mustDecl(t, &TemplateDecl{
		Name:      NewIdentifier(name),
		Signature: sigOf(t, params, result),
	})
	require.NoError(t, r.Declare(decl))
	return decl
}

func TestResolveSingleCandidate(t *testing.T) {
	r := testResolver()
	decl := mustDecl(t, &TemplateDecl{
		Name:      NewIdentifier("f"),
		Params:    []*TemplateParam{typeParam("T")},
		Signature: sigOf(t, []string{"T&"}, "T"),
	})
	require.NoError(t, r.Declare(decl))

	res := r.Resolve(call(t, r, "f", "int&"))
	require.Equal(t, ResolutionResolved, res.Kind)
	assert.Same(t, decl, res.Best.Template)
	assert.Equal(t, "(int&) -> int", res.Best.Outcome.Signature.String())
	assert.Len(t, res.Considered, 1)
}

func TestResolveNoOverloads(t *testing.T) {
	r := testResolver()
	res := r.Resolve(call(t, r, "missing", "int"))
	assert.Equal(t, ResolutionNoMatch, res.Kind)
	assert.Empty(t, res.Considered)
}

func TestResolveIdenticalSignaturesAmbiguous(t *testing.T) {
	r := testResolver()
	// distinct parameter lists, same instantiated signature
	a := mustDecl(t, &TemplateDecl{
		Name:      NewIdentifier("f"),
		Params:    []*TemplateParam{typeParam("T")},
		Signature: sigOf(t, []string{"T"}, "void"),
	})
	b := mustDecl(t, &TemplateDecl{
		Name: NewIdentifier("f"),
		Params: []*TemplateParam{
			{Name: NewIdentifier("U"), Kind: tree.EntityType, Deduce: mustExpr(t, "decay<U>")},
		},
		Signature: sigOf(t, []string{"U"}, "void"),
	})
	require.NoError(t, r.Declare(a))
	require.NoError(t, r.Declare(b))

	res := r.Resolve(call(t, r, "f", "int&"))
	require.Equal(t, ResolutionAmbiguous, res.Kind)
	require.Len(t, res.Conflicts, 2)
	assert.Same(t, a, res.Conflicts[0].Template)
	assert.Same(t, b, res.Conflicts[1].Template)
}

func TestResolveRanking(t *testing.T) {
	r := testResolver()
	exact := plainDecl(t, r, "f", []string{"int"}, "void")
	plainDecl(t, r, "f", []string{"long"}, "void")

	res := r.Resolve(call(t, r, "f", "int"))
	require.Equal(t, ResolutionResolved, res.Kind)
	assert.Same(t, exact, res.Best.Template)
	assert.Len(t, res.Considered, 2)
}

func TestResolveRankingTie(t *testing.T) {
	r := testResolver()
	a := plainDecl(t, r, "f", []string{"int", "long"}, "void")
	b := plainDecl(t, r, "f", []string{"long", "int"}, "void")

	// each candidate wins one argument; neither dominates
	res := r.Resolve(call(t, r, "f", "int", "int"))
	require.Equal(t, ResolutionAmbiguous, res.Kind)
	require.Len(t, res.Conflicts, 2)
	assert.Same(t, a, res.Conflicts[0].Template)
	assert.Same(t, b, res.Conflicts[1].Template)
}

func TestResolveDominatedCandidateExcluded(t *testing.T) {
	r := testResolver()
	best := plainDecl(t, r, "f", []string{"int", "int"}, "void")
	plainDecl(t, r, "f", []string{"int", "long"}, "void")
	plainDecl(t, r, "f", []string{"long", "long"}, "void")

	res := r.Resolve(call(t, r, "f", "int", "int"))
	require.Equal(t, ResolutionResolved, res.Kind)
	assert.Same(t, best, res.Best.Template)
}

func TestResolveFailedCandidateDoesNotHideOthers(t *testing.T) {
	r := testResolver()
	failing := mustDecl(t, &TemplateDecl{
		Name:       NewIdentifier("f"),
		Params:     []*TemplateParam{typeParam("T")},
		Signature:  sigOf(t, []string{"T"}, "void"),
		Constraint: mustExpr(t, "false"),
	})
	working := mustDecl(t, &TemplateDecl{
		Name:      NewIdentifier("f"),
		Params:    []*TemplateParam{typeParam("U")},
		Signature: sigOf(t, []string{"U&"}, "void"),
	})
	require.NoError(t, r.Declare(failing))
	require.NoError(t, r.Declare(working))

	res := r.Resolve(call(t, r, "f", "int&"))
	require.Equal(t, ResolutionResolved, res.Kind)
	assert.Same(t, working, res.Best.Template)

	require.Len(t, res.Considered, 2)
	assert.Equal(t, OutcomeConstraintViolation, res.Considered[0].Outcome.Kind)
	assert.Equal(t, OutcomeSuccess, res.Considered[1].Outcome.Kind)
}

func TestResolveSoleCandidateConstraintViolation(t *testing.T) {
	r := testResolver()
	decl := mustDecl(t, &TemplateDecl{
		Name: NewIdentifier("f"),
		Params: []*TemplateParam{
			{Name: NewIdentifier("T"), Kind: tree.EntityType, Constraint: mustExpr(t, "has_member<T, value>")},
		},
		Signature: sigOf(t, []string{"T&"}, "void"),
	})
	require.NoError(t, r.Declare(decl))

	// the resolution is a plain no-match; the constraint violation
	// stays visible to diagnostics through Considered
	res := r.Resolve(call(t, r, "f", "int&"))
	require.Equal(t, ResolutionNoMatch, res.Kind)
	require.Len(t, res.Considered, 1)
	assert.Equal(t, OutcomeConstraintViolation, res.Considered[0].Outcome.Kind)
	assert.Equal(t, NewIdentifier("T"), res.Considered[0].Outcome.Param)
}

func TestResolveConversionFailureNoMatch(t *testing.T) {
	r := testResolver()
	plainDecl(t, r, "f", []string{"int"}, "void")

	res := r.Resolve(call(t, r, "f", "nullptr_t"))
	require.Equal(t, ResolutionNoMatch, res.Kind)
	require.Len(t, res.Considered, 1)
	assert.Equal(t, OutcomeSubstitutionFailure, res.Considered[0].Outcome.Kind)
}

func TestResolveForcedRebindRejectsArgument(t *testing.T) {
	r := testResolver()
	// initial deduction binds T = nullptr_t, the deduction expression
	// forces T = int, and the instantiated foo(int) cannot take the
	// nullptr_t argument
	decl := mustDecl(t, &TemplateDecl{
		Name: NewIdentifier("foo"),
		Params: []*TemplateParam{
			{Name: NewIdentifier("T"), Kind: tree.EntityType, Deduce: mustExpr(t, "int")},
		},
		Signature: sigOf(t, []string{"T"}, "void"),
	})
	require.NoError(t, r.Declare(decl))

	res := r.Resolve(call(t, r, "foo", "nullptr_t"))
	require.Equal(t, ResolutionNoMatch, res.Kind)
	require.Len(t, res.Considered, 1)
	assert.Equal(t, OutcomeSubstitutionFailure, res.Considered[0].Outcome.Kind)
}

func TestResolveDeterministic(t *testing.T) {
	r := testResolver()
	require.NoError(t, r.Declare(mustDecl(t, &TemplateDecl{
		Name: NewIdentifier("get"),
		Params: []*TemplateParam{
			{Name: NewIdentifier("T"), Kind: tree.EntityType, Deduce: mustExpr(t, "like<T, box>")},
			{Name: NewIdentifier("U"), Kind: tree.EntityType, Deduce: mustExpr(t, "member<T, value>")},
		},
		Signature: sigOf(t, []string{"T&&"}, "U"),
	})))

	c := call(t, r, "get", "in_meters&")
	first := r.Resolve(c)
	require.Equal(t, ResolutionResolved, first.Kind)
	for i := 0; i < 3; i++ {
		again := r.Resolve(c)
		assert.Equal(t, first.Kind, again.Kind)
		assert.Equal(t, first.Best.Outcome.Signature.String(), again.Best.Outcome.Signature.String())
		assert.Equal(t, first.Best.Outcome.Ranks, again.Best.Outcome.Ranks)
	}
}

func TestResolveCallString(t *testing.T) {
	r := testResolver()
	c := call(t, r, "f", "int", "box&")
	assert.Equal(t, "f(int, box&)", c.String())
}

func TestDeclareRejectsInvalid(t *testing.T) {
	r := testResolver()
	err := r.Declare(&TemplateDecl{
		Name:      NewIdentifier("f"),
		Params:    []*TemplateParam{typeParam("T"), typeParam("T")},
		Signature: sigOf(t, []string{"T"}, "void"),
	})
	assert.ErrorContains(t, err, "duplicate parameter T")
	assert.Empty(t, r.Overloads(NewIdentifier("f")))
}

func TestResolveConcurrent(t *testing.T) {
	r := testResolver()
	plainDecl(t, r, "f", []string{"int"}, "void")

	c := call(t, r, "f", "int")
	done := make(chan Resolution, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- r.Resolve(c)
		}()
	}
	for i := 0; i < 8; i++ {
		res := <-done
		assert.Equal(t, ResolutionResolved, res.Kind)
	}
}
