package deduce

import (
	"fmt"
	"strings"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/tree"
	log "github.com/sirupsen/logrus"
)

// Resolver owns the declaration table and resolves calls against it.
// Declarations are established up front and are immutable during
// resolution; every call gets fresh bindings, so a Resolver is safe
// for concurrent Resolve calls.
type Resolver struct {
	Globals   *Scope
	Eval      ExprEvaluator
	templates Map[Identifier, []*TemplateDecl]
}

func NewResolver(globals *Scope) *Resolver {
	if globals == nil {
		globals = BuiltinScope()
	}
	return &Resolver{
		Globals:   globals,
		Eval:      NewEvaluator(globals),
		templates: NewMap[Identifier, []*TemplateDecl](),
	}
}

// Declare adds one function template to the overload set of its name.
func (r *Resolver) Declare(decl *TemplateDecl) error {
	if err := decl.Validate(); err != nil {
		return err
	}
	r.templates[decl.Name] = append(r.templates[decl.Name], decl)
	return nil
}

// Overloads returns the declared overloads of name, in declaration
// order.
func (r *Resolver) Overloads(name Identifier) []*TemplateDecl {
	return r.templates[name]
}

// Call is one call site: a callee name and the static types of the
// arguments, as supplied by the upstream argument-type resolver.
type Call struct {
	Name Identifier
	Args []tree.Type
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, arg := range c.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}

// Resolve runs a deduction attempt for every overload of the callee,
// drops failed candidates, rejects duplicate instantiated signatures,
// and ranks the survivors.
func (r *Resolver) Resolve(call Call) Resolution {
	decls := r.templates[call.Name]

	considered := make([]*Candidate, len(decls))
	var survivors []*Candidate
	for i, decl := range decls {
		outcome := r.Attempt(decl, call.Args)
		log.WithFields(log.Fields{
			"call":      call.String(),
			"candidate": decl.String(),
		}).Debugf("attempt: %v", outcome)
		candidate := &Candidate{Template: decl, Outcome: outcome}
		considered[i] = candidate
		if !outcome.Failed() {
			survivors = append(survivors, candidate)
		}
	}

	// identical instantiated signatures are ill-formed regardless of
	// how the signatures were reached or how they would rank
	for i, a := range survivors {
		for _, b := range survivors[i+1:] {
			if a.Outcome.Signature.Identical(b.Outcome.Signature) {
				return Resolution{
					Kind:       ResolutionAmbiguous,
					Conflicts:  []*Candidate{a, b},
					Considered: considered,
				}
			}
		}
	}

	if len(survivors) == 0 {
		return Resolution{Kind: ResolutionNoMatch, Considered: considered}
	}
	if len(survivors) == 1 {
		return Resolution{Kind: ResolutionResolved, Best: survivors[0], Considered: considered}
	}

	for _, candidate := range survivors {
		if betterThanAll(candidate, survivors) {
			return Resolution{Kind: ResolutionResolved, Best: candidate, Considered: considered}
		}
	}
	return Resolution{
		Kind:       ResolutionAmbiguous,
		Conflicts:  undominated(survivors),
		Considered: considered,
	}
}

// better reports whether a's conversion ranks are at least as good as
// b's for every argument and strictly better for at least one.
func better(a, b *Candidate) bool {
	strict := false
	for i := range a.Outcome.Ranks {
		switch {
		case a.Outcome.Ranks[i] > b.Outcome.Ranks[i]:
			return false
		case a.Outcome.Ranks[i] < b.Outcome.Ranks[i]:
			strict = true
		}
	}
	return strict
}

func betterThanAll(candidate *Candidate, survivors []*Candidate) bool {
	for _, other := range survivors {
		if other == candidate {
			continue
		}
		if !better(candidate, other) {
			return false
		}
	}
	return true
}

// undominated keeps the candidates no other candidate beats; these
// are the ones an ambiguity diagnostic should name.
func undominated(survivors []*Candidate) []*Candidate {
	var result []*Candidate
	for _, candidate := range survivors {
		dominated := false
		for _, other := range survivors {
			if other != candidate && better(other, candidate) {
				dominated = true
				break
			}
		}
		if !dominated {
			result = append(result, candidate)
		}
	}
	return result
}
