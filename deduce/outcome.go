package deduce

import (
	"fmt"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/tree"
)

// OutcomeKind is the terminal state of one deduction attempt.
// Failures are local to the candidate and silent by construction;
// only the resolution-level outcomes are ever user-visible.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeSubstitutionFailure
	OutcomeConstraintViolation
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSubstitutionFailure:
		return "substitution failure"
	case OutcomeConstraintViolation:
		return "constraints not satisfied"
	default:
		panic("unreachable")
	}
}

// Outcome is the result of one candidate's deduction attempt.
type Outcome struct {
	Kind OutcomeKind

	// success only
	Signature *tree.Signature
	Bindings  *Bindings
	Ranks     []ConvRank

	// failure only
	Param  Identifier // constraint violations: the offending parameter, empty for template-level
	Reason error
}

func (o Outcome) Failed() bool {
	return o.Kind != OutcomeSuccess
}

func (o Outcome) String() string {
	if o.Kind == OutcomeSuccess {
		return fmt.Sprintf("success: %v", o.Signature)
	}
	return fmt.Sprintf("%v: %v", o.Kind, o.Reason)
}

func substFailure(reason error) Outcome {
	return Outcome{Kind: OutcomeSubstitutionFailure, Reason: reason}
}

func constraintViolation(param Identifier, reason error) Outcome {
	return Outcome{Kind: OutcomeConstraintViolation, Param: param, Reason: reason}
}

// Candidate pairs a template with the result of its attempt against
// one call. It participates in overload resolution only if the
// attempt succeeded.
type Candidate struct {
	Template *TemplateDecl
	Outcome  Outcome
}

// ResolutionKind is the terminal state of one call resolution.
type ResolutionKind int

const (
	ResolutionResolved ResolutionKind = iota
	ResolutionAmbiguous
	ResolutionNoMatch
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolutionResolved:
		return "resolved"
	case ResolutionAmbiguous:
		return "ambiguous"
	case ResolutionNoMatch:
		return "no match"
	default:
		panic("unreachable")
	}
}

// Resolution is the structured outcome of resolving one call,
// consumed by the diagnostic layer. The engine never formats
// user-facing text.
type Resolution struct {
	Kind ResolutionKind

	// Best is the resolved call target.
	Best *Candidate

	// Conflicts holds the conflicting candidates of an ambiguous
	// call: duplicate instantiated signatures, or a ranking tie.
	Conflicts []*Candidate

	// Considered holds every declared overload in declaration order,
	// each with its attempt's outcome.
	Considered []*Candidate
}
