package deduce

import (
	"fmt"
	"strings"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/tree"
)

// TemplateParam is one declared template parameter. Immutable after
// declaration.
type TemplateParam struct {
	Name      Identifier
	Kind      tree.EntityKind
	ValueType tree.Type // declared type, value parameters only

	Default    tree.Expr // runs when no argument deduced the parameter
	Deduce     tree.Expr // re-binds the parameter after initial deduction
	Constraint tree.Expr // checked against the final binding
}

// TemplateDecl is a function template: its parameter table and its
// signature pattern. Declarations persist for the lifetime of the
// resolver; one declaration serves every call site.
type TemplateDecl struct {
	Name       Identifier
	Params     []*TemplateParam
	Signature  *tree.Signature
	Constraint tree.Expr // template-level requires clause
}

func (d *TemplateDecl) String() string {
	parts := make([]string, len(d.Params))
	for i, p := range d.Params {
		parts[i] = p.Name.Value
	}
	return fmt.Sprintf("%s<%s>%v", d.Name, strings.Join(parts, ", "), d.Signature)
}

func (d *TemplateDecl) Param(name Identifier) *TemplateParam {
	for _, p := range d.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (d *TemplateDecl) paramIndex(name Identifier) int {
	for i, p := range d.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Validate checks the declaration's internal consistency: unique
// parameter names, declared types on value parameters, and no forward
// references. A deduction expression may reference the parameter's own
// name (its initial binding); defaults and constraints may not
// reference parameters declared later.
func (d *TemplateDecl) Validate() error {
	seen := NewSet[Identifier]()
	for _, p := range d.Params {
		if seen.Contains(p.Name) {
			return fmt.Errorf("template %v: duplicate parameter %v", d.Name, p.Name)
		}
		seen.Add(p.Name)
		if p.Kind == tree.EntityValue && p.ValueType == nil {
			return fmt.Errorf("template %v: value parameter %v has no declared type", d.Name, p.Name)
		}
		if p.Kind != tree.EntityValue && p.ValueType != nil {
			return fmt.Errorf("template %v: %v parameter %v has a declared type", d.Name, p.Kind, p.Name)
		}
	}
	for i, p := range d.Params {
		if err := d.checkRefs(p.Deduce, i, true); err != nil {
			return fmt.Errorf("template %v: deduction expression for %v: %w", d.Name, p.Name, err)
		}
		if err := d.checkRefs(p.Default, i, false); err != nil {
			return fmt.Errorf("template %v: default for %v: %w", d.Name, p.Name, err)
		}
		if err := d.checkRefs(p.Constraint, i, true); err != nil {
			return fmt.Errorf("template %v: constraint for %v: %w", d.Name, p.Name, err)
		}
	}
	if err := d.checkRefs(d.Constraint, len(d.Params), false); err != nil {
		return fmt.Errorf("template %v: requires clause: %w", d.Name, err)
	}
	return nil
}

func (d *TemplateDecl) checkRefs(expr tree.Expr, index int, allowSelf bool) error {
	if expr == nil {
		return nil
	}
	var bad error
	tree.WalkRefs(expr, func(name Identifier) {
		j := d.paramIndex(name)
		if j < 0 || j < index {
			return // a global, or an earlier parameter
		}
		if j == index && allowSelf {
			return
		}
		if bad == nil {
			if j == index {
				bad = fmt.Errorf("cannot reference %v from its own expression", name)
			} else {
				bad = fmt.Errorf("forward reference to %v", name)
			}
		}
	})
	return bad
}
