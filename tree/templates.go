package tree

import (
	. "github.com/garciat/tad/common"
)

// TemplateRef names a class template, the bindable entity of a
// template-template parameter.
type TemplateRef struct {
	Name  Identifier
	Arity int
}

func (*TemplateRef) _Entity() {}

func (t *TemplateRef) String() string {
	return t.Name.Value
}
