package deduce

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/immutable"
	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/tree"
)

// Bindings is one deduction attempt's environment: an append-only
// ordered mapping from parameter names to their bound entities.
// Insertion order is declaration order. The structure is persistent,
// so an environment handed to an evaluator can never be mutated
// behind it.
type Bindings struct {
	names  *immutable.List      // Identifier, in insertion order
	byName *immutable.SortedMap // string -> tree.Entity
}

func NewBindings() *Bindings {
	return &Bindings{
		names:  immutable.NewList(),
		byName: immutable.NewSortedMap(nil),
	}
}

// With returns a new environment with name bound to e. Re-binding an
// existing name replaces the entity but keeps its position.
func (b *Bindings) With(name Identifier, e tree.Entity) *Bindings {
	names := b.names
	if _, ok := b.byName.Get(name.Value); !ok {
		names = names.Append(name)
	}
	return &Bindings{
		names:  names,
		byName: b.byName.Set(name.Value, e),
	}
}

func (b *Bindings) Lookup(name Identifier) (tree.Entity, bool) {
	v, ok := b.byName.Get(name.Value)
	if !ok {
		return nil, false
	}
	return v.(tree.Entity), true
}

func (b *Bindings) Len() int {
	return b.names.Len()
}

func (b *Bindings) Range(f func(Identifier, tree.Entity) bool) {
	for i := 0; i < b.names.Len(); i++ {
		name := b.names.Get(i).(Identifier)
		v, _ := b.byName.Get(name.Value)
		if !f(name, v.(tree.Entity)) {
			return
		}
	}
}

func (b *Bindings) String() string {
	parts := make([]string, 0, b.Len())
	b.Range(func(name Identifier, e tree.Entity) bool {
		parts = append(parts, fmt.Sprintf("%v -> %v", name, e))
		return true
	})
	return fmt.Sprintf("{{ %v }}", strings.Join(parts, " ; "))
}
