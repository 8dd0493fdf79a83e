package tree

import (
	"fmt"
	"strings"
)

type Signature struct {
	Params []Type
	Result Type
}

func (s *Signature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %v", strings.Join(parts, ", "), s.Result)
}

func (s *Signature) Identical(other *Signature) bool {
	if len(s.Params) != len(other.Params) {
		return false
	}
	for i := range s.Params {
		if !Identical(s.Params[i], other.Params[i]) {
			return false
		}
	}
	return Identical(s.Result, other.Result)
}
