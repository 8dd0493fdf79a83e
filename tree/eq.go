package tree

import (
	"github.com/davecgh/go-spew/spew"
)

// Identical is structural type identity. Class types are nominal:
// two classes are identical iff they have the same name.
func Identical(a, b Type) bool {
	switch a := a.(type) {
	case *BuiltinType:
		b, ok := b.(*BuiltinType)
		return ok && a.Kind == b.Kind
	case *TypeName:
		b, ok := b.(*TypeName)
		return ok && a.Name == b.Name
	case *ClassType:
		b, ok := b.(*ClassType)
		return ok && a.Name == b.Name
	case *TemplateInst:
		b, ok := b.(*TemplateInst)
		if !ok || a.Template != b.Template || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !IdenticalEntity(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case *RefType:
		b, ok := b.(*RefType)
		return ok && a.Kind == b.Kind && Identical(a.Elem, b.Elem)
	case *PointerType:
		b, ok := b.(*PointerType)
		return ok && Identical(a.Elem, b.Elem)
	case *CvType:
		b, ok := b.(*CvType)
		return ok && a.Const == b.Const && a.Volatile == b.Volatile && Identical(a.Elem, b.Elem)
	default:
		spew.Dump(a)
		panic("unreachable")
	}
}
