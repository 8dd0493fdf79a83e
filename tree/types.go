package tree

import (
	"fmt"
	"strings"

	. "github.com/garciat/tad/common"
)

type Type interface {
	Entity
	_Type()
}

type TypeBase struct{}

func (*TypeBase) _Entity() {}
func (*TypeBase) _Type()   {}

type BuiltinKind int

const (
	BuiltinVoid BuiltinKind = iota
	BuiltinBool
	BuiltinChar
	BuiltinInt
	BuiltinLong
	BuiltinFloat
	BuiltinDouble
	BuiltinNullptr
)

func (k BuiltinKind) String() string {
	switch k {
	case BuiltinVoid:
		return "void"
	case BuiltinBool:
		return "bool"
	case BuiltinChar:
		return "char"
	case BuiltinInt:
		return "int"
	case BuiltinLong:
		return "long"
	case BuiltinFloat:
		return "float"
	case BuiltinDouble:
		return "double"
	case BuiltinNullptr:
		return "nullptr_t"
	default:
		panic("unreachable")
	}
}

type BuiltinType struct {
	TypeBase
	Kind BuiltinKind
}

var (
	TheVoidType    = &BuiltinType{Kind: BuiltinVoid}
	TheBoolType    = &BuiltinType{Kind: BuiltinBool}
	TheCharType    = &BuiltinType{Kind: BuiltinChar}
	TheIntType     = &BuiltinType{Kind: BuiltinInt}
	TheLongType    = &BuiltinType{Kind: BuiltinLong}
	TheFloatType   = &BuiltinType{Kind: BuiltinFloat}
	TheDoubleType  = &BuiltinType{Kind: BuiltinDouble}
	TheNullptrType = &BuiltinType{Kind: BuiltinNullptr}
)

func (t *BuiltinType) String() string {
	return t.Kind.String()
}

func (t *BuiltinType) IsNumeric() bool {
	switch t.Kind {
	case BuiltinChar, BuiltinInt, BuiltinLong, BuiltinFloat, BuiltinDouble:
		return true
	default:
		return false
	}
}

// TypeName is an unresolved occurrence of a name in a pattern or
// expression. Whether it denotes a template parameter or a global
// entity is decided during deduction, not at parse time.
type TypeName struct {
	TypeBase
	Name Identifier
}

func (t *TypeName) String() string {
	return t.Name.Value
}

type FieldDecl struct {
	Name Identifier
	Type Type
}

type ClassType struct {
	TypeBase
	Name   Identifier
	Bases  []*ClassType
	Fields []*FieldDecl
}

func (t *ClassType) String() string {
	return t.Name.Value
}

// DerivesFrom reports whether base is a direct or transitive base
// class of t. A class does not derive from itself.
func (t *ClassType) DerivesFrom(base *ClassType) bool {
	for _, b := range t.Bases {
		if b.Name == base.Name || b.DerivesFrom(base) {
			return true
		}
	}
	return false
}

// FieldType looks up a field by name, searching base classes after
// the class's own fields.
func (t *ClassType) FieldType(name Identifier) (Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	for _, b := range t.Bases {
		if ty, ok := b.FieldType(name); ok {
			return ty, true
		}
	}
	return nil, false
}

// TemplateInst is a class-template specialization, `tmpl<args...>`.
type TemplateInst struct {
	TypeBase
	Template Identifier
	Args     []Entity
}

func (t *TemplateInst) String() string {
	parts := make([]string, len(t.Args))
	for i, arg := range t.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s<%s>", t.Template, strings.Join(parts, ", "))
}

type RefKind int

const (
	LValueRef RefKind = iota
	RValueRef
)

type RefType struct {
	TypeBase
	Kind RefKind
	Elem Type // never itself a RefType
}

func (t *RefType) String() string {
	if t.Kind == RValueRef {
		return fmt.Sprintf("%v&&", t.Elem)
	}
	return fmt.Sprintf("%v&", t.Elem)
}

type PointerType struct {
	TypeBase
	Elem Type
}

func (t *PointerType) String() string {
	return fmt.Sprintf("%v*", t.Elem)
}

type CvType struct {
	TypeBase
	Const    bool
	Volatile bool
	Elem     Type // never a RefType or another CvType
}

func (t *CvType) String() string {
	var sb strings.Builder
	if t.Const {
		sb.WriteString("const ")
	}
	if t.Volatile {
		sb.WriteString("volatile ")
	}
	sb.WriteString(t.Elem.String())
	return sb.String()
}
