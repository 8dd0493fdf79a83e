package tree

// Cv is a set of cv-qualifiers.
type Cv struct {
	Const    bool
	Volatile bool
}

func (c Cv) Empty() bool {
	return !c.Const && !c.Volatile
}

// Superset reports whether c carries every qualifier of other.
func (c Cv) Superset(other Cv) bool {
	return (c.Const || !other.Const) && (c.Volatile || !other.Volatile)
}

// Minus removes other's qualifiers from c.
func (c Cv) Minus(other Cv) Cv {
	return Cv{
		Const:    c.Const && !other.Const,
		Volatile: c.Volatile && !other.Volatile,
	}
}

// Unqual splits the top-level cv-qualifiers off t.
func Unqual(t Type) (Cv, Type) {
	if t, ok := t.(*CvType); ok {
		return Cv{Const: t.Const, Volatile: t.Volatile}, t.Elem
	}
	return Cv{}, t
}

// Qualify wraps t with cv. Qualifying a reference type is a no-op, as
// in C++ when the qualifier arrives through substitution.
func Qualify(cv Cv, t Type) Type {
	if cv.Empty() {
		return t
	}
	if _, ok := t.(*RefType); ok {
		return t
	}
	inner, base := Unqual(t)
	return &CvType{
		Const:    cv.Const || inner.Const,
		Volatile: cv.Volatile || inner.Volatile,
		Elem:     base,
	}
}

// StripRef returns the referenced type for references, t otherwise.
func StripRef(t Type) Type {
	if t, ok := t.(*RefType); ok {
		return t.Elem
	}
	return t
}

// Decay strips reference and top-level cv-qualifiers, as in by-value
// parameter passing.
func Decay(t Type) Type {
	_, base := Unqual(StripRef(t))
	return base
}

// MakeRef forms a reference to t, collapsing references: a reference
// to a reference is an rvalue reference only if both are.
func MakeRef(kind RefKind, t Type) Type {
	if t, ok := t.(*RefType); ok {
		if kind == RValueRef && t.Kind == RValueRef {
			return t
		}
		return &RefType{Kind: LValueRef, Elem: t.Elem}
	}
	return &RefType{Kind: kind, Elem: t}
}
