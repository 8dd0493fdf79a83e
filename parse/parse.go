package parse

import (
	"fmt"
	"strconv"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/tree"
)

// ParseType parses a type pattern such as `const T&`, `box`, `int`,
// `span<T, N>`, or `T*`. Names are left unresolved as tree.TypeName;
// deduction decides whether they denote template parameters or
// globals.
func ParseType(src string) (tree.Type, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokEOF); err != nil {
		return nil, err
	}
	return ty, nil
}

// ParseExpr parses a deduction, default, or constraint expression,
// e.g. `like<T, box>`, `member<T, value>`, `T`, or
// `derived_from<T, box>`.
func ParseExpr(src string) (tree.Expr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokEOF); err != nil {
		return nil, err
	}
	return expr, nil
}

var builtinTypes = map[string]*tree.BuiltinType{
	"void":      tree.TheVoidType,
	"bool":      tree.TheBoolType,
	"char":      tree.TheCharType,
	"int":       tree.TheIntType,
	"long":      tree.TheLongType,
	"float":     tree.TheFloatType,
	"double":    tree.TheDoubleType,
	"nullptr_t": tree.TheNullptrType,
}

type parser struct {
	tokens []token
	pos    int
}

func newParser(src string) (*parser, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	return &parser{tokens: tokens}, nil
}

func (p *parser) cur() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	t := p.tokens[p.pos]
	if t.Kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(kind tokenKind) bool {
	if p.cur().Kind == kind {
		p.advance()
		return true
	}
	return false
}

func (p *parser) acceptIdent(text string) bool {
	if p.cur().Kind == tokIdent && p.cur().Text == text {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind) error {
	if p.cur().Kind != kind {
		return fmt.Errorf("at %d: expected %v, got %v", p.cur().Pos, kind, p.cur().Kind)
	}
	p.advance()
	return nil
}

// ===== types

func (p *parser) parseType() (tree.Type, error) {
	cv := tree.Cv{}
	for {
		if p.acceptIdent("const") {
			cv.Const = true
			continue
		}
		if p.acceptIdent("volatile") {
			cv.Volatile = true
			continue
		}
		break
	}
	core, err := p.parseTypeCore()
	if err != nil {
		return nil, err
	}
	ty := tree.Qualify(cv, core)
	for {
		switch p.cur().Kind {
		case tokStar:
			p.advance()
			if _, ok := ty.(*tree.RefType); ok {
				return nil, fmt.Errorf("at %d: pointer to reference", p.cur().Pos)
			}
			ty = &tree.PointerType{Elem: ty}
		case tokAmp, tokAmpAmp:
			kind := tree.LValueRef
			if p.cur().Kind == tokAmpAmp {
				kind = tree.RValueRef
			}
			p.advance()
			if _, ok := ty.(*tree.RefType); ok {
				return nil, fmt.Errorf("at %d: reference to reference", p.cur().Pos)
			}
			ty = &tree.RefType{Kind: kind, Elem: ty}
		default:
			return ty, nil
		}
	}
}

func (p *parser) parseTypeCore() (tree.Type, error) {
	t := p.cur()
	if t.Kind != tokIdent {
		return nil, fmt.Errorf("at %d: expected type, got %v", t.Pos, t.Kind)
	}
	p.advance()
	if builtin, ok := builtinTypes[t.Text]; ok {
		return builtin, nil
	}
	if !p.accept(tokLAngle) {
		return &tree.TypeName{Name: NewIdentifier(t.Text)}, nil
	}
	var args []tree.Entity
	for {
		arg, err := p.parseTypeArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.accept(tokComma) {
			continue
		}
		if err := p.expect(tokRAngle); err != nil {
			return nil, err
		}
		break
	}
	return &tree.TemplateInst{Template: NewIdentifier(t.Text), Args: args}, nil
}

func (p *parser) parseTypeArg() (tree.Entity, error) {
	switch t := p.cur(); t.Kind {
	case tokInt:
		p.advance()
		n, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("at %d: %w", t.Pos, err)
		}
		return tree.MakeInt(n), nil
	case tokIdent:
		switch t.Text {
		case "true", "false":
			p.advance()
			return tree.MakeBool(t.Text == "true"), nil
		case "nullptr":
			p.advance()
			return &tree.NullptrValue{}, nil
		}
	}
	return p.parseType()
}

// ===== expressions

func (p *parser) parseExpr() (tree.Expr, error) {
	expr, err := p.parseExprPrefix()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case tokStar:
			p.advance()
			expr = &tree.PtrOfExpr{Of: expr}
		case tokAmp:
			p.advance()
			expr = &tree.RefOfExpr{Kind: tree.LValueRef, Of: expr}
		case tokAmpAmp:
			p.advance()
			expr = &tree.RefOfExpr{Kind: tree.RValueRef, Of: expr}
		default:
			return expr, nil
		}
	}
}

func (p *parser) parseExprPrefix() (tree.Expr, error) {
	if p.acceptIdent("const") {
		of, err := p.parseExprPrimary()
		if err != nil {
			return nil, err
		}
		return &tree.ConstOfExpr{Of: of}, nil
	}
	return p.parseExprPrimary()
}

func (p *parser) parseExprPrimary() (tree.Expr, error) {
	t := p.cur()
	switch t.Kind {
	case tokInt:
		p.advance()
		n, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("at %d: %w", t.Pos, err)
		}
		return &tree.ValueExpr{Value: tree.MakeInt(n)}, nil
	case tokLParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return expr, nil
	case tokIdent:
		switch t.Text {
		case "true", "false":
			p.advance()
			return &tree.ValueExpr{Value: tree.MakeBool(t.Text == "true")}, nil
		case "nullptr":
			p.advance()
			return &tree.ValueExpr{Value: &tree.NullptrValue{}}, nil
		}
		p.advance()
		if builtin, ok := builtinTypes[t.Text]; ok {
			return &tree.TypeExpr{Type: builtin}, nil
		}
		if !p.accept(tokLAngle) {
			return &tree.RefExpr{Name: NewIdentifier(t.Text)}, nil
		}
		return p.parseExprForm(t)
	default:
		return nil, fmt.Errorf("at %d: expected expression, got %v", t.Pos, t.Kind)
	}
}

// parseExprForm parses the argument list after `name<` and dispatches
// on the built-in form names; anything else is a template application.
func (p *parser) parseExprForm(name token) (tree.Expr, error) {
	var args []tree.Expr
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.accept(tokComma) {
			continue
		}
		if err := p.expect(tokRAngle); err != nil {
			return nil, err
		}
		break
	}
	arity := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("at %d: %s takes %d arguments, got %d", name.Pos, name.Text, n, len(args))
		}
		return nil
	}
	field := func(arg tree.Expr) (Identifier, error) {
		ref, ok := arg.(*tree.RefExpr)
		if !ok {
			return Identifier{}, fmt.Errorf("at %d: %s expects a field name, got %v", name.Pos, name.Text, arg)
		}
		return ref.Name, nil
	}
	switch name.Text {
	case "like":
		if err := arity(2); err != nil {
			return nil, err
		}
		return &tree.LikeExpr{Of: args[0], Target: args[1]}, nil
	case "member":
		if err := arity(2); err != nil {
			return nil, err
		}
		f, err := field(args[1])
		if err != nil {
			return nil, err
		}
		return &tree.MemberExpr{Of: args[0], Field: f}, nil
	case "decay":
		if err := arity(1); err != nil {
			return nil, err
		}
		return &tree.DecayExpr{Of: args[0]}, nil
	case "unref":
		if err := arity(1); err != nil {
			return nil, err
		}
		return &tree.UnrefExpr{Of: args[0]}, nil
	case "same":
		if err := arity(2); err != nil {
			return nil, err
		}
		return &tree.SameExpr{Left: args[0], Right: args[1]}, nil
	case "derived_from":
		if err := arity(2); err != nil {
			return nil, err
		}
		return &tree.DerivedFromExpr{Derived: args[0], Base: args[1]}, nil
	case "has_member":
		if err := arity(2); err != nil {
			return nil, err
		}
		f, err := field(args[1])
		if err != nil {
			return nil, err
		}
		return &tree.HasMemberExpr{Of: args[0], Field: f}, nil
	default:
		return &tree.ApplyExpr{
			Template: &tree.RefExpr{Name: NewIdentifier(name.Text)},
			Args:     args,
		}, nil
	}
}
