package deduce

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/tree"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		decl    *TemplateDecl
		wantErr string
	}{
		{
			name: "value parameter without type",
			decl: &TemplateDecl{
				Name:   NewIdentifier("f"),
				Params: []*TemplateParam{{Name: NewIdentifier("N"), Kind: tree.EntityValue}},
			},
			wantErr: "has no declared type",
		},
		{
			name: "type parameter with declared type",
			decl: &TemplateDecl{
				Name: NewIdentifier("f"),
				Params: []*TemplateParam{
					{Name: NewIdentifier("T"), Kind: tree.EntityType, ValueType: tree.TheIntType},
				},
			},
			wantErr: "has a declared type",
		},
		{
			name: "forward reference in default",
			decl: &TemplateDecl{
				Name: NewIdentifier("f"),
				Params: []*TemplateParam{
					{Name: NewIdentifier("T"), Kind: tree.EntityType, Default: &tree.RefExpr{Name: NewIdentifier("U")}},
					{Name: NewIdentifier("U"), Kind: tree.EntityType},
				},
			},
			wantErr: "forward reference to U",
		},
		{
			name: "self reference in default",
			decl: &TemplateDecl{
				Name: NewIdentifier("f"),
				Params: []*TemplateParam{
					{Name: NewIdentifier("T"), Kind: tree.EntityType, Default: &tree.RefExpr{Name: NewIdentifier("T")}},
				},
			},
			wantErr: "cannot reference T from its own expression",
		},
		{
			name: "forward reference in constraint",
			decl: &TemplateDecl{
				Name: NewIdentifier("f"),
				Params: []*TemplateParam{
					{Name: NewIdentifier("T"), Kind: tree.EntityType, Constraint: &tree.RefExpr{Name: NewIdentifier("U")}},
					{Name: NewIdentifier("U"), Kind: tree.EntityType},
				},
			},
			wantErr: "forward reference to U",
		},
		{
			name: "self reference in deduce",
			decl: &TemplateDecl{
				Name: NewIdentifier("f"),
				Params: []*TemplateParam{
					{Name: NewIdentifier("T"), Kind: tree.EntityType, Deduce: &tree.RefExpr{Name: NewIdentifier("T")}},
				},
			},
		},
		{
			name: "requires clause sees every parameter",
			decl: &TemplateDecl{
				Name: NewIdentifier("f"),
				Params: []*TemplateParam{
					{Name: NewIdentifier("T"), Kind: tree.EntityType},
					{Name: NewIdentifier("U"), Kind: tree.EntityType},
				},
				Constraint: &tree.SameExpr{
					Left:  &tree.RefExpr{Name: NewIdentifier("T")},
					Right: &tree.RefExpr{Name: NewIdentifier("U")},
				},
			},
		},
		{
			name: "globals are not parameter references",
			decl: &TemplateDecl{
				Name: NewIdentifier("f"),
				Params: []*TemplateParam{
					{Name: NewIdentifier("T"), Kind: tree.EntityType, Default: &tree.RefExpr{Name: NewIdentifier("box")}},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decl.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestTemplateDeclString(t *testing.T) {
	decl := &TemplateDecl{
		Name:   NewIdentifier("get"),
		Params: []*TemplateParam{typeParam("T"), typeParam("U")},
		Signature: &tree.Signature{
			Params: []tree.Type{&tree.RefType{Kind: tree.RValueRef, Elem: &tree.TypeName{Name: NewIdentifier("T")}}},
			Result: &tree.TypeName{Name: NewIdentifier("U")},
		},
	}
	assert.Equal(t, "get<T, U>(T&&) -> U", decl.String())
}
