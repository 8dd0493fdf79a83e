// Package scenario loads declarative deduction scenarios: a class
// hierarchy, a set of function templates, and the calls to resolve
// against them.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	. "github.com/garciat/tad/common"
	"github.com/garciat/tad/deduce"
	"github.com/garciat/tad/parse"
	"github.com/garciat/tad/tree"
)

type File struct {
	ClassTemplates []ClassTemplateDef `yaml:"class_templates"`
	Classes        []ClassDef         `yaml:"classes"`
	Templates      []TemplateDef      `yaml:"templates"`
	Calls          []CallDef          `yaml:"calls"`
}

type ClassTemplateDef struct {
	Name  string `yaml:"name"`
	Arity int    `yaml:"arity"`
}

type ClassDef struct {
	Name   string     `yaml:"name"`
	Bases  []string   `yaml:"bases"`
	Fields []FieldDef `yaml:"fields"`
}

type FieldDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type TemplateDef struct {
	Name      string     `yaml:"name"`
	Params    []ParamDef `yaml:"params"`
	Signature SigDef     `yaml:"signature"`
	Requires  string     `yaml:"requires"`
}

type ParamDef struct {
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"` // type (default), value, template
	Type       string `yaml:"type"` // declared type, value parameters only
	Deduce     string `yaml:"deduce"`
	Default    string `yaml:"default"`
	Constraint string `yaml:"constraint"`
}

type SigDef struct {
	Params []string `yaml:"params"`
	Result string   `yaml:"result"`
}

type CallDef struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

// Unit is a loaded scenario: a resolver seeded with the scenario's
// declarations, and the calls to resolve.
type Unit struct {
	Resolver *deduce.Resolver
	Calls    []deduce.Call
}

func Load(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	unit, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return unit, nil
}

func Parse(data []byte) (*Unit, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return Build(&file)
}

func Build(file *File) (*Unit, error) {
	scope := deduce.BuiltinScope().Fork()
	resolver := deduce.NewResolver(scope)

	for _, def := range file.ClassTemplates {
		if def.Arity <= 0 {
			return nil, fmt.Errorf("class template %s: arity must be positive", def.Name)
		}
		ref := &tree.TemplateRef{
			Name:  NewIdentifier(def.Name),
			Arity: def.Arity,
		}
		if err := scope.TryDef(ref.Name, ref); err != nil {
			return nil, fmt.Errorf("class template %s: %w", def.Name, err)
		}
	}

	// classes may reference each other through fields, so declare
	// every class before filling in bases and fields
	classes := make([]*tree.ClassType, len(file.Classes))
	for i, def := range file.Classes {
		classes[i] = &tree.ClassType{Name: NewIdentifier(def.Name)}
		if err := scope.TryDef(classes[i].Name, classes[i]); err != nil {
			return nil, fmt.Errorf("class %s: %w", def.Name, err)
		}
	}
	for i, def := range file.Classes {
		class := classes[i]
		for _, baseName := range def.Bases {
			base, err := lookupClass(scope, baseName)
			if err != nil {
				return nil, fmt.Errorf("class %s: %w", def.Name, err)
			}
			class.Bases = append(class.Bases, base)
		}
		for _, fieldDef := range def.Fields {
			fieldTy, err := resolveType(resolver, fieldDef.Type)
			if err != nil {
				return nil, fmt.Errorf("class %s, field %s: %w", def.Name, fieldDef.Name, err)
			}
			class.Fields = append(class.Fields, &tree.FieldDecl{
				Name: NewIdentifier(fieldDef.Name),
				Type: fieldTy,
			})
		}
	}

	for _, def := range file.Templates {
		decl, err := buildTemplate(def)
		if err != nil {
			return nil, err
		}
		if err := resolver.Declare(decl); err != nil {
			return nil, err
		}
	}

	calls := make([]deduce.Call, len(file.Calls))
	for i, def := range file.Calls {
		args := make([]tree.Type, len(def.Args))
		for j, argSrc := range def.Args {
			arg, err := resolveType(resolver, argSrc)
			if err != nil {
				return nil, fmt.Errorf("call %s, argument %d: %w", def.Name, j+1, err)
			}
			args[j] = arg
		}
		calls[i] = deduce.Call{Name: NewIdentifier(def.Name), Args: args}
	}

	return &Unit{Resolver: resolver, Calls: calls}, nil
}

func buildTemplate(def TemplateDef) (*deduce.TemplateDecl, error) {
	decl := &deduce.TemplateDecl{Name: NewIdentifier(def.Name)}
	for _, paramDef := range def.Params {
		param, err := buildParam(def.Name, paramDef)
		if err != nil {
			return nil, err
		}
		decl.Params = append(decl.Params, param)
	}
	sig := &tree.Signature{}
	for i, src := range def.Signature.Params {
		ty, err := parse.ParseType(src)
		if err != nil {
			return nil, fmt.Errorf("template %s, parameter %d: %w", def.Name, i+1, err)
		}
		sig.Params = append(sig.Params, ty)
	}
	resultSrc := def.Signature.Result
	if resultSrc == "" {
		resultSrc = "void"
	}
	result, err := parse.ParseType(resultSrc)
	if err != nil {
		return nil, fmt.Errorf("template %s, result type: %w", def.Name, err)
	}
	sig.Result = result
	decl.Signature = sig
	if def.Requires != "" {
		constraint, err := parse.ParseExpr(def.Requires)
		if err != nil {
			return nil, fmt.Errorf("template %s, requires clause: %w", def.Name, err)
		}
		decl.Constraint = constraint
	}
	return decl, nil
}

func buildParam(template string, def ParamDef) (*deduce.TemplateParam, error) {
	param := &deduce.TemplateParam{Name: NewIdentifier(def.Name)}
	switch def.Kind {
	case "", "type":
		param.Kind = tree.EntityType
	case "value":
		param.Kind = tree.EntityValue
	case "template":
		param.Kind = tree.EntityTemplate
	default:
		return nil, fmt.Errorf("template %s, parameter %s: unknown kind %q", template, def.Name, def.Kind)
	}
	if def.Type != "" {
		ty, err := parse.ParseType(def.Type)
		if err != nil {
			return nil, fmt.Errorf("template %s, parameter %s: %w", template, def.Name, err)
		}
		param.ValueType = ty
	}
	exprs := []struct {
		src  string
		dest *tree.Expr
	}{
		{def.Deduce, &param.Deduce},
		{def.Default, &param.Default},
		{def.Constraint, &param.Constraint},
	}
	for _, e := range exprs {
		if e.src == "" {
			continue
		}
		expr, err := parse.ParseExpr(e.src)
		if err != nil {
			return nil, fmt.Errorf("template %s, parameter %s: %w", template, def.Name, err)
		}
		*e.dest = expr
	}
	return param, nil
}

func resolveType(resolver *deduce.Resolver, src string) (tree.Type, error) {
	ty, err := parse.ParseType(src)
	if err != nil {
		return nil, err
	}
	return resolver.ResolveType(ty)
}

func lookupClass(scope *deduce.Scope, name string) (*tree.ClassType, error) {
	ent, ok := scope.Lookup(NewIdentifier(name))
	if !ok {
		return nil, fmt.Errorf("undeclared class %s", name)
	}
	class, ok := ent.(*tree.ClassType)
	if !ok {
		return nil, fmt.Errorf("%s is not a class", name)
	}
	return class, nil
}

// ResolveAll resolves every call in the unit, in order.
func (u *Unit) ResolveAll() []deduce.Resolution {
	resolutions := make([]deduce.Resolution, len(u.Calls))
	for i, call := range u.Calls {
		resolutions[i] = u.Resolver.Resolve(call)
	}
	return resolutions
}
