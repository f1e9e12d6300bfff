// Package codegen compiles a normalized CMS schema into static type
// declarations, one per collection variant.
package codegen

import (
	"strings"
	"unicode"
	"unicode/utf8"

	cmserrors "sitecms/pkg/errors"
	"sitecms/pkg/models"
)

// Kind is the shape of a compiled type expression.
type Kind int

const (
	KindAny Kind = iota
	KindBoolean
	KindString
	KindNumber
	KindRef
	KindArray
	KindObject
	KindOption
)

// TypeExpr is a target-independent type.
type TypeExpr struct {
	Kind Kind
	// Ref is the referenced type name for KindRef.
	Ref string
	// Elem is the element type for KindArray.
	Elem *TypeExpr
	// Properties are the members of a KindObject, in field order.
	Properties []Property
}

type Property struct {
	Name string
	Type TypeExpr
}

// Declaration is one named type generated for a variant.
type Declaration struct {
	Name       string
	Collection string
	Variant    string
	Type       TypeExpr
}

// TypeModule is the full set of declarations, in collection, variant and
// field order.
type TypeModule struct {
	Declarations []Declaration
}

// UsesOptions reports whether any declaration contains a labeled select.
func (m *TypeModule) UsesOptions() bool {
	for _, d := range m.Declarations {
		if d.Type.contains(KindOption) {
			return true
		}
	}
	return false
}

func (t TypeExpr) contains(k Kind) bool {
	if t.Kind == k {
		return true
	}
	if t.Elem != nil && t.Elem.contains(k) {
		return true
	}
	for _, p := range t.Properties {
		if p.Type.contains(k) {
			return true
		}
	}
	return false
}

func arrayOf(t TypeExpr) TypeExpr {
	return TypeExpr{Kind: KindArray, Elem: &t}
}

func maybeArray(t TypeExpr, multiple bool) TypeExpr {
	if multiple {
		return arrayOf(t)
	}
	return t
}

// TypeName derives the generated type name for a collection or variant:
// blog_post becomes BlogPostData.
func TypeName(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' }) {
		first, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(first))
		b.WriteString(part[size:])
	}
	b.WriteString("Data")
	return b.String()
}

// Compile maps every variant of a normalized schema onto a declaration.
// Compile is pure: the same schema always yields the same module.
func Compile(cfg *models.CMSConfig) (*TypeModule, error) {
	c := &compiler{}
	module := &TypeModule{}
	for _, v := range cfg.Variants() {
		c.owner = v.Name
		decl := Declaration{
			Name:       TypeName(v.Name),
			Collection: v.Collection,
			Variant:    v.Name,
			Type:       c.object(v.Fields),
		}
		if c.err != nil {
			return nil, c.err
		}
		module.Declarations = append(module.Declarations, decl)
	}
	return module, nil
}

// compiler is the type-producing FieldVisitor.
type compiler struct {
	owner string
	err   error
}

var _ models.FieldVisitor[TypeExpr] = (*compiler)(nil)

func (c *compiler) object(fields []models.Field) TypeExpr {
	obj := TypeExpr{Kind: KindObject, Properties: make([]Property, 0, len(fields))}
	for i := range fields {
		obj.Properties = append(obj.Properties, Property{
			Name: fields[i].Name,
			Type: models.Visit[TypeExpr](&fields[i], c),
		})
	}
	return obj
}

func (c *compiler) fail(f *models.Field, message string) TypeExpr {
	if c.err == nil {
		c.err = cmserrors.SchemaError(message).
			WithContext("variant", c.owner).
			WithContext("field", f.Name).
			Build()
	}
	return TypeExpr{Kind: KindAny}
}

func (c *compiler) VisitBoolean(*models.Field) TypeExpr { return TypeExpr{Kind: KindBoolean} }

func (c *compiler) VisitText(*models.Field) TypeExpr { return TypeExpr{Kind: KindString} }

func (c *compiler) VisitNumber(f *models.Field) TypeExpr {
	if f.IsNumeric() {
		return TypeExpr{Kind: KindNumber}
	}
	return TypeExpr{Kind: KindString}
}

func (c *compiler) VisitList(f *models.Field) TypeExpr {
	switch {
	case len(f.Fields) > 0:
		return arrayOf(c.object(f.Fields))
	case f.Field != nil:
		return arrayOf(models.Visit[TypeExpr](f.Field, c))
	default:
		return arrayOf(TypeExpr{Kind: KindString})
	}
}

func (c *compiler) VisitObject(f *models.Field) TypeExpr {
	if f.Collection != "" {
		return TypeExpr{Kind: KindRef, Ref: TypeName(f.Collection)}
	}
	return c.object(f.Fields)
}

func (c *compiler) VisitRelation(f *models.Field) TypeExpr {
	if f.Collection == "" {
		return c.fail(f, "relation field has no target collection")
	}
	return maybeArray(TypeExpr{Kind: KindRef, Ref: TypeName(f.Collection)}, f.Multiple)
}

func (c *compiler) VisitSelect(f *models.Field) TypeExpr {
	if f.HasStringOptions() {
		return maybeArray(TypeExpr{Kind: KindString}, f.Multiple)
	}
	return maybeArray(TypeExpr{Kind: KindOption}, f.Multiple)
}

func (c *compiler) VisitUnknown(*models.Field) TypeExpr { return TypeExpr{Kind: KindAny} }
