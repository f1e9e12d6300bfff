package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmserrors "sitecms/pkg/errors"
	"sitecms/pkg/models"
	"sitecms/pkg/schema"
)

const siteSchema = `
collections:
  - name: pages
    files:
      - name: home
        file: content/pages/home.json
        fields:
          - {name: title, widget: string}
          - {name: hero, widget: relation, collection: authors, value_field: "{{slug}}"}
          - {name: published, widget: boolean}
          - {name: count, widget: number, value_type: int}
          - {name: rating, widget: number}
          - name: links
            widget: list
            fields:
              - {name: label, widget: string}
              - {name: url, widget: string}
          - {name: tags, widget: select, multiple: true, options: [a, b]}
          - name: level
            widget: select
            options: [{label: Low, value: low}]
          - {name: contact, widget: object, collection: authors}
          - {name: extra, widget: uuid}
  - name: blog_post
    folder: content/blog
    fields:
      - {name: authors, widget: relation, collection: authors, multiple: true}
  - name: authors
    folder: content/authors
    fields:
      - {name: name, widget: string}
`

func compileSchema(t *testing.T, src string) *TypeModule {
	t.Helper()
	cfg, err := schema.Parse([]byte(src))
	require.NoError(t, err)
	require.NoError(t, schema.Normalize(cfg))
	module, err := Compile(cfg)
	require.NoError(t, err)
	return module
}

func TestTypeName(t *testing.T) {
	tests := map[string]string{
		"blog_post":  "BlogPostData",
		"home":       "HomeData",
		"site-theme": "SiteThemeData",
		"a__b":       "ABData",
	}
	for in, want := range tests {
		assert.Equal(t, want, TypeName(in), in)
	}
}

func TestCompileOrdersDeclarations(t *testing.T) {
	module := compileSchema(t, siteSchema)

	var names []string
	for _, d := range module.Declarations {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"HomeData", "BlogPostData", "AuthorsData"}, names)

	var props []string
	for _, p := range module.Declarations[0].Type.Properties {
		props = append(props, p.Name)
	}
	assert.Equal(t, []string{"title", "hero", "published", "count", "rating", "links", "tags", "level", "contact", "extra"}, props)
}

func TestCompileWidgetMapping(t *testing.T) {
	module := compileSchema(t, siteSchema)
	home := module.Declarations[0].Type.Properties

	assert.Equal(t, KindString, home[0].Type.Kind)
	assert.Equal(t, TypeExpr{Kind: KindRef, Ref: "AuthorsData"}, home[1].Type)
	assert.Equal(t, KindBoolean, home[2].Type.Kind)
	assert.Equal(t, KindNumber, home[3].Type.Kind)
	assert.Equal(t, KindString, home[4].Type.Kind)
	assert.Equal(t, KindArray, home[5].Type.Kind)
	assert.Equal(t, KindObject, home[5].Type.Elem.Kind)
	assert.Equal(t, KindArray, home[6].Type.Kind)
	assert.Equal(t, KindOption, home[7].Type.Kind)
	assert.Equal(t, TypeExpr{Kind: KindRef, Ref: "AuthorsData"}, home[8].Type)
	assert.Equal(t, KindAny, home[9].Type.Kind)

	authors := module.Declarations[1].Type.Properties[0].Type
	assert.Equal(t, KindArray, authors.Kind)
	assert.Equal(t, "AuthorsData", authors.Elem.Ref)
}

func TestCompileSelectMultiplicity(t *testing.T) {
	for _, tt := range []struct {
		multiple bool
		want     string
	}{{true, "string[]"}, {false, "string"}} {
		cfg := &models.CMSConfig{Collections: []models.Collection{{
			Name: "posts",
			Fields: []models.Field{{
				Name: "tags", Widget: models.WidgetSelect, Multiple: tt.multiple,
				Options: []models.Option{{Label: "a", Value: "a"}},
			}},
		}}}
		module, err := Compile(cfg)
		require.NoError(t, err)
		assert.Equal(t, tt.want, tsInline(module.Declarations[0].Type.Properties[0].Type))
	}
}

func TestCompileListVariants(t *testing.T) {
	cfg := &models.CMSConfig{Collections: []models.Collection{{
		Name: "posts",
		Fields: []models.Field{
			{Name: "tags", Widget: models.WidgetList},
			{Name: "scores", Widget: models.WidgetList, Field: &models.Field{Name: "score", Widget: models.WidgetNumber, ValueType: "float"}},
		},
	}}}
	module, err := Compile(cfg)
	require.NoError(t, err)

	props := module.Declarations[0].Type.Properties
	assert.Equal(t, "string[]", tsInline(props[0].Type))
	assert.Equal(t, "number[]", tsInline(props[1].Type))
}

func TestCompileMutualObjectReferencesStayNamed(t *testing.T) {
	module := compileSchema(t, `
collections:
  - name: a
    fields:
      - {name: b, widget: object, collection: b}
  - name: b
    fields:
      - {name: a, widget: object, collection: a}
`)
	assert.Equal(t, TypeExpr{Kind: KindRef, Ref: "BData"}, module.Declarations[0].Type.Properties[0].Type)
	assert.Equal(t, TypeExpr{Kind: KindRef, Ref: "AData"}, module.Declarations[1].Type.Properties[0].Type)
}

func TestCompileRelationWithoutTarget(t *testing.T) {
	cfg := &models.CMSConfig{Collections: []models.Collection{{
		Name:   "posts",
		Fields: []models.Field{{Name: "author", Widget: models.WidgetRelation}},
	}}}
	_, err := Compile(cfg)
	require.Error(t, err)
	assert.True(t, cmserrors.IsSchema(err))
}

func TestUsesOptions(t *testing.T) {
	assert.True(t, compileSchema(t, siteSchema).UsesOptions())
	assert.False(t, compileSchema(t, "collections:\n  - name: a\n    fields:\n      - {name: x, widget: string}\n").UsesOptions())
}
