package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleConfig = `
collections:
  - name: pages
    files:
      - name: home
        file: content/pages/home.json
        fields:
          - {name: title, widget: string}
      - name: about
        fields:
          - {name: body, widget: markdown}
  - name: authors
    folder: content/authors
    fields:
      - {name: name, widget: string}
      - name: role
        widget: select
        options: [editor, writer]
      - name: level
        widget: select
        options:
          - {label: Junior, value: jr}
`

func TestVariantsFollowDeclarationOrder(t *testing.T) {
	var cfg CMSConfig
	require.NoError(t, yaml.Unmarshal([]byte(sampleConfig), &cfg))

	variants := cfg.Variants()
	require.Len(t, variants, 3)

	assert.Equal(t, "home", variants[0].Name)
	assert.Equal(t, "content/pages/home.json", variants[0].SourcePath)
	assert.Equal(t, "home", variants[0].Redirect())
	assert.Equal(t, "about", variants[1].Name)
	assert.Empty(t, variants[1].SourcePath)
	assert.Equal(t, "authors", variants[2].Name)
	assert.Empty(t, variants[2].Redirect())
}

func TestOptionDecoding(t *testing.T) {
	var cfg CMSConfig
	require.NoError(t, yaml.Unmarshal([]byte(sampleConfig), &cfg))

	authors, ok := cfg.FindCollection("authors")
	require.True(t, ok)

	role := authors.Fields[1]
	assert.True(t, role.HasStringOptions())
	assert.Equal(t, "editor", role.Options[0].Value)

	level := authors.Fields[2]
	assert.False(t, level.HasStringOptions())
	assert.Equal(t, Option{Label: "Junior", Value: "jr", Labeled: true}, level.Options[0])

	out, err := json.Marshal(level.Options)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"label":"Junior","value":"jr"}]`, string(out))

	out, err = json.Marshal(role.Options)
	require.NoError(t, err)
	assert.JSONEq(t, `["editor","writer"]`, string(out))
}

func TestFindCollectionIgnoresFiles(t *testing.T) {
	var cfg CMSConfig
	require.NoError(t, yaml.Unmarshal([]byte(sampleConfig), &cfg))

	_, ok := cfg.FindCollection("home")
	assert.False(t, ok)
}

type classCounter struct{ seen []string }

func (c *classCounter) record(s string) int     { c.seen = append(c.seen, s); return len(c.seen) }
func (c *classCounter) VisitBoolean(*Field) int  { return c.record("boolean") }
func (c *classCounter) VisitText(*Field) int     { return c.record("text") }
func (c *classCounter) VisitNumber(*Field) int   { return c.record("number") }
func (c *classCounter) VisitList(*Field) int     { return c.record("list") }
func (c *classCounter) VisitObject(*Field) int   { return c.record("object") }
func (c *classCounter) VisitRelation(*Field) int { return c.record("relation") }
func (c *classCounter) VisitSelect(*Field) int   { return c.record("select") }
func (c *classCounter) VisitUnknown(*Field) int  { return c.record("unknown") }

func TestVisitDispatchesByClass(t *testing.T) {
	c := &classCounter{}
	for _, w := range []WidgetKind{WidgetBoolean, WidgetColor, WidgetNumber, WidgetList, WidgetObject, WidgetRelation, WidgetSelect, "uuid"} {
		Visit[int](&Field{Widget: w}, c)
	}
	assert.Equal(t, []string{"boolean", "text", "number", "list", "object", "relation", "select", "unknown"}, c.seen)
}

func TestIsSlugRelation(t *testing.T) {
	assert.True(t, (&Field{Widget: WidgetRelation, ValueField: "{{slug}}"}).IsSlugRelation())
	assert.False(t, (&Field{Widget: WidgetRelation, ValueField: "title"}).IsSlugRelation())
	assert.False(t, (&Field{Widget: WidgetString, ValueField: "{{slug}}"}).IsSlugRelation())
}
