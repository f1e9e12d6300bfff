package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CMSConfig is the subset of the Decap admin config.yml this service consumes.
type CMSConfig struct {
	MediaFolder  string       `yaml:"media_folder,omitempty" json:"media_folder,omitempty"`
	PublicFolder string       `yaml:"public_folder,omitempty" json:"public_folder,omitempty"`
	Collections  []Collection `yaml:"collections" json:"collections"`
}

// Collection is either a folder collection carrying Fields or a file
// collection carrying Files, each of which has its own Fields.
type Collection struct {
	Name      string  `yaml:"name" json:"name"`
	Label     string  `yaml:"label,omitempty" json:"label,omitempty"`
	Folder    string  `yaml:"folder,omitempty" json:"folder,omitempty"`
	Extension string  `yaml:"extension,omitempty" json:"extension,omitempty"`
	Files     []File  `yaml:"files,omitempty" json:"files,omitempty"`
	Fields    []Field `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// File is one named entry of a file collection.
type File struct {
	Name   string  `yaml:"name" json:"name"`
	Label  string  `yaml:"label,omitempty" json:"label,omitempty"`
	File   string  `yaml:"file,omitempty" json:"file,omitempty"`
	Fields []Field `yaml:"fields" json:"fields"`
}

type Field struct {
	Name       string     `yaml:"name" json:"name"`
	Label      string     `yaml:"label,omitempty" json:"label,omitempty"`
	Widget     WidgetKind `yaml:"widget" json:"widget"`
	Required   bool       `yaml:"required,omitempty" json:"required,omitempty"`
	Multiple   bool       `yaml:"multiple,omitempty" json:"multiple,omitempty"`
	Default    any        `yaml:"default,omitempty" json:"default,omitempty"`
	Fields     []Field    `yaml:"fields,omitempty" json:"fields,omitempty"`
	Field      *Field     `yaml:"field,omitempty" json:"field,omitempty"`
	Collection string     `yaml:"collection,omitempty" json:"collection,omitempty"`
	ValueField string     `yaml:"value_field,omitempty" json:"value_field,omitempty"`
	ValueType  string     `yaml:"value_type,omitempty" json:"value_type,omitempty"`
	Options    []Option   `yaml:"options,omitempty" json:"options,omitempty"`
}

// SlugValueField is the value_field marking a relation whose stored value is
// the target record's slug.
const SlugValueField = "{{slug}}"

// IsNumeric reports whether a number widget stores real numbers rather than strings.
func (f *Field) IsNumeric() bool {
	return f.ValueType == "int" || f.ValueType == "float"
}

// HasStringOptions reports whether a select field lists plain string options.
// A select without options is treated as a string select.
func (f *Field) HasStringOptions() bool {
	return len(f.Options) == 0 || !f.Options[0].Labeled
}

// IsSlugRelation reports whether the field references records by slug.
func (f *Field) IsSlugRelation() bool {
	return f.Widget == WidgetRelation && f.ValueField == SlugValueField
}

// Option is a select option, written either as a bare string or as a
// {label, value} mapping.
type Option struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Labeled bool   `json:"-"`
}

func (o *Option) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		o.Label, o.Value, o.Labeled = node.Value, node.Value, false
		return nil
	case yaml.MappingNode:
		var raw struct {
			Label string `yaml:"label"`
			Value string `yaml:"value"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		o.Label, o.Value, o.Labeled = raw.Label, raw.Value, true
		return nil
	default:
		return fmt.Errorf("line %d: select option must be a string or a label/value mapping", node.Line)
	}
}

func (o Option) MarshalYAML() (any, error) {
	if !o.Labeled {
		return o.Value, nil
	}
	return map[string]string{"label": o.Label, "value": o.Value}, nil
}

func (o Option) MarshalJSON() ([]byte, error) {
	if !o.Labeled {
		return json.Marshal(o.Value)
	}
	return json.Marshal(map[string]string{"label": o.Label, "value": o.Value})
}

// Variant is the type-bearing unit of a collection: either a folder
// collection itself or one file of a file collection.
type Variant struct {
	Collection string
	Name       string
	SourcePath string
	Fields     []Field
	// FromFile is set for variants that are one file of a file collection.
	FromFile bool
}

// Redirect returns the file name for variants of file collections.
func (v Variant) Redirect() string {
	if !v.FromFile {
		return ""
	}
	return v.Name
}

// Variants returns the collection's variants in declaration order.
func (c *Collection) Variants() []Variant {
	if len(c.Files) > 0 {
		out := make([]Variant, 0, len(c.Files))
		for _, f := range c.Files {
			out = append(out, Variant{Collection: c.Name, Name: f.Name, SourcePath: f.File, Fields: f.Fields, FromFile: true})
		}
		return out
	}
	if c.Fields != nil {
		return []Variant{{Collection: c.Name, Name: c.Name, Fields: c.Fields}}
	}
	return nil
}

// Variants returns every variant of every collection, collection order first.
func (c *CMSConfig) Variants() []Variant {
	var out []Variant
	for i := range c.Collections {
		out = append(out, c.Collections[i].Variants()...)
	}
	return out
}

// FindCollection looks a top-level collection up by exact name.
func (c *CMSConfig) FindCollection(name string) (*Collection, bool) {
	for i := range c.Collections {
		if c.Collections[i].Name == name {
			return &c.Collections[i], true
		}
	}
	return nil, false
}
