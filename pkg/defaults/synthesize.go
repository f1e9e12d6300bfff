// Package defaults synthesizes skeleton content records for file-backed
// variants, keeping whatever values an existing record already holds.
package defaults

import (
	"bytes"
	"encoding/json"

	"sitecms/pkg/models"
)

// member is one key of an object whose key order is fixed by the schema.
type member struct {
	key   string
	value any
}

// object is a synthesized JSON object; it keeps field declaration order.
type object []member

// Synthesize builds the default-content document for v. Fields present in
// existing are kept as they are; every other field gets its authored
// default or an empty value matching its widget. Running Synthesize on its
// own output returns the same bytes.
func Synthesize(v models.Variant, existing models.Record) ([]byte, error) {
	s := &synthesizer{path: map[string]bool{v.Collection: true}}
	doc := make(object, 0, len(v.Fields))
	for i := range v.Fields {
		f := &v.Fields[i]
		if value, ok := existing[f.Name]; ok {
			doc = append(doc, member{key: f.Name, value: value})
			continue
		}
		doc = append(doc, member{key: f.Name, value: s.value(f)})
	}
	return render(doc, v.Fields)
}

// Parse decodes an existing record, keeping numbers exactly as written.
func Parse(content []byte) (models.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var rec models.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// synthesizer is the value-producing FieldVisitor. path holds the object
// model collections being expanded, so mutually referencing models stop at
// null instead of recursing forever.
type synthesizer struct {
	path map[string]bool
}

var _ models.FieldVisitor[any] = (*synthesizer)(nil)

func (s *synthesizer) value(f *models.Field) any {
	if f.Default != nil {
		return f.Default
	}
	return models.Visit[any](f, s)
}

func (s *synthesizer) VisitBoolean(f *models.Field) any {
	if f.Required {
		return false
	}
	return nil
}

func (s *synthesizer) VisitText(*models.Field) any { return "" }

func (s *synthesizer) VisitNumber(f *models.Field) any {
	if f.IsNumeric() {
		return 0
	}
	return ""
}

func (s *synthesizer) VisitList(*models.Field) any { return []any{} }

func (s *synthesizer) VisitObject(f *models.Field) any {
	if f.Collection != "" {
		if s.path[f.Collection] {
			return nil
		}
		s.path[f.Collection] = true
		defer delete(s.path, f.Collection)
	}
	obj := make(object, 0, len(f.Fields))
	for i := range f.Fields {
		obj = append(obj, member{key: f.Fields[i].Name, value: s.value(&f.Fields[i])})
	}
	return obj
}

func (s *synthesizer) VisitRelation(f *models.Field) any {
	if f.Multiple {
		return []any{}
	}
	return nil
}

func (s *synthesizer) VisitSelect(f *models.Field) any {
	switch {
	case f.Multiple:
		return []any{}
	case f.HasStringOptions():
		return ""
	default:
		return nil
	}
}

func (s *synthesizer) VisitUnknown(*models.Field) any { return nil }
