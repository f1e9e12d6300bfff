// Package relations derives, from the schema, which fields of each variant
// reference other records by slug.
package relations

import (
	"context"

	"sitecms/pkg/cache"
	"sitecms/pkg/models"
	"sitecms/pkg/schema"
)

// Field is one slug-valued relation of a variant.
type Field struct {
	Name             string `json:"name"`
	TargetCollection string `json:"collection"`
}

// PreviewCollection is a collection the admin preview can redirect to.
// Redirect names the file for variants of file collections.
type PreviewCollection struct {
	Name     string `json:"name"`
	Redirect string `json:"redirect,omitempty"`
}

// Index maps variant names to their relation fields in declaration order.
type Index struct {
	Fields   map[string][]Field
	Previews []PreviewCollection
}

// Lookup returns the relation fields of a variant.
func (idx *Index) Lookup(variant string) ([]Field, bool) {
	fields, ok := idx.Fields[variant]
	return fields, ok
}

// Build scans the top-level fields of every variant. Only relations whose
// value_field is {{slug}} are indexed; sub-fields of objects and lists are
// not scanned.
func Build(cfg *models.CMSConfig) *Index {
	idx := &Index{Fields: make(map[string][]Field)}
	b := builder{}
	for _, v := range cfg.Variants() {
		var fields []Field
		for i := range v.Fields {
			if rel, ok := models.Visit[relationMatch](&v.Fields[i], b).field(); ok {
				fields = append(fields, rel)
			}
		}
		if len(fields) > 0 {
			idx.Fields[v.Name] = fields
		}
		idx.Previews = append(idx.Previews, PreviewCollection{Name: v.Collection, Redirect: v.Redirect()})
	}
	return idx
}

type relationMatch struct {
	rel Field
	ok  bool
}

func (m relationMatch) field() (Field, bool) { return m.rel, m.ok }

// builder is the index-producing FieldVisitor: every class but relation is
// a non-match.
type builder struct{}

var _ models.FieldVisitor[relationMatch] = builder{}

func (builder) VisitBoolean(*models.Field) relationMatch { return relationMatch{} }
func (builder) VisitText(*models.Field) relationMatch    { return relationMatch{} }
func (builder) VisitNumber(*models.Field) relationMatch  { return relationMatch{} }
func (builder) VisitList(*models.Field) relationMatch    { return relationMatch{} }
func (builder) VisitObject(*models.Field) relationMatch  { return relationMatch{} }
func (builder) VisitSelect(*models.Field) relationMatch  { return relationMatch{} }
func (builder) VisitUnknown(*models.Field) relationMatch { return relationMatch{} }

func (builder) VisitRelation(f *models.Field) relationMatch {
	if !f.IsSlugRelation() {
		return relationMatch{}
	}
	return relationMatch{rel: Field{Name: f.Name, TargetCollection: f.Collection}, ok: true}
}

// Holder is the process-wide relation index, built from the schema on
// first use and never rebuilt.
type Holder struct {
	lazy *cache.Lazy[*Index]
}

func NewHolder(schemas *schema.Holder) *Holder {
	return &Holder{lazy: cache.NewLazy(func(ctx context.Context) (*Index, error) {
		cfg, err := schemas.Get(ctx)
		if err != nil {
			return nil, err
		}
		return Build(cfg), nil
	})}
}

func (h *Holder) Get(ctx context.Context) (*Index, error) {
	return h.lazy.Get(ctx)
}
