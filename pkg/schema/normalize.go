package schema

import (
	cmserrors "sitecms/pkg/errors"
	"sitecms/pkg/models"
)

// Normalize binds the fields of the referenced collection onto every object
// field that names a collection but declares no inline fields. Inline
// sub-fields are visited depth-first. Borrowed field lists are shared with
// the source collection, and a field that already has fields is left alone,
// so running Normalize twice is harmless.
func Normalize(cfg *models.CMSConfig) error {
	for ci := range cfg.Collections {
		col := &cfg.Collections[ci]
		for fi := range col.Files {
			file := &col.Files[fi]
			if err := normalizeFields(cfg, file.Fields, col.Name+"."+file.Name); err != nil {
				return err
			}
		}
		if err := normalizeFields(cfg, col.Fields, col.Name); err != nil {
			return err
		}
	}
	return nil
}

func normalizeFields(cfg *models.CMSConfig, fields []models.Field, owner string) error {
	for i := range fields {
		if err := normalizeField(cfg, &fields[i], owner); err != nil {
			return err
		}
	}
	return nil
}

func normalizeField(cfg *models.CMSConfig, f *models.Field, owner string) error {
	if f.Widget == models.WidgetObject && len(f.Fields) == 0 && f.Collection != "" {
		model, ok := cfg.FindCollection(f.Collection)
		if !ok {
			return cmserrors.SchemaError("unknown collection referenced as object model").
				WithContext("collection", f.Collection).
				WithContext("field", owner+"."+f.Name).
				Build()
		}
		if len(model.Fields) == 0 {
			return cmserrors.SchemaError("object model collection declares no fields").
				WithContext("collection", f.Collection).
				WithContext("field", owner+"."+f.Name).
				Build()
		}
		f.Fields = model.Fields
		// Borrowed fields are normalized as part of their own collection.
		return nil
	}

	if err := normalizeFields(cfg, f.Fields, owner+"."+f.Name); err != nil {
		return err
	}
	if f.Field != nil {
		return normalizeField(cfg, f.Field, owner+"."+f.Name)
	}
	return nil
}
