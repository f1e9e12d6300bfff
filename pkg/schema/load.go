// Package schema loads the CMS collection schema and normalizes it so that
// every object field exposes concrete sub-fields.
package schema

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"sitecms/pkg/cache"
	cmserrors "sitecms/pkg/errors"
	"sitecms/pkg/models"
)

// Parse decodes a schema document. It does not normalize it.
func Parse(content []byte) (*models.CMSConfig, error) {
	var cfg models.CMSConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, cmserrors.WrapError(err, cmserrors.CategorySchema, "invalid schema document").Build()
	}
	return &cfg, nil
}

// Load reads, parses and normalizes the schema file at path.
func Load(path string) (*models.CMSConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, cmserrors.FileSystemError("failed to read schema").
			WithContext("path", path).
			WithCause(err).
			Build()
	}
	cfg, err := Parse(content)
	if err != nil {
		return nil, err
	}
	if err := Normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Holder is the process-wide normalized schema, read on first use.
type Holder struct {
	lazy *cache.Lazy[*models.CMSConfig]
}

// NewHolder returns a holder that loads the schema file at path on first use.
func NewHolder(path string) *Holder {
	return NewHolderFunc(func(context.Context) (*models.CMSConfig, error) {
		return Load(path)
	})
}

// NewHolderFunc returns a holder backed by an arbitrary loader; the loader
// must return a normalized schema.
func NewHolderFunc(load func(ctx context.Context) (*models.CMSConfig, error)) *Holder {
	return &Holder{lazy: cache.NewLazy(load)}
}

// Static wraps an already normalized schema.
func Static(cfg *models.CMSConfig) *Holder {
	return NewHolderFunc(func(context.Context) (*models.CMSConfig, error) { return cfg, nil })
}

func (h *Holder) Get(ctx context.Context) (*models.CMSConfig, error) {
	return h.lazy.Get(ctx)
}
