// Package loader fetches content records and replaces their slug-valued
// relation fields with the records they reference.
package loader

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	cmserrors "sitecms/pkg/errors"
	"sitecms/pkg/logfields"
	"sitecms/pkg/models"
	"sitecms/pkg/relations"
)

// Fetcher retrieves one raw record. Implementations differ by where the
// record lives; relation expansion does not care.
type Fetcher interface {
	FetchRecord(ctx context.Context, collection, slug string) (models.Record, error)
}

// RelationSource provides the relation index, typically a *relations.Holder.
type RelationSource interface {
	Get(ctx context.Context) (*relations.Index, error)
}

// Loader loads records and expands their relations recursively.
//
// There is no cycle detection: relations that form a cycle recurse until
// the depth limit, and forever when no limit is set.
type Loader struct {
	fetcher   Fetcher
	relations RelationSource
	maxDepth  int
	logger    *slog.Logger
}

type Option func(*Loader)

// WithMaxDepth stops expansion with an error once a chain of relations is
// deeper than n. Zero means unlimited.
func WithMaxDepth(n int) Option {
	return func(l *Loader) { l.maxDepth = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

func New(fetcher Fetcher, rels RelationSource, opts ...Option) *Loader {
	l := &Loader{fetcher: fetcher, relations: rels, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadContent fetches collection/slug and expands its relations.
func (l *Loader) LoadContent(ctx context.Context, collection, slug string) (models.Record, error) {
	return l.load(ctx, collection, slug, 0)
}

// ExpandRelations replaces, in place, every slug-valued relation field of rec
// with the referenced record. Fields are resolved in declaration order; the
// elements of one multi-valued field are loaded concurrently.
func (l *Loader) ExpandRelations(ctx context.Context, collection string, rec models.Record) error {
	return l.expand(ctx, collection, rec, 0)
}

func (l *Loader) load(ctx context.Context, collection, slug string, depth int) (models.Record, error) {
	if l.maxDepth > 0 && depth > l.maxDepth {
		return nil, cmserrors.ValidationError("relation depth limit exceeded").
			WithContext("collection", collection).
			WithContext("slug", slug).
			WithContext("max_depth", l.maxDepth).
			Build()
	}

	rec, err := l.fetcher.FetchRecord(ctx, collection, slug)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Record fetched", logfields.Collection(collection), logfields.Slug(slug), logfields.Depth(depth))

	if err := l.expand(ctx, collection, rec, depth); err != nil {
		return nil, err
	}
	return rec, nil
}

func (l *Loader) expand(ctx context.Context, collection string, rec models.Record, depth int) error {
	idx, err := l.relations.Get(ctx)
	if err != nil {
		return err
	}
	fields, ok := idx.Lookup(collection)
	if !ok {
		return nil
	}

	for _, rel := range fields {
		if err := l.expandField(ctx, collection, rec, rel, depth); err != nil {
			return fmt.Errorf("resolve %s.%s: %w", collection, rel.Name, err)
		}
	}
	return nil
}

func (l *Loader) expandField(ctx context.Context, collection string, rec models.Record, rel relations.Field, depth int) error {
	switch value := rec[rel.Name].(type) {
	case nil:
		return nil
	case string:
		if value == "" {
			return nil
		}
		child, err := l.load(ctx, rel.TargetCollection, value, depth+1)
		if err != nil {
			return err
		}
		rec[rel.Name] = child
		return nil
	case []string:
		items := make([]any, len(value))
		for i, s := range value {
			items[i] = s
		}
		return l.expandList(ctx, collection, rec, rel, items, depth)
	case []any:
		return l.expandList(ctx, collection, rec, rel, value, depth)
	default:
		l.logger.Warn("Relation value is neither a slug nor a list of slugs",
			logfields.Collection(collection), logfields.Field(rel.Name), slog.String("type", fmt.Sprintf("%T", value)))
		return nil
	}
}

func (l *Loader) expandList(ctx context.Context, collection string, rec models.Record, rel relations.Field, slugs []any, depth int) error {
	children := make([]any, len(slugs))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range slugs {
		slug, ok := item.(string)
		if !ok {
			l.logger.Warn("Relation list element is not a slug",
				logfields.Collection(collection), logfields.Field(rel.Name), slog.Int("index", i))
			children[i] = item
			continue
		}
		g.Go(func() error {
			child, err := l.load(gctx, rel.TargetCollection, slug, depth+1)
			if err != nil {
				return err
			}
			children[i] = child
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	rec[rel.Name] = children
	return nil
}
