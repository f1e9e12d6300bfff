package services

import (
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"sitecms/pkg/models"
)

// EntryLister walks the content directory once and serves the listing from
// memory until Invalidate is called.
type EntryLister struct {
	contentDir string

	mu      sync.Mutex
	entries []models.Entry
	loaded  bool
}

func NewEntryLister(contentDir string) *EntryLister {
	return &EntryLister{contentDir: contentDir}
}

// Entries lists every stored record as collection/slug, sorted by path.
func (l *EntryLister) Entries() ([]models.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.entries, nil
	}

	var entries []models.Entry
	err := filepath.WalkDir(l.contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !slices.Contains(RecordExtensions, filepath.Ext(d.Name())) {
			return nil
		}
		rel, err := filepath.Rel(l.contentDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		collection, slug, ok := strings.Cut(rel, "/")
		if !ok {
			return nil
		}
		entries = append(entries, models.Entry{Collection: collection, Slug: slug, Path: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	l.entries = entries
	l.loaded = true
	return l.entries, nil
}

func (l *EntryLister) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = false
	l.entries = nil
}
