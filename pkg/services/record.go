package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	cmserrors "sitecms/pkg/errors"
	"sitecms/pkg/models"
)

// RecordExtensions are tried in order when resolving a record on disk.
var RecordExtensions = []string{".json", ".yaml", ".yml", ".toml"}

// DecodeRecord parses a stored record according to its file extension.
func DecodeRecord(content []byte, ext string) (models.Record, error) {
	var raw map[string]any
	switch strings.ToLower(ext) {
	case ".json", "":
		dec := json.NewDecoder(bytes.NewReader(content))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(content, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported record format: %s", ext)
	}
	if raw == nil {
		return nil, fmt.Errorf("record is not an object")
	}
	return models.Record(sanitizeMap(raw)), nil
}

// ReadRecord reads collection/slug below contentDir, trying each of
// RecordExtensions. A record that is absent, outside contentDir or
// malformed is reported as NotFound.
func ReadRecord(contentDir, collection, slug string) (models.Record, error) {
	base := SafeJoin(contentDir, collection, slug)
	if base == "" || strings.ContainsAny(collection, `/\`) || collection == ".." {
		return nil, notFound(collection, slug, errors.New("path escapes content directory"))
	}

	for _, ext := range RecordExtensions {
		path := base + ext
		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, notFound(collection, slug, err)
		}
		rec, err := DecodeRecord(content, filepath.Ext(path))
		if err != nil {
			return nil, notFound(collection, slug, fmt.Errorf("malformed record %s: %w", path, err))
		}
		return rec, nil
	}
	return nil, notFound(collection, slug, fs.ErrNotExist)
}

func notFound(collection, slug string, cause error) error {
	return cmserrors.NotFound("content record not found").
		WithContext("collection", collection).
		WithContext("slug", slug).
		WithCause(cause).
		Build()
}

func sanitizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = sanitizeValue(v)
	}
	return out
}

// sanitizeValue converts decoder-specific shapes into plain JSON values.
func sanitizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return sanitizeMap(v)
	case map[any]any:
		normalized := make(map[string]any, len(v))
		for key, inner := range v {
			normalized[fmt.Sprint(key)] = sanitizeValue(inner)
		}
		return normalized
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = sanitizeValue(v[i])
		}
		return out
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case toml.LocalDate, toml.LocalDateTime, toml.LocalTime:
		return fmt.Sprint(v)
	default:
		return v
	}
}
