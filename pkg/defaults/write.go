package defaults

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	cmserrors "sitecms/pkg/errors"
	"sitecms/pkg/logfields"
	"sitecms/pkg/models"
)

// WriteAll synthesizes and writes the default-content file of every file
// variant. Paths are taken from each variant's file property, relative to
// root. A variant without a file property is skipped with a warning, and so
// is one whose existing file cannot be parsed, which is left untouched.
// It returns the paths written.
func WriteAll(cfg *models.CMSConfig, root string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var written []string
	for _, v := range cfg.Variants() {
		if !v.FromFile {
			continue
		}
		if v.SourcePath == "" {
			logger.Warn("File is missing a file property",
				logfields.Collection(v.Collection), logfields.Variant(v.Name))
			continue
		}

		path := filepath.Join(root, filepath.FromSlash(v.SourcePath))
		existing, err := readExisting(path)
		if err != nil {
			logger.Warn("Skipping default content for unreadable file",
				logfields.Variant(v.Name), logfields.Path(path), logfields.Error(err))
			continue
		}

		content, err := Synthesize(v, existing)
		if err != nil {
			return written, cmserrors.InternalError("failed to render default content").
				WithContext("variant", v.Name).
				WithCause(err).
				Build()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, cmserrors.FileSystemError("failed to create content directory").
				WithContext("path", path).
				WithCause(err).
				Build()
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return written, cmserrors.FileSystemError("failed to write default content").
				WithContext("path", path).
				WithCause(err).
				Build()
		}
		logger.Debug("Default content written", logfields.Variant(v.Name), logfields.Path(path))
		written = append(written, path)
	}
	return written, nil
}

func readExisting(path string) (models.Record, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(content)
}
