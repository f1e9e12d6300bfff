package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"sitecms/pkg/codegen"
	"sitecms/pkg/defaults"
	cmserrors "sitecms/pkg/errors"
	"sitecms/pkg/logfields"
	"sitecms/pkg/schema"
)

// GenerateOptions configures one run of the generate step.
type GenerateOptions struct {
	// RepoPath is the site root; the other paths are relative to it.
	RepoPath    string
	SchemaPath  string
	TypesOutput string
	Language    codegen.Language
	GoPackage   string
	// SkipDefaults disables writing default-content files.
	SkipDefaults bool
}

// GenerateResult lists what a generate run wrote.
type GenerateResult struct {
	TypesPath    string   `json:"types"`
	Declarations int      `json:"declarations"`
	Defaults     []string `json:"defaults"`
}

// Generate reads the schema fresh, writes the type module and refreshes
// default-content files. A schema error aborts before anything is written.
func Generate(ctx context.Context, opts GenerateOptions, logger *slog.Logger) (*GenerateResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, err := schema.Load(filepath.Join(opts.RepoPath, opts.SchemaPath))
	if err != nil {
		return nil, err
	}
	module, err := codegen.Compile(cfg)
	if err != nil {
		return nil, err
	}
	renderer, err := codegen.NewRenderer(opts.Language, opts.GoPackage)
	if err != nil {
		return nil, cmserrors.WrapError(err, cmserrors.CategoryConfig, "invalid type language").Build()
	}
	out, err := renderer.Render(module)
	if err != nil {
		return nil, cmserrors.InternalError("failed to render type module").WithCause(err).Build()
	}

	typesPath := filepath.Join(opts.RepoPath, opts.TypesOutput)
	if err := os.MkdirAll(filepath.Dir(typesPath), 0o755); err != nil {
		return nil, cmserrors.FileSystemError("failed to create types directory").
			WithContext("path", typesPath).WithCause(err).Build()
	}
	if err := os.WriteFile(typesPath, out, 0o644); err != nil {
		return nil, cmserrors.FileSystemError("failed to write type module").
			WithContext("path", typesPath).WithCause(err).Build()
	}
	logger.Info("Type module written", logfields.Path(typesPath), slog.Int("declarations", len(module.Declarations)))

	result := &GenerateResult{TypesPath: typesPath, Declarations: len(module.Declarations)}
	if opts.SkipDefaults {
		return result, nil
	}
	written, err := defaults.WriteAll(cfg, opts.RepoPath, logger)
	result.Defaults = written
	if err != nil {
		return result, err
	}
	logger.Info("Default content refreshed", slog.Int("files", len(written)))
	return result, nil
}
