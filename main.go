package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-contrib/sessions/cookie"

	"sitecms/pkg/codegen"
	"sitecms/pkg/config"
	"sitecms/pkg/handlers"
	"sitecms/pkg/loader"
	"sitecms/pkg/logfields"
	"sitecms/pkg/relations"
	"sitecms/pkg/schema"
	"sitecms/pkg/services"
)

var CLI struct {
	Repo    string `short:"r" help:"Site repository root (overrides REPO_PATH)"`
	Mode    string `short:"m" help:"Content source: build, dev or production (overrides CMS_MODE)"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
		Addr string `short:"a" help:"Listen address (overrides LISTEN_ADDR)"`
	} `cmd:"" help:"Serve the content API, preview endpoint and admin helpers"`

	Generate struct {
		Watch        bool   `short:"w" help:"Regenerate whenever the schema file changes"`
		Language     string `short:"l" help:"Type language: typescript or go (overrides TYPES_LANGUAGE)"`
		Output       string `short:"o" help:"Type module path relative to the repository (overrides TYPES_OUTPUT)"`
		SkipDefaults bool   `help:"Do not write default-content files"`
	} `cmd:"" help:"Compile the schema into type declarations and refresh default content"`

	Load struct {
		Collection string `arg:"" help:"Collection (or file) name"`
		Slug       string `arg:"" help:"Record slug"`
	} `cmd:"" help:"Load one record with its relations expanded and print it as JSON"`

	Collections struct{} `cmd:"" help:"List the collections the admin preview can redirect to"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("sitecms"),
		kong.Description("Schema-driven content tooling for Decap CMS sites."),
	)

	config.Init()
	if CLI.Repo != "" {
		config.RepoPath = CLI.Repo
	}
	if CLI.Mode != "" {
		config.CMSMode = CLI.Mode
	}
	if CLI.Verbose {
		config.LogLevel = "debug"
	}

	logger := config.NewLogger(os.Stderr, config.LogLevel, config.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch kctx.Command() {
	case "serve":
		err = runServe(ctx, logger)
	case "generate":
		err = runGenerate(ctx, logger)
	case "load <collection> <slug>":
		err = runLoad(ctx, logger)
	case "collections":
		err = runCollections(ctx)
	default:
		err = fmt.Errorf("unknown command %q", kctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", "command", kctx.Command(), logfields.Error(err))
		stop()
		os.Exit(1)
	}
}

type app struct {
	schemas   *schema.Holder
	relations *relations.Holder
	loader    *loader.Loader
	mode      loader.Mode
}

func newRuntime(logger *slog.Logger) (*app, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	mode, err := loader.ParseMode(config.CMSMode)
	if err != nil {
		return nil, err
	}

	schemas := schema.NewHolder(filepath.Join(config.RepoPath, config.SchemaPath))
	rels := relations.NewHolder(schemas)

	fetcher, err := loader.NewFetcher(loader.StrategyConfig{
		Mode:       mode,
		ContentDir: filepath.Join(config.RepoPath, config.ContentDir),
		PreviewURL: config.PreviewURL,
		GitHub: loader.GitHubConfig{
			Owner:      config.GitHubUser,
			Repo:       config.GitHubRepo,
			Branch:     config.GitHubBranch,
			APIURL:     config.GitHubAPIURL,
			ContentDir: config.ContentDir,
		},
		Credentials: loader.ContextCredentials{Fallback: loader.StaticCredentials(config.GitHubToken)},
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Content source selected", logfields.Mode(string(mode)))

	l := loader.New(fetcher, rels,
		loader.WithMaxDepth(config.MaxRelationDepth),
		loader.WithLogger(logger),
	)
	return &app{schemas: schemas, relations: rels, loader: l, mode: mode}, nil
}

func generateOptions() services.GenerateOptions {
	opts := services.GenerateOptions{
		RepoPath:     config.RepoPath,
		SchemaPath:   config.SchemaPath,
		TypesOutput:  config.TypesOutput,
		Language:     codegen.Language(config.TypesLanguage),
		GoPackage:    config.TypesPackage,
		SkipDefaults: CLI.Generate.SkipDefaults,
	}
	if CLI.Generate.Language != "" {
		opts.Language = codegen.Language(CLI.Generate.Language)
	}
	if CLI.Generate.Output != "" {
		opts.TypesOutput = CLI.Generate.Output
	}
	return opts
}

func runServe(ctx context.Context, logger *slog.Logger) error {
	rt, err := newRuntime(logger)
	if err != nil {
		return err
	}
	if config.SessionSecret == "" {
		logger.Warn("SESSION_SECRET is empty; sessions will not survive a restart")
		config.SessionSecret = fmt.Sprintf("sitecms-%d", time.Now().UnixNano())
	}

	h := &handlers.Handlers{
		Schemas:    rt.schemas,
		Relations:  rt.relations,
		Loader:     rt.loader,
		Entries:    services.NewEntryLister(filepath.Join(config.RepoPath, config.ContentDir)),
		ContentDir: filepath.Join(config.RepoPath, config.ContentDir),
		Mode:       rt.mode,
		Logger:     logger,
		Generate: func(ctx context.Context) (*services.GenerateResult, error) {
			return services.Generate(ctx, generateOptions(), logger)
		},
	}
	router := handlers.NewRouter(h, cookie.NewStore([]byte(config.SessionSecret)))

	addr := config.ListenAddr
	if CLI.Serve.Addr != "" {
		addr = CLI.Serve.Addr
	}
	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func runGenerate(ctx context.Context, logger *slog.Logger) error {
	opts := generateOptions()
	result, err := services.Generate(ctx, opts, logger)
	if err != nil {
		return err
	}
	logger.Info("Generate finished", logfields.Path(result.TypesPath), slog.Int("defaults", len(result.Defaults)))

	if !CLI.Generate.Watch {
		return nil
	}
	schemaPath := filepath.Join(opts.RepoPath, opts.SchemaPath)
	logger.Info("Watching schema", logfields.Path(schemaPath))
	err = services.WatchSchema(ctx, schemaPath, 200*time.Millisecond, func() {
		if _, err := services.Generate(ctx, opts, logger); err != nil {
			logger.Error("Regenerate failed", logfields.Error(err))
		}
	}, logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runLoad(ctx context.Context, logger *slog.Logger) error {
	rt, err := newRuntime(logger)
	if err != nil {
		return err
	}
	rec, err := rt.loader.LoadContent(ctx, CLI.Load.Collection, CLI.Load.Slug)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func runCollections(ctx context.Context) error {
	schemas := schema.NewHolder(filepath.Join(config.RepoPath, config.SchemaPath))
	idx, err := relations.NewHolder(schemas).Get(ctx)
	if err != nil {
		return err
	}
	for _, p := range idx.Previews {
		if p.Redirect != "" {
			fmt.Printf("%s\t%s\n", p.Name, p.Redirect)
			continue
		}
		fmt.Println(p.Name)
	}
	return nil
}
