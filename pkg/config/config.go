package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"sitecms/pkg/codegen"
	cmserrors "sitecms/pkg/errors"
)

var (
	RepoPath   = "."
	ContentDir = "content"
	SchemaPath = "static/admin/config.yml"

	// Type generation
	TypesOutput   = "src/decap.d.ts"
	TypesLanguage = "typescript"
	TypesPackage  = "content"

	// Content source: build, dev or production
	CMSMode    = "build"
	PreviewURL = "http://localhost:8080"

	// GitHub backend
	GitHubUser    = ""
	GitHubRepo    = ""
	GitHubBranch  = "main"
	GitHubAPIURL  = "https://api.github.com"
	GitHubToken   = ""
	ListenAddr    = ":8080"
	SessionSecret = ""

	MaxRelationDepth = 0

	LogLevel  = "info"
	LogFormat = "text"
)

var OauthConf *oauth2.Config

func Init() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found or error loading it.", "error", err)
	}

	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	appURL := GetAppURL()
	redirectURL := getEnv("GITHUB_REDIRECT_URL", appURL+"/auth/callback")

	RepoPath = getEnv("REPO_PATH", ".")
	ContentDir = getEnv("CONTENT_DIR", "content")
	SchemaPath = getEnv("SCHEMA_PATH", "static/admin/config.yml")

	TypesOutput = getEnv("TYPES_OUTPUT", "src/decap.d.ts")
	TypesLanguage = strings.ToLower(getEnv("TYPES_LANGUAGE", "typescript"))
	TypesPackage = getEnv("TYPES_PACKAGE", "content")

	CMSMode = strings.ToLower(getEnv("CMS_MODE", "build"))
	PreviewURL = getEnv("PREVIEW_URL", appURL)

	GitHubUser = getEnv("PUBLIC_GITHUB_USER", "")
	GitHubRepo = getEnv("PUBLIC_GITHUB_REPO", "")
	GitHubBranch = getEnv("PUBLIC_BACKEND_BRANCH", "main")
	GitHubAPIURL = getEnv("GITHUB_API_URL", "https://api.github.com")
	GitHubToken = getEnv("GITHUB_TOKEN", "")

	ListenAddr = getEnv("LISTEN_ADDR", ":8080")
	SessionSecret = getEnv("SESSION_SECRET", "")

	if d := os.Getenv("MAX_RELATION_DEPTH"); d != "" {
		if val, err := strconv.Atoi(d); err == nil && val >= 0 {
			MaxRelationDepth = val
		}
	}

	LogLevel = getEnv("LOG_LEVEL", "info")
	LogFormat = getEnv("LOG_FORMAT", "text")

	OauthConf = &oauth2.Config{
		ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		Scopes:       []string{"repo"},
		Endpoint:     github.Endpoint,
		RedirectURL:  redirectURL,
	}
}

func GetAppURL() string {
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}
	return appURL
}

// Validate checks the settings the selected content mode depends on.
func Validate() error {
	switch CMSMode {
	case "", "build":
	case "dev", "development":
		if PreviewURL == "" {
			return cmserrors.ConfigError("PREVIEW_URL is required in dev mode").Build()
		}
	case "production", "prod":
		var missing []string
		for key, v := range map[string]string{
			"PUBLIC_GITHUB_USER":    GitHubUser,
			"PUBLIC_GITHUB_REPO":    GitHubRepo,
			"PUBLIC_BACKEND_BRANCH": GitHubBranch,
		} {
			if v == "" {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			return cmserrors.ConfigError("production mode needs a GitHub repository").
				WithContext("missing", strings.Join(missing, ",")).
				Build()
		}
	default:
		return cmserrors.ConfigError(fmt.Sprintf("unknown CMS_MODE %q", CMSMode)).Build()
	}
	if _, err := codegen.ParseLanguage(TypesLanguage); err != nil {
		return cmserrors.ConfigError(fmt.Sprintf("unknown TYPES_LANGUAGE %q", TypesLanguage)).WithCause(err).Build()
	}
	return nil
}

// NewLogger builds the process logger. format is "text" or "json".
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name onto slog; unknown names are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
