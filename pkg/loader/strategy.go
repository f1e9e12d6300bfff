package loader

import (
	"fmt"
	"net/http"
	"strings"

	cmserrors "sitecms/pkg/errors"
)

// Mode is the deployment context that decides where records come from.
type Mode string

const (
	// ModeBuild reads records from the local content directory.
	ModeBuild Mode = "build"
	// ModeDev reads records from the development preview endpoint.
	ModeDev Mode = "dev"
	// ModeProduction reads records from the GitHub contents API.
	ModeProduction Mode = "production"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeBuild:
		return ModeBuild, nil
	case ModeDev, "development":
		return ModeDev, nil
	case ModeProduction, "prod":
		return ModeProduction, nil
	default:
		return "", cmserrors.ConfigError(fmt.Sprintf("unknown content mode %q", s)).Build()
	}
}

// StrategyConfig holds what every fetch strategy may need.
type StrategyConfig struct {
	Mode        Mode
	ContentDir  string
	PreviewURL  string
	GitHub      GitHubConfig
	Credentials CredentialSource
	HTTPClient  *http.Client
}

// NewFetcher picks the fetch strategy for the deployment mode. It is called
// once at startup.
func NewFetcher(cfg StrategyConfig) (Fetcher, error) {
	switch cfg.Mode {
	case ModeBuild, "":
		return LocalFetcher{ContentDir: cfg.ContentDir}, nil
	case ModeDev:
		if cfg.PreviewURL == "" {
			return nil, cmserrors.ConfigError("preview url is required in dev mode").Build()
		}
		return NewPreviewFetcher(cfg.PreviewURL, cfg.HTTPClient), nil
	case ModeProduction:
		gh := cfg.GitHub
		if gh.HTTPClient == nil {
			gh.HTTPClient = cfg.HTTPClient
		}
		f, err := NewGitHubFetcher(gh, cfg.Credentials)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, cmserrors.ConfigError(fmt.Sprintf("unknown content mode %q", cfg.Mode)).Build()
	}
}
