package loader

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/oauth2"

	cmserrors "sitecms/pkg/errors"
	"sitecms/pkg/models"
	"sitecms/pkg/services"
)

// LocalFetcher reads records from the content directory on disk.
type LocalFetcher struct {
	ContentDir string
}

func (f LocalFetcher) FetchRecord(ctx context.Context, collection, slug string) (models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return services.ReadRecord(f.ContentDir, collection, slug)
}

// PreviewFetcher reads records from a development server's preview endpoint,
// which serves the same files LocalFetcher reads.
type PreviewFetcher struct {
	baseURL string
	client  *http.Client
}

func NewPreviewFetcher(baseURL string, client *http.Client) *PreviewFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &PreviewFetcher{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (f *PreviewFetcher) FetchRecord(ctx context.Context, collection, slug string) (models.Record, error) {
	endpoint := f.baseURL + "/__content__/" + escapePath(collection+"/"+slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, cmserrors.TransportError("failed to create preview request").
			WithContext("url", endpoint).WithCause(err).Build()
	}
	req.Header.Set("Accept", "application/json")

	body, err := doRequest(f.client, req, collection, slug)
	if err != nil {
		return nil, err
	}
	rec, err := services.DecodeRecord(body, ".json")
	if err != nil {
		return nil, cmserrors.TransportError("preview endpoint returned malformed record").
			WithContext("url", endpoint).WithCause(err).Build()
	}
	return rec, nil
}

// GitHubConfig locates content in a GitHub repository.
type GitHubConfig struct {
	Owner  string
	Repo   string
	Branch string
	// APIURL defaults to https://api.github.com.
	APIURL string
	// ContentDir is the repository directory holding records, default "content".
	ContentDir string
	// HTTPClient is the base client the bearer transport wraps.
	HTTPClient *http.Client
}

// GitHubFetcher reads records through the repository contents API using the
// caller's token.
type GitHubFetcher struct {
	cfg   GitHubConfig
	creds CredentialSource
}

func NewGitHubFetcher(cfg GitHubConfig, creds CredentialSource) (*GitHubFetcher, error) {
	for name, v := range map[string]string{"owner": cfg.Owner, "repo": cfg.Repo, "branch": cfg.Branch} {
		if v == "" {
			return nil, cmserrors.ConfigError("github content source is not configured").
				WithContext("missing", name).Build()
		}
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.github.com"
	}
	cfg.APIURL = strings.TrimSuffix(cfg.APIURL, "/")
	if cfg.ContentDir == "" {
		cfg.ContentDir = "content"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if creds == nil {
		creds = ContextCredentials{}
	}
	return &GitHubFetcher{cfg: cfg, creds: creds}, nil
}

type githubContent struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

func (f *GitHubFetcher) FetchRecord(ctx context.Context, collection, slug string) (models.Record, error) {
	token, ok := f.creds.Token(ctx)
	if !ok {
		return nil, cmserrors.Unauthenticated("not logged in").
			WithContext("collection", collection).
			WithContext("slug", slug).
			Build()
	}

	contentPath := path.Join(f.cfg.ContentDir, collection, slug+".json")
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		f.cfg.APIURL, url.PathEscape(f.cfg.Owner), url.PathEscape(f.cfg.Repo),
		escapePath(contentPath), url.QueryEscape(f.cfg.Branch))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, cmserrors.TransportError("failed to create github request").
			WithContext("url", endpoint).WithCause(err).Build()
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "sitecms")

	clientCtx := context.WithValue(ctx, oauth2.HTTPClient, f.cfg.HTTPClient)
	client := oauth2.NewClient(clientCtx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))

	body, err := doRequest(client, req, collection, slug)
	if err != nil {
		return nil, err
	}

	var payload githubContent
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, cmserrors.TransportError("failed to decode github response").
			WithContext("url", endpoint).WithCause(err).Build()
	}
	if payload.Encoding != "" && payload.Encoding != "base64" {
		return nil, cmserrors.TransportError("unsupported github content encoding").
			WithContext("encoding", payload.Encoding).Build()
	}
	raw, err := base64.StdEncoding.DecodeString(strings.NewReplacer("\n", "", "\r", "").Replace(payload.Content))
	if err != nil {
		return nil, cmserrors.TransportError("failed to decode github content").
			WithContext("path", contentPath).WithCause(err).Build()
	}
	rec, err := services.DecodeRecord(raw, ".json")
	if err != nil {
		return nil, cmserrors.NotFound("content record is malformed").
			WithContext("collection", collection).
			WithContext("slug", slug).
			WithCause(err).
			Build()
	}
	return rec, nil
}

// doRequest executes req and returns the body of a successful response.
func doRequest(client *http.Client, req *http.Request, collection, slug string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, cmserrors.TransportError("content request failed").
			WithContext("url", req.URL.Redacted()).WithCause(err).Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		limited, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		builder := cmserrors.TransportError(fmt.Sprintf("content API error: %s", resp.Status))
		switch resp.StatusCode {
		case http.StatusNotFound:
			builder = cmserrors.NotFound("content record not found")
		case http.StatusUnauthorized, http.StatusForbidden:
			builder = cmserrors.Unauthenticated("credential rejected")
		}
		return nil, builder.
			WithContext("collection", collection).
			WithContext("slug", slug).
			WithContext("status", resp.StatusCode).
			WithContext("response", strings.ReplaceAll(string(limited), "\n", " ")).
			Build()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cmserrors.TransportError("failed to read content response").
			WithContext("url", req.URL.Redacted()).WithCause(err).Build()
	}
	return body, nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
