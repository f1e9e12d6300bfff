package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"sitecms/pkg/config"
	"sitecms/pkg/loader"
	"sitecms/pkg/models"
	"sitecms/pkg/relations"
	"sitecms/pkg/schema"
	"sitecms/pkg/services"
)

const handlerSchema = `
collections:
  - name: pages
    files:
      - name: home
        file: content/pages/home.json
        fields:
          - {name: title, widget: string}
          - {name: hero, widget: relation, collection: authors, value_field: "{{slug}}"}
  - name: authors
    folder: content/authors
    fields:
      - {name: name, widget: string}
`

func init() {
	gin.SetMode(gin.TestMode)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestHandlers(t *testing.T, mode loader.Mode, fetcher loader.Fetcher) *Handlers {
	t.Helper()
	contentDir := t.TempDir()
	writeFile(t, filepath.Join(contentDir, "authors", "jane.json"), `{"name":"Jane"}`)
	writeFile(t, filepath.Join(contentDir, "home", "home.json"), `{"title":"Home","hero":"jane"}`)

	cfg, err := schema.Parse([]byte(handlerSchema))
	require.NoError(t, err)
	schemas := schema.Static(cfg)
	rels := relations.NewHolder(schemas)
	if fetcher == nil {
		fetcher = loader.LocalFetcher{ContentDir: contentDir}
	}
	return &Handlers{
		Schemas:    schemas,
		Relations:  rels,
		Loader:     loader.New(fetcher, rels),
		Entries:    services.NewEntryLister(contentDir),
		ContentDir: contentDir,
		Mode:       mode,
	}
}

func serve(t *testing.T, h *Handlers, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := NewRouter(h, cookie.NewStore([]byte("test-secret")))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetContentExpandsRelations(t *testing.T) {
	h := newTestHandlers(t, loader.ModeBuild, nil)

	w := serve(t, h, http.MethodGet, "/api/content/home/home")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"title":"Home","hero":{"name":"Jane"}}`, w.Body.String())
}

func TestGetContentNotFound(t *testing.T) {
	h := newTestHandlers(t, loader.ModeBuild, nil)

	w := serve(t, h, http.MethodGet, "/api/content/authors/ghost")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w)["category"])
}

func TestGetContentWithoutSessionInProduction(t *testing.T) {
	f, err := loader.NewGitHubFetcher(loader.GitHubConfig{
		Owner: "acme", Repo: "site", Branch: "main", APIURL: "http://127.0.0.1:1",
	}, loader.ContextCredentials{})
	require.NoError(t, err)
	h := newTestHandlers(t, loader.ModeProduction, f)

	w := serve(t, h, http.MethodGet, "/api/content/authors/jane")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth", decode(t, w)["category"])
}

func TestPreviewContent(t *testing.T) {
	h := newTestHandlers(t, loader.ModeDev, nil)

	w := serve(t, h, http.MethodGet, "/__content__/authors/jane")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Jane"}`, w.Body.String())

	w = serve(t, h, http.MethodGet, "/__content__/authors/jane.json")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(t, h, http.MethodGet, "/__content__/authors/ghost")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, h, http.MethodGet, "/__content__/")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "authors", entries[0].Collection)
	assert.Equal(t, "jane", entries[0].Slug)
}

func TestPreviewContentServedByPreviewFetcher(t *testing.T) {
	h := newTestHandlers(t, loader.ModeDev, nil)
	srv := httptest.NewServer(NewRouter(h, cookie.NewStore([]byte("test-secret"))))
	defer srv.Close()

	rec, err := loader.NewPreviewFetcher(srv.URL, srv.Client()).FetchRecord(context.Background(), "authors", "jane")
	require.NoError(t, err)
	assert.Equal(t, models.Record{"name": "Jane"}, rec)
}

func TestPreviewContentOutsideDevMode(t *testing.T) {
	h := newTestHandlers(t, loader.ModeBuild, nil)

	w := serve(t, h, http.MethodGet, "/__content__/authors/jane")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCollections(t *testing.T) {
	h := newTestHandlers(t, loader.ModeBuild, nil)

	w := serve(t, h, http.MethodGet, "/admin/collections")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"previewCollections":[{"name":"pages","redirect":"home"},{"name":"authors"}]}`, w.Body.String())
}

func TestGetConfig(t *testing.T) {
	h := newTestHandlers(t, loader.ModeBuild, nil)

	w := serve(t, h, http.MethodGet, "/api/config")
	require.Equal(t, http.StatusOK, w.Code)
	collections, ok := decode(t, w)["collections"].([]any)
	require.True(t, ok)
	assert.Len(t, collections, 2)
}

func TestGenerateRequiresSession(t *testing.T) {
	called := false
	h := newTestHandlers(t, loader.ModeBuild, nil)
	h.Generate = func(context.Context) (*services.GenerateResult, error) {
		called = true
		return &services.GenerateResult{}, nil
	}

	w := serve(t, h, http.MethodPost, "/api/generate")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestGithubLoginSetsState(t *testing.T) {
	config.OauthConf = &oauth2.Config{
		ClientID: "client",
		Endpoint: oauth2.Endpoint{AuthURL: "https://github.example/login/oauth/authorize"},
	}
	h := newTestHandlers(t, loader.ModeBuild, nil)

	w := serve(t, h, http.MethodGet, "/login/github")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "https://github.example/login/oauth/authorize?")
	assert.Contains(t, w.Header().Get("Location"), "state=")
	assert.NotEmpty(t, w.Header().Get("Set-Cookie"))
}

func TestAuthCallbackRejectsUnknownState(t *testing.T) {
	h := newTestHandlers(t, loader.ModeBuild, nil)

	w := serve(t, h, http.MethodGet, "/auth/callback?code=abc&state=forged")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewContentKeepsDottedSlugs(t *testing.T) {
	h := newTestHandlers(t, loader.ModeDev, nil)
	writeFile(t, filepath.Join(h.ContentDir, "authors", "release-1.0.json"), `{"name":"Release"}`)
	writeFile(t, filepath.Join(h.ContentDir, "authors", "release-1.json"), `{"name":"Other"}`)

	w := serve(t, h, http.MethodGet, "/__content__/authors/release-1.0")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Release"}`, w.Body.String())

	w = serve(t, h, http.MethodGet, "/__content__/authors/release-1.0.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Release"}`, w.Body.String())

	srv := httptest.NewServer(NewRouter(h, cookie.NewStore([]byte("test-secret"))))
	defer srv.Close()
	remote, err := loader.NewPreviewFetcher(srv.URL, srv.Client()).FetchRecord(context.Background(), "authors", "release-1.0")
	require.NoError(t, err)
	local, err := loader.LocalFetcher{ContentDir: h.ContentDir}.FetchRecord(context.Background(), "authors", "release-1.0")
	require.NoError(t, err)
	assert.Equal(t, local, remote)
	assert.Equal(t, models.Record{"name": "Release"}, remote)
}
