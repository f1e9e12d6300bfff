package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	cmserrors "sitecms/pkg/errors"
	"sitecms/pkg/loader"
	"sitecms/pkg/logfields"
	"sitecms/pkg/relations"
	"sitecms/pkg/schema"
	"sitecms/pkg/services"
)

// GenerateFunc runs the generate step.
type GenerateFunc func(ctx context.Context) (*services.GenerateResult, error)

// Handlers holds what the HTTP surface reads content and schema through.
type Handlers struct {
	Schemas    *schema.Holder
	Relations  *relations.Holder
	Loader     *loader.Loader
	Entries    *services.EntryLister
	ContentDir string
	Mode       loader.Mode
	Generate   GenerateFunc
	Logger     *slog.Logger
}

func (h *Handlers) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// GetContent loads a record with its relations expanded. The session's
// GitHub token, if any, is used for remote reads.
func (h *Handlers) GetContent(c *gin.Context) {
	collection, slug := c.Param("collection"), c.Param("slug")
	ctx := loader.WithToken(c.Request.Context(), sessionToken(c))

	rec, err := h.Loader.LoadContent(ctx, collection, slug)
	if err != nil {
		h.respondError(c, err, logfields.Collection(collection), logfields.Slug(slug))
		return
	}
	c.JSON(http.StatusOK, rec)
}

// PreviewContent serves raw records from disk for the dev-mode preview
// fetcher. An empty path lists every entry.
func (h *Handlers) PreviewContent(c *gin.Context) {
	if h.Mode != loader.ModeDev {
		c.JSON(http.StatusNotFound, gin.H{"error": "Preview endpoint is only available in dev mode"})
		return
	}

	target := strings.Trim(c.Param("path"), "/")
	if target == "" {
		entries, err := h.Entries.Entries()
		if err != nil {
			h.respondError(c, cmserrors.FileSystemError("failed to list content").WithCause(err).Build())
			return
		}
		c.JSON(http.StatusOK, entries)
		return
	}

	if ext := path.Ext(target); slices.Contains(services.RecordExtensions, ext) {
		target = strings.TrimSuffix(target, ext)
	}
	collection, slug := path.Split(target)
	rec, err := services.ReadRecord(h.ContentDir, strings.TrimSuffix(collection, "/"), slug)
	if err != nil {
		h.respondError(c, err, logfields.Path(target))
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ListCollections returns the collections the admin preview can redirect to.
func (h *Handlers) ListCollections(c *gin.Context) {
	idx, err := h.Relations.Get(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"previewCollections": idx.Previews})
}

func (h *Handlers) GetConfig(c *gin.Context) {
	cfg, err := h.Schemas.Get(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handlers) HandleGenerate(c *gin.Context) {
	if h.Generate == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Generate is not configured"})
		return
	}
	result, err := h.Generate(c.Request.Context())
	if h.Entries != nil {
		h.Entries.Invalidate()
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "result": result})
}

func (h *Handlers) respondError(c *gin.Context, err error, attrs ...slog.Attr) {
	status := cmserrors.HTTPStatus(err)
	body := gin.H{"error": err.Error(), "category": cmserrors.GetCategory(err)}
	if ce, ok := cmserrors.AsClassified(err); ok {
		body["error"] = ce.Message()
	}

	args := []any{logfields.Error(err), slog.Int("status", status), slog.String("route", c.FullPath())}
	for _, a := range attrs {
		args = append(args, a)
	}
	if status >= http.StatusInternalServerError {
		h.logger().Error("Request failed", args...)
	} else {
		h.logger().Debug("Request rejected", args...)
	}
	c.AbortWithStatusJSON(status, body)
}

func sessionToken(c *gin.Context) string {
	token, _ := sessions.Default(c).Get(sessionTokenKey).(string)
	return token
}
