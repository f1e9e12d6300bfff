package logfields

import "log/slog"

// Canonical log field names shared by all packages.
const (
	KeyCollection = "collection"
	KeySlug       = "slug"
	KeyVariant    = "variant"
	KeyField      = "field"
	KeyPath       = "path"
	KeyMode       = "mode"
	KeyDepth      = "depth"
	KeyError      = "error"
)

func Collection(name string) slog.Attr { return slog.String(KeyCollection, name) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Variant(name string) slog.Attr    { return slog.String(KeyVariant, name) }
func Field(name string) slog.Attr      { return slog.String(KeyField, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Mode(m string) slog.Attr          { return slog.String(KeyMode, m) }
func Depth(d int) slog.Attr            { return slog.Int(KeyDepth, d) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
