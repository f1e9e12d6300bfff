package models

// Record is a content record as stored: an untyped JSON object. Relation
// expansion overwrites slug-valued fields in place.
type Record map[string]any

// Entry identifies one stored content record.
type Entry struct {
	Collection string `json:"collection"`
	Slug       string `json:"slug"`
	Path       string `json:"path"`
}
