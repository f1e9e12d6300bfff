// Package errors provides the classified error type used across sitecms.
//
// Every failure surfaced by the schema compiler and the content loader
// carries a category so callers can tell a broken schema from a missing
// record, a missing credential or a failed remote call:
//
//	err := errors.NotFound("content record not found").
//		WithContext("collection", "authors").
//		WithContext("slug", "jane").
//		WithCause(readErr).
//		Build()
//
// Nothing in this module retries; the category only drives presentation.
package errors
