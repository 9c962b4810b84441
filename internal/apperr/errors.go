// Package apperr holds sentinel errors shared across service boundaries.
package apperr

import "errors"

// ErrNotFound marks a recipe path that is neither on disk nor in the
// catalog. Handlers translate it to a 404.
var ErrNotFound = errors.New("not found")
