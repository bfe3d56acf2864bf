package database

import "errors"

// ErrNotFound marks lookups that matched no row. Callers translate it to a
// client-facing not-found response; it never indicates a system fault.
var ErrNotFound = errors.New("not found")
