package gallery

import "errors"

// Operation errors. Handlers map these to HTTP statuses; anything else is a
// 500. Ownership violations surface as ErrNotFound on purpose: a caller
// probing another admin's gallery id must not learn that it exists.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid input")
)
