package catalog

import "errors"

var (
	ErrNotFound     = errors.New("catalog: not found")
	ErrCopyBorrowed = errors.New("catalog: copy is borrowed")
)
