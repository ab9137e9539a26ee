package splitter

import "errors"

var (
	ErrMalformedDocument     = errors.New("document is not a YAML mapping")
	ErrNoPathsInDocument     = errors.New("no paths section found in the document")
	ErrNoSource              = errors.New("source document path is required")
	ErrRemainingPathRequired = errors.New("remaining output path is required for URL sources")
	ErrRenderingDocument     = errors.New("error rendering document")
)
