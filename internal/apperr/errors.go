package apperr

import "errors"

var (
	ErrRootNotFound    = errors.New("root not found")
	ErrUnknownStrategy = errors.New("unknown extractor strategy")
	ErrPathEscapesRoot = errors.New("path escapes root")
)
