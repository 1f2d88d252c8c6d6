package v1

import "errors"

var (
	ErrComputeCtx     = errors.New("compute body missing in context")
	ErrMethodRequired = errors.New("method is required")
	ErrContentType    = errors.New("Content-Type must be application/json")
)
