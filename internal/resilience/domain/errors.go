package domain

import "errors"

var (
	ErrMalformedInput    = errors.New("malformed input")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrUnknownDomain     = errors.New("unknown domain")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrInvalidScoreMode  = errors.New("invalid score mode")
	ErrInvalidSelection  = errors.New("invalid row selection")
	ErrGroupNotFound     = errors.New("group not found")
	ErrCacheMiss         = errors.New("score cache miss")
)
