package ingest

import "errors"

var (
	ErrTitleRequired    = errors.New("title required")
	ErrFileRequired     = errors.New("file required")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrPayloadTooLarge  = errors.New("file exceeds maximum allowed size")
)
