package loader

import "errors"

var (
	// ErrSourceUnavailable: no store file exists, no file was supplied, or an
	// upload key is unknown.
	ErrSourceUnavailable = errors.New("listing source unavailable")
	// ErrSourceReadFailure: the source exists but could not be opened, queried or parsed.
	ErrSourceReadFailure = errors.New("listing source could not be read")
)
