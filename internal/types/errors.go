package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrJobRunning       = errors.New("a job for this domain is already running")
	ErrJobNotFound      = errors.New("no job entry for key")
	ErrJobNotRunning    = errors.New("job is not running")
	ErrMissingParameter = errors.New("required job parameter missing")
	ErrNoDate           = errors.New("record has no parseable date")
	ErrUnresolvableURL  = errors.New("article URL cannot be resolved")
)

// FetchError wraps a failure to retrieve a page. Per-article fetch errors
// are logged and skipped; navigation errors on a listing page end the job.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractError wraps a structured-extraction failure. Malformed model
// output is an extraction failure, never a crash.
type ExtractError struct {
	Stage string // "listing" or "detail"
	URL   string
	Err   error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("%s extraction error for %s: %v", e.Stage, e.URL, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }
