package countrybed

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrFetch        = errors.New("fetch failed")
	ErrParse        = errors.New("malformed payload")
	ErrCorruptCache = errors.New("corrupt cache")
	ErrNotFound     = errors.New("not found")
	ErrEmptyDataset = errors.New("empty dataset")
	ErrFlagArt      = errors.New("flag art generation failed")
)

// FetchError reports a transport failure or a non-2xx response.
// Body holds the response body verbatim for diagnostics.
type FetchError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: status %d: %s", e.URL, e.StatusCode, body)
}

func (e *FetchError) Unwrap() error        { return e.Err }
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// ParseError reports a payload that does not have the country shape.
type ParseError struct {
	Source string // URL or cache key
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error        { return e.Err }
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// CorruptCacheError reports a cache entry that should exist but is
// missing or unreadable.
type CorruptCacheError struct {
	Key string
	Err error
}

func (e *CorruptCacheError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("corrupt cache: entry %q is missing", e.Key)
	}
	return fmt.Sprintf("corrupt cache: entry %q: %v", e.Key, e.Err)
}

func (e *CorruptCacheError) Unwrap() error        { return e.Err }
func (e *CorruptCacheError) Is(target error) bool { return target == ErrCorruptCache }

// NotFoundError reports a name or capital query without a match.
// Suggestions are close names and may be empty.
type NotFoundError struct {
	Kind        string // "name" or "capital"
	Query       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no country with %s %q", e.Kind, e.Query)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// EmptyDatasetError reports an operation that needs at least one country.
type EmptyDatasetError struct {
	Op string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("%s: dataset has no usable countries", e.Op)
}

func (e *EmptyDatasetError) Is(target error) bool { return target == ErrEmptyDataset }

// FlagArtError aborts the flag art step. The base dataset is unaffected.
type FlagArtError struct {
	Country string
	Err     error
}

func (e *FlagArtError) Error() string {
	if e.Country == "" {
		return fmt.Sprintf("flag art: %v", e.Err)
	}
	return fmt.Sprintf("flag art for %s: %v", e.Country, e.Err)
}

func (e *FlagArtError) Unwrap() error        { return e.Err }
func (e *FlagArtError) Is(target error) bool { return target == ErrFlagArt }
