package gitlib

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidTimeFormat is returned when a time string cannot be parsed.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// ErrRemoteNotSupported is returned when a remote repository URI is provided.
var ErrRemoteNotSupported = errors.New("remote repositories not supported")

var scpLikeURI = regexp.MustCompile(`^[A-Za-z]\w*@[A-Za-z0-9][\w.]*:`)

// LoadRepository opens a local git repository. Returns an error for remote URIs.
func LoadRepository(uri string) (*Repository, error) {
	if strings.Contains(uri, "://") || scpLikeURI.MatchString(uri) {
		return nil, fmt.Errorf("%w: %s", ErrRemoteNotSupported, uri)
	}

	if len(uri) > 1 && uri[len(uri)-1] == os.PathSeparator {
		uri = uri[:len(uri)-1]
	}

	return OpenRepository(uri)
}

const dateTimeLayout = "2006-01-02 15:04:05"

// ParseTime parses a time string, trying in order:
// - Date only (e.g. "2024-01-01", midnight local time)
// - Date and time (e.g. "2024-01-01 15:04:05", local time)
// - RFC3339 (e.g. "2024-01-01T00:00:00Z")
// - Duration relative to now (e.g. "72h").
func ParseTime(s string) (time.Time, error) {
	parsedTime, dateOnlyErr := time.ParseInLocation(time.DateOnly, s, time.Local)
	if dateOnlyErr == nil {
		return parsedTime, nil
	}

	parsedTime, dateTimeErr := time.ParseInLocation(dateTimeLayout, s, time.Local)
	if dateTimeErr == nil {
		return parsedTime, nil
	}

	parsedTime, rfc3339Err := time.Parse(time.RFC3339, s)
	if rfc3339Err == nil {
		return parsedTime.Local(), nil
	}

	d, durationErr := time.ParseDuration(s)
	if durationErr == nil {
		return time.Now().Add(-d), nil
	}

	return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidTimeFormat, s)
}
