package newshound

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// FetchError represents a non-2xx response.
type FetchError struct {
	URL    *url.URL
	Status int
}

// Error implementation.
func (err *FetchError) Error() string {
	return fmt.Sprintf("newshound: fetch %q - %d %s",
		err.URL,
		err.Status,
		http.StatusText(err.Status),
	)
}

// StatusOf maps a fetch error to the status to record.
//
// A non-2xx response carries its HTTP status, everything else
// is a network failure and maps to the failure sentinel.
func statusOf(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Status
	}
	return StatusFetchFailed
}
