package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNoChoices is returned when a completion response carries no choices.
	ErrNoChoices = errors.New("no choices returned")
)

// StatusError is returned for any non-200 response from the inference endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status %d: %s", e.StatusCode, e.Body)
}

// rate-limit indicators seen in provider error bodies
var rateLimitMarkers = []string{
	"429",
	"ratelimitreached",
	"exceeded free tier",
	"rate limit",
	"ratelimit",
	"too many requests",
}

// IsRateLimited reports whether err signals that the provider throttled the call,
// either through a 429 status or a textual indicator in the error.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
