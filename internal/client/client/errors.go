package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrResponseTooLarge is returned when a reply body exceeds the
	// client's size cap.
	ErrResponseTooLarge = errors.New("response too large")
)

// APIError is a non-2xx backend response.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s failed (HTTP %d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s failed (HTTP %d): %s", e.Op, e.StatusCode, body)
}

// Is lets 401 and 403 responses match ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	if target == ErrUnauthorized {
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}
