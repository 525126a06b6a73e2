package types

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated  = errors.New("not logged in")
	ErrSessionExpired    = errors.New("session expired, run `mugiwara login` to sign in again")
	ErrNoSources         = errors.New("no streaming data found for this episode")
	ErrLoadFailed        = errors.New("failed to load streaming data")
	ErrNoEpisodes        = errors.New("no episodes found")
	ErrEpisodeOutOfRange = errors.New("episode out of range")
	ErrInvalidWatchID    = errors.New("invalid watch id")
)

// APIError is a failed call to one of the remote services
type APIError struct {
	Service string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Service, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Service, e.Status, e.Message)
}

// StatusCode returns the HTTP status of err when it wraps an *APIError
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
