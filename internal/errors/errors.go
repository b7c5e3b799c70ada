package gerr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

var (
	ErrUnauthenticated       = errors.New("Not logged in. Visit /auth/google first.")
	ErrMalformedResponse     = errors.New("invalid response from GA4")
	ErrPropertyNotConfigured = errors.New("Missing/invalid GA4_PROPERTY_ID. Use the numeric GA4 Property ID (digits).")
	ErrInvalidState          = errors.New("invalid oauth state")
	ErrRateLimited           = errors.New("too many requests, please slow down")
)

// UpstreamError is a failed exchange with the GA4 Data API.
// Status is zero when no HTTP response was received.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("GA4 request failed: %s", e.Message)
	}
	return fmt.Sprintf("GA4 REST HTTP %d: %s", e.Status, e.Message)
}

// HTTPStatus maps an error to the status code returned to the dashboard.
// Only a missing credential and throttling are client errors; everything
// else is a 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// ErrResponse is the JSON error body: {"error": "..."}.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	ErrorText string `json:"error"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// NewErrResponse builds the error body for err.
func NewErrResponse(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: HTTPStatus(err),
		ErrorText:      err.Error(),
	}
}

// Render writes err as a JSON error response.
func Render(w http.ResponseWriter, r *http.Request, err error) {
	_ = render.Render(w, r, NewErrResponse(err))
}
