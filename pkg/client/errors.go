package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// ErrorKind classifies API failures into the buckets callers branch on.
// RateLimited is the only transient kind; everything else is terminal for a
// given attempt.
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindRateLimited  ErrorKind = "rate_limited"
	KindPrecondition ErrorKind = "precondition_failed"
	KindValidation   ErrorKind = "validation"
	KindServer       ErrorKind = "server"
	KindNetwork      ErrorKind = "network"
)

// APIError is a failed API call
type APIError struct {
	Kind         ErrorKind
	Code         string // server error code, e.g. RATE_LIMITED
	Message      string // server message, surfaced verbatim in toasts
	StatusCode   int    // zero for network errors
	RetryAfterMs int64  // remaining cooldown, rate-limited errors only
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Kind, e.Message)
}

// errorBody mirrors the server's error response shape
type errorBody struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	RemainingMs int64  `json:"remaining_ms"`
}

func kindForStatus(status int, code string) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusForbidden:
		if code == "INSUFFICIENT_WATCH_TIME" {
			return KindPrecondition
		}
		return KindUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindServer
	}
}

// checkResponse converts a transport error or non-2xx response into an
// *APIError. A nil return means the call succeeded.
func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	if resp.IsSuccess() {
		return nil
	}

	status := resp.StatusCode()
	var body errorBody
	if jsonErr := json.Unmarshal(resp.Body(), &body); jsonErr == nil && body.Code != "" {
		return &APIError{
			Kind:         kindForStatus(status, body.Code),
			Code:         body.Code,
			Message:      body.Message,
			StatusCode:   status,
			RetryAfterMs: body.RemainingMs,
		}
	}

	return &APIError{
		Kind:       kindForStatus(status, ""),
		Message:    resp.Status(),
		StatusCode: status,
	}
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsRateLimited reports whether err is a 429 and the remaining cooldown in
// milliseconds when known
func IsRateLimited(err error) (retryAfterMs int64, ok bool) {
	if apiErr, isAPI := asAPIError(err); isAPI && apiErr.Kind == KindRateLimited {
		return apiErr.RetryAfterMs, true
	}
	return 0, false
}

// IsUnauthorized reports whether err means the caller must sign in
func IsUnauthorized(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Kind == KindUnauthorized
}

// IsNotFound reports whether the target no longer exists
func IsNotFound(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Kind == KindNotFound
}

// IsPreconditionFailed reports an insufficient-watch-time rejection
func IsPreconditionFailed(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Kind == KindPrecondition
}

// IsNetworkError reports whether the request never reached the server
func IsNetworkError(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Kind == KindNetwork
}
