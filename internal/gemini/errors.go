package gemini

import (
	"fmt"
	"net/http"
	"strings"

	app_errors "translator-go/internal/errors"
	"translator-go/internal/utils"
)

// FailureKind classifies a failed remote translation attempt. The router
// decides rotation and retry behavior from this alone.
type FailureKind string

const (
	// FailureRateLimited means the credential hit its quota or rate limit.
	// Retryable with a different credential.
	FailureRateLimited FailureKind = "rate_limited"
	// FailureInvalidCredential means the credential was rejected as
	// malformed or unauthorized. Never retried within the request.
	FailureInvalidCredential FailureKind = "invalid_credential"
	// FailureTransient means a connectivity or timeout problem. Retryable
	// with the same credential a bounded number of times.
	FailureTransient FailureKind = "transient"
	// FailureMalformed means the service answered but no translation could
	// be extracted. Definitive for this credential.
	FailureMalformed FailureKind = "malformed_response"
)

// UpstreamError is the classified outcome of a failed remote attempt.
// Retryable is only meaningful for FailureTransient: some transport failures
// (TLS misconfiguration) will not be fixed by retrying the same credential.
type UpstreamError struct {
	Kind       FailureKind
	StatusCode int
	Message    string
	Retryable  bool
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gemini: %s [status %d] %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gemini: %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// classifyTransportError maps a failed round trip to an UpstreamError.
func classifyTransportError(err error) *UpstreamError {
	categorized := utils.CategorizeError(err)
	return &UpstreamError{
		Kind:       FailureTransient,
		StatusCode: categorized.StatusCode,
		Message:    categorized.Message,
		Retryable:  categorized.ShouldRetry,
		Err:        err,
	}
}

// classifyStatusError maps a non-2xx response to an UpstreamError using the
// status code and the parsed error body.
func classifyStatusError(statusCode int, body []byte) *UpstreamError {
	message := app_errors.ParseUpstreamError(body)
	lower := strings.ToLower(message)

	switch {
	case statusCode == http.StatusTooManyRequests,
		strings.Contains(lower, "quota"),
		strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "resource_exhausted"),
		strings.Contains(lower, "resource has been exhausted"):
		return &UpstreamError{Kind: FailureRateLimited, StatusCode: statusCode, Message: message}

	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return &UpstreamError{Kind: FailureInvalidCredential, StatusCode: statusCode, Message: message}

	case statusCode == http.StatusBadRequest && looksLikeKeyRejection(lower):
		return &UpstreamError{Kind: FailureInvalidCredential, StatusCode: statusCode, Message: message}

	case statusCode == http.StatusRequestTimeout, statusCode >= 500:
		return &UpstreamError{Kind: FailureTransient, StatusCode: statusCode, Message: message, Retryable: true}

	default:
		// Anything else makes the credential unusable for this request;
		// a different credential may hit a healthier backend.
		return &UpstreamError{Kind: FailureMalformed, StatusCode: statusCode, Message: message}
	}
}

// looksLikeKeyRejection detects 400 responses that are actually credential
// rejections. Gemini reports bad keys as INVALID_ARGUMENT.
func looksLikeKeyRejection(lowerMessage string) bool {
	return strings.Contains(lowerMessage, "api key") ||
		strings.Contains(lowerMessage, "api_key") ||
		strings.Contains(lowerMessage, "permission")
}
