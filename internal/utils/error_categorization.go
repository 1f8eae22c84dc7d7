package utils

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ErrorCategory represents the type of transport error encountered while
// calling the upstream translation service.
type ErrorCategory string

const (
	ErrorCategoryTimeout    ErrorCategory = "TIMEOUT"
	ErrorCategoryNetwork    ErrorCategory = "NETWORK"
	ErrorCategoryDNS        ErrorCategory = "DNS"
	ErrorCategoryConnection ErrorCategory = "CONNECTION"
	ErrorCategorySSL        ErrorCategory = "SSL"
	ErrorCategoryUnknown    ErrorCategory = "UNKNOWN"
)

// CategorizedError contains detailed error information with retry guidance.
// ShouldRetry governs whether the router may re-attempt the same credential.
type CategorizedError struct {
	Type        ErrorCategory
	Message     string
	StatusCode  int
	ShouldRetry bool
	Err         error
}

// CategorizeError analyzes a transport error and returns detailed categorization.
// Concrete error types are checked first; string heuristics are the fallback.
func CategorizeError(err error) *CategorizedError {
	if err == nil {
		return nil
	}

	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return &CategorizedError{
			Type:        ErrorCategoryTimeout,
			Message:     "Request timeout - the translation service took too long to respond",
			StatusCode:  http.StatusGatewayTimeout,
			ShouldRetry: true,
			Err:         err,
		}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &CategorizedError{
			Type:        ErrorCategoryConnection,
			Message:     "Connection refused - the translation service is not accepting connections",
			StatusCode:  http.StatusServiceUnavailable,
			ShouldRetry: true,
			Err:         err,
		}
	}

	errorMessage := strings.ToLower(err.Error())

	if strings.Contains(errorMessage, "timeout") ||
		strings.Contains(errorMessage, "deadline exceeded") {
		return &CategorizedError{
			Type:        ErrorCategoryTimeout,
			Message:     "Request timeout - the translation service took too long to respond",
			StatusCode:  http.StatusGatewayTimeout,
			ShouldRetry: true,
			Err:         err,
		}
	}

	if strings.Contains(errorMessage, "no such host") ||
		strings.Contains(errorMessage, "name resolution") ||
		strings.Contains(errorMessage, "server misbehaving") {
		return &CategorizedError{
			Type:        ErrorCategoryDNS,
			Message:     "DNS resolution failed - unable to resolve the translation service hostname",
			StatusCode:  http.StatusBadGateway,
			ShouldRetry: true,
			Err:         err,
		}
	}

	if strings.Contains(errorMessage, "connection refused") ||
		strings.Contains(errorMessage, "no route to host") {
		return &CategorizedError{
			Type:        ErrorCategoryConnection,
			Message:     "Connection refused - the translation service is not accepting connections",
			StatusCode:  http.StatusServiceUnavailable,
			ShouldRetry: true,
			Err:         err,
		}
	}

	// TLS failures point at configuration, not load; retrying the same
	// credential will not help.
	if strings.Contains(errorMessage, "tls") ||
		strings.Contains(errorMessage, "certificate") ||
		strings.Contains(errorMessage, "x509") {
		return &CategorizedError{
			Type:        ErrorCategorySSL,
			Message:     "SSL/TLS error - certificate or encryption issue",
			StatusCode:  http.StatusBadGateway,
			ShouldRetry: false,
			Err:         err,
		}
	}

	if strings.Contains(errorMessage, "network is unreachable") ||
		strings.Contains(errorMessage, "connection reset") ||
		strings.Contains(errorMessage, "broken pipe") ||
		strings.Contains(errorMessage, "unexpected eof") {
		return &CategorizedError{
			Type:        ErrorCategoryNetwork,
			Message:     "Network error - unable to reach the translation service",
			StatusCode:  http.StatusBadGateway,
			ShouldRetry: true,
			Err:         err,
		}
	}

	return &CategorizedError{
		Type:        ErrorCategoryUnknown,
		Message:     "Unexpected error: " + err.Error(),
		StatusCode:  http.StatusInternalServerError,
		ShouldRetry: false,
		Err:         err,
	}
}

// IsRetryableError checks if a transport error should trigger a retry with the
// same credential.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	return CategorizeError(err).ShouldRetry
}
