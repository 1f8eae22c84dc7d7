package utils

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMaskAPIKey tests API key masking for logs
func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"long key", "AIzaSy1234567890abcd", "AIza****abcd"},
		{"short key kept as-is", "abc123", "abc123"},
		{"exactly eight chars", "12345678", "12345678"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskAPIKey(tt.key))
		})
	}
}

// TestSplitAndTrim tests comma-list parsing used for GEMINI_API_KEYS
func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"plain list", "k1,k2,k3", []string{"k1", "k2", "k3"}},
		{"spaces and empties", " k1 , ,k2,, k3 ", []string{"k1", "k2", "k3"}},
		{"single value", "only", []string{"only"}},
		{"empty string", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitAndTrim(tt.input, ","))
		})
	}
}

// TestNormalizeText tests input cleanup before prompting
func TestNormalizeText(t *testing.T) {
	assert.Equal(t, `he said "hello"`, NormalizeText("  he said “hello”\n"))
	assert.Equal(t, "it's fine", NormalizeText("it’s fine"))
	assert.Equal(t, "", NormalizeText("   "))
}

// timeoutErr implements net.Error for timeout categorization tests
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

// TestCategorizeError tests transport error categorization
func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		category    ErrorCategory
		shouldRetry bool
	}{
		{"net.Error timeout", timeoutErr{}, ErrorCategoryTimeout, true},
		{"context deadline", context.DeadlineExceeded, ErrorCategoryTimeout, true},
		{"connection refused errno", syscall.ECONNREFUSED, ErrorCategoryConnection, true},
		{"dns failure", errors.New("dial tcp: lookup api.example: no such host"), ErrorCategoryDNS, true},
		{"connection reset", errors.New("read: connection reset by peer"), ErrorCategoryNetwork, true},
		{"certificate problem", errors.New("x509: certificate signed by unknown authority"), ErrorCategorySSL, false},
		{"unknown", errors.New("something odd"), ErrorCategoryUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categorized := CategorizeError(tt.err)
			assert.Equal(t, tt.category, categorized.Type)
			assert.Equal(t, tt.shouldRetry, categorized.ShouldRetry)
			assert.Equal(t, tt.err, categorized.Err)
		})
	}

	assert.Nil(t, CategorizeError(nil))
}

// TestCategorizeError_WrappedErrno tests errno detection through wrapping
func TestCategorizeError_WrappedErrno(t *testing.T) {
	wrapped := &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}
	categorized := CategorizeError(wrapped)
	assert.Equal(t, ErrorCategoryConnection, categorized.Type)
	assert.True(t, categorized.ShouldRetry)
}

// TestIsRetryableError tests the retry shortcut
func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.True(t, IsRetryableError(timeoutErr{}))
	assert.False(t, IsRetryableError(errors.New("x509: bad cert")))
}
