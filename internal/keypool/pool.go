// Package keypool manages the ordered pool of remote API credentials and the
// request-scoped rotation state used by the translation router.
package keypool

import (
	"errors"

	"translator-go/internal/utils"

	"github.com/sirupsen/logrus"
)

// ErrExhausted signals that every credential has been disqualified for the
// current request. It is an internal routing signal, never surfaced to users.
var ErrExhausted = errors.New("keypool: all credentials exhausted")

// Credential status values, tracked per request.
const (
	StatusAvailable = "available"
	StatusExhausted = "exhausted"
	StatusInvalid   = "invalid"
)

// Credential is one remote API secret. The value is immutable; only the
// per-request status recorded by a Session changes.
type Credential struct {
	ID    int
	Value string
}

// Preview returns the masked form of the credential for logging.
func (c *Credential) Preview() string {
	return utils.MaskAPIKey(c.Value)
}

// Pool holds the ordered credential list built from configuration at process
// start. It is immutable and safe to share across concurrent requests; all
// mutable rotation state lives in per-request Sessions.
type Pool struct {
	credentials []Credential
}

// NewPool creates a pool from the configured key values, preserving order.
// An empty slice is a valid pool and means no remote capability.
func NewPool(values []string) *Pool {
	credentials := make([]Credential, 0, len(values))
	for i, value := range values {
		credentials = append(credentials, Credential{ID: i, Value: value})
	}
	return &Pool{credentials: credentials}
}

// Size returns the number of credentials in the pool.
func (p *Pool) Size() int {
	return len(p.credentials)
}

// Empty reports whether the pool has no credentials.
func (p *Pool) Empty() bool {
	return len(p.credentials) == 0
}

// Session creates a fresh request-scoped view of the pool. Exhaustion marks
// from previous requests never carry over: rate limits are time-windowed, so
// every request starts with the full pool.
func (p *Pool) Session() *Session {
	return &Session{
		pool:   p,
		status: make(map[int]string, len(p.credentials)),
	}
}

// Session tracks which credentials have been disqualified within a single
// translation request. It is a per-call value and must not be shared between
// requests; that keeps one caller's rate-limit marks from starving another's.
type Session struct {
	pool   *Pool
	status map[int]string
}

// NextAvailable returns the first credential not yet marked this request,
// following the pool's configured order. Returns ErrExhausted when none
// remain.
func (s *Session) NextAvailable() (*Credential, error) {
	for i := range s.pool.credentials {
		cred := &s.pool.credentials[i]
		if _, marked := s.status[cred.ID]; !marked {
			return cred, nil
		}
	}
	return nil, ErrExhausted
}

// MarkExhausted disqualifies a credential for the remainder of this request.
// The status string records why, for logging only.
func (s *Session) MarkExhausted(cred *Credential, status string) {
	if cred == nil {
		return
	}
	if status == "" {
		status = StatusExhausted
	}
	s.status[cred.ID] = status

	logrus.WithFields(logrus.Fields{
		"keyID":  cred.ID,
		"key":    cred.Preview(),
		"status": status,
	}).Debug("Credential disqualified for this request")
}

// Status returns the per-request status of a credential.
func (s *Session) Status(cred *Credential) string {
	if status, marked := s.status[cred.ID]; marked {
		return status
	}
	return StatusAvailable
}

// Remaining returns how many credentials are still usable in this request.
func (s *Session) Remaining() int {
	return len(s.pool.credentials) - len(s.status)
}
