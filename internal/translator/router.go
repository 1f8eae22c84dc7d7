// Package translator implements the request router that drives a translation
// to completion: remote attempts with credential rotation first, the locally
// resident model as fallback, one generic error when both paths fail.
package translator

import (
	"context"
	"errors"
	"time"

	app_errors "translator-go/internal/errors"
	"translator-go/internal/gemini"
	"translator-go/internal/history"
	"translator-go/internal/keypool"
	"translator-go/internal/types"

	"github.com/sirupsen/logrus"
)

// Engine identifies which translation path produced a result.
type Engine string

const (
	EngineRemote Engine = "remote"
	EngineLocal  Engine = "local"
)

// RemoteTranslator is the remote path contract. *gemini.Client satisfies it.
type RemoteTranslator interface {
	Translate(ctx context.Context, req gemini.Request, cred *keypool.Credential) (string, error)
}

// LocalTranslator is the fallback path contract. *localmodel.Engine
// satisfies it.
type LocalTranslator interface {
	Translate(text string, direction types.Direction) (string, error)
}

// Result is a completed translation. CredentialID is set only for remote
// results and names the pool slot that succeeded.
type Result struct {
	TranslatedText string
	Engine         Engine
	CredentialID   *int
}

// Router owns the remote-then-local decision sequence. It is stateless across
// requests; all rotation bookkeeping lives in a per-request pool session. The
// conversation history belongs to the caller: prior turns arrive as a value
// slice and the router never reads or writes the history store.
type Router struct {
	pool                *keypool.Pool
	remote              RemoteTranslator
	local               LocalTranslator
	maxTransientRetries int
}

// NewRouter creates the translation router.
func NewRouter(
	pool *keypool.Pool,
	remote RemoteTranslator,
	local LocalTranslator,
	cfg types.TranslateConfig,
) *Router {
	return &Router{
		pool:                pool,
		remote:              remote,
		local:               local,
		maxTransientRetries: cfg.MaxTransientRetries,
	}
}

// Translate drives one request to completion. The remote path is tried with
// every credential the pool will yield; only when all are disqualified does
// the local fallback run. turns is the caller-supplied conversation context,
// oldest first; every credential sees the same slice. Per-credential failures
// are absorbed here and never surfaced; the only terminal error is
// ErrTranslationUnavailable.
func (r *Router) Translate(ctx context.Context, sessionID, text string, direction types.Direction, turns []history.Entry) (*Result, error) {
	start := time.Now()

	req := gemini.Request{Text: text, Direction: direction, Context: turns}

	if result, err := r.tryRemote(ctx, sessionID, req); err == nil {
		logrus.WithFields(logrus.Fields{
			"session":  sessionID,
			"engine":   result.Engine,
			"keyID":    *result.CredentialID,
			"duration": time.Since(start),
		}).Info("Translation served remotely")
		return result, nil
	} else if ctxErr := ctx.Err(); ctxErr != nil {
		// Caller gave up; do not burn the local path on a dead request.
		return nil, ctxErr
	}

	result, err := r.fallbackLocal(sessionID, text, direction)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"session":  sessionID,
		"engine":   result.Engine,
		"duration": time.Since(start),
	}).Info("Translation served by local fallback")
	return result, nil
}

// errRemotePathFailed is the internal signal that the remote path is done for
// this request. It never leaves the router.
var errRemotePathFailed = errors.New("remote path failed for all credentials")

// tryRemote walks the credential pool in order. Each credential gets one
// attempt, plus bounded retries for retryable transient failures. Any other
// failure disqualifies the credential for the remainder of the request.
func (r *Router) tryRemote(ctx context.Context, sessionID string, req gemini.Request) (*Result, error) {
	session := r.pool.Session()

	for {
		cred, err := session.NextAvailable()
		if err != nil {
			if r.pool.Size() > 0 {
				logrus.WithFields(logrus.Fields{
					"session": sessionID,
					"tried":   r.pool.Size(),
				}).Warn("All credentials disqualified, falling back to local model")
			}
			return nil, errRemotePathFailed
		}

		translated, attemptErr := r.attemptWithRetries(ctx, req, cred)
		if attemptErr == nil {
			id := cred.ID
			return &Result{TranslatedText: translated, Engine: EngineRemote, CredentialID: &id}, nil
		}
		if ctx.Err() != nil {
			return nil, errRemotePathFailed
		}

		session.MarkExhausted(cred, statusFor(attemptErr))
	}
}

// attemptWithRetries performs one credential's attempts: the initial call and
// up to maxTransientRetries re-attempts, but only for transient failures the
// transport says are worth retrying.
func (r *Router) attemptWithRetries(ctx context.Context, req gemini.Request, cred *keypool.Credential) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxTransientRetries; attempt++ {
		translated, err := r.remote.Translate(ctx, req, cred)
		if err == nil {
			return translated, nil
		}
		lastErr = err

		var upstreamErr *gemini.UpstreamError
		if !errors.As(err, &upstreamErr) {
			break
		}
		if upstreamErr.Kind != gemini.FailureTransient || !upstreamErr.Retryable {
			break
		}
		if ctx.Err() != nil {
			break
		}
		logrus.WithFields(logrus.Fields{
			"key":     cred.Preview(),
			"attempt": attempt + 1,
			"error":   upstreamErr.Message,
		}).Debug("Retrying transient failure with same credential")
	}
	return "", lastErr
}

// statusFor maps a classified failure to the per-request credential status.
func statusFor(err error) string {
	var upstreamErr *gemini.UpstreamError
	if errors.As(err, &upstreamErr) && upstreamErr.Kind == gemini.FailureInvalidCredential {
		return keypool.StatusInvalid
	}
	return keypool.StatusExhausted
}

// fallbackLocal runs the locally resident model. Its failure is terminal: the
// caller receives the generic unavailability error with no internal detail.
func (r *Router) fallbackLocal(sessionID, text string, direction types.Direction) (*Result, error) {
	translated, err := r.local.Translate(text, direction)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"session":   sessionID,
			"direction": direction,
			"error":     err,
		}).Error("Local fallback failed, translation unavailable")
		return nil, app_errors.ErrTranslationUnavailable
	}
	return &Result{TranslatedText: translated, Engine: EngineLocal}, nil
}
