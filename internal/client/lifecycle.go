package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is the client request lifecycle state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePending Phase = "pending"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// DefaultTimeout is the client-side upper bound on one review request,
// independent of any server-side timeout.
const DefaultTimeout = 60 * time.Second

// User-facing error messages, one per failure class.
const (
	msgTimeout     = "Request timeout. Please try again."
	msgConnection  = "Cannot connect to server. Please ensure the backend is running."
	msgServerError = "Server error: "
	msgGeneric     = "Failed to generate review. Please try again."
)

// Submitter is the outbound call the lifecycle drives.
type Submitter interface {
	GetReview(ctx context.Context, code string) (string, error)
}

// Snapshot is a point-in-time copy of the lifecycle state, safe to render.
type Snapshot struct {
	Code         string
	Phase        Phase
	ReviewText   string
	ErrorMessage string
}

// Lifecycle is the single-session client request state machine. All triggers
// (one-shot command, interactive prompt, programmatic callers) route through
// the same guarded Submit, so no duplicate submissions can race. Each
// submission carries a token; only the latest submission's resolution may
// mutate state, so a timed-out request's late response is discarded.
type Lifecycle struct {
	submitter Submitter
	timeout   time.Duration
	onChange  func(Snapshot)

	mu           sync.Mutex
	code         string
	phase        Phase
	reviewText   string
	errorMessage string
	current      uuid.UUID
}

// NewLifecycle creates a lifecycle in the Idle phase. onChange, when non-nil,
// is called after every state transition with a snapshot.
func NewLifecycle(submitter Submitter, timeout time.Duration, onChange func(Snapshot)) *Lifecycle {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Lifecycle{
		submitter: submitter,
		timeout:   timeout,
		onChange:  onChange,
		phase:     PhaseIdle,
	}
}

// SetCode replaces the editable code buffer. Editing is allowed in any phase
// and never transitions state.
func (l *Lifecycle) SetCode(code string) {
	l.mu.Lock()
	l.code = code
	l.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (l *Lifecycle) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Lifecycle) snapshotLocked() Snapshot {
	return Snapshot{
		Code:         l.code,
		Phase:        l.phase,
		ReviewText:   l.reviewText,
		ErrorMessage: l.errorMessage,
	}
}

// Submit enters the Pending phase and issues exactly one outbound call.
// It is a no-op while a request is already pending or while the buffer is
// empty after trimming; it reports whether a submission was started.
// Re-submission from Success or Error clears the previous terminal state.
func (l *Lifecycle) Submit() bool {
	l.mu.Lock()
	if l.phase == PhasePending || strings.TrimSpace(l.code) == "" {
		l.mu.Unlock()
		return false
	}

	token := uuid.New()
	l.current = token
	l.phase = PhasePending
	l.reviewText = ""
	l.errorMessage = ""
	code := l.code
	snap := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(snap)

	go l.run(token, code)
	return true
}

func (l *Lifecycle) run(token uuid.UUID, code string) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	type outcome struct {
		reviewText string
		err        error
	}
	results := make(chan outcome, 1)

	go func() {
		reviewText, err := l.submitter.GetReview(ctx, code)
		results <- outcome{reviewText: reviewText, err: err}
	}()

	select {
	case <-ctx.Done():
		// The timeout resolves this submission now. If the call eventually
		// returns, its resolution carries a stale token state and the phase
		// guard discards it.
		l.resolveError(token, msgTimeout)
	case o := <-results:
		if o.err != nil {
			l.resolveError(token, errorMessageFor(o.err))
			return
		}
		l.resolveSuccess(token, o.reviewText)
	}
}

// resolveSuccess applies a success resolution if its token is still current.
// An empty review renders as an empty-but-successful result, not an error.
func (l *Lifecycle) resolveSuccess(token uuid.UUID, reviewText string) {
	l.mu.Lock()
	if l.current != token || l.phase != PhasePending {
		l.mu.Unlock()
		return
	}
	l.phase = PhaseSuccess
	l.reviewText = reviewText
	snap := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(snap)
}

func (l *Lifecycle) resolveError(token uuid.UUID, message string) {
	l.mu.Lock()
	if l.current != token || l.phase != PhasePending {
		l.mu.Unlock()
		return
	}
	l.phase = PhaseError
	l.errorMessage = message
	snap := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(snap)
}

func (l *Lifecycle) notify(snap Snapshot) {
	if l.onChange != nil {
		l.onChange(snap)
	}
}

// errorMessageFor distinguishes timeout, connection failure, server error,
// and generic failure.
func errorMessageFor(err error) string {
	var srvErr *ServerError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.As(err, &srvErr):
		return msgServerError + http.StatusText(srvErr.StatusCode)
	case isConnectionError(err):
		return msgConnection
	default:
		return msgGeneric
	}
}

// isConnectionError reports whether no response was received at all. The
// http client wraps dial and transport failures in *url.Error; timeouts are
// matched as context.DeadlineExceeded before this runs.
func isConnectionError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
