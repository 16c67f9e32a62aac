package transport

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// StopToken is a per-sender cancellation handle. Each Send invocation gets
// its own token, so one in-flight sender can be stopped without touching
// the others.
type StopToken struct {
	once sync.Once
	done chan struct{}
}

func newStopToken() *StopToken {
	return &StopToken{done: make(chan struct{})}
}

// Stop requests cancellation. Stopping an already-stopped token is a no-op.
func (t *StopToken) Stop() {
	t.once.Do(func() {
		close(t.done)
	})
}

// Stopped reports whether the token has been stopped.
func (t *StopToken) Stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the token is stopped, for use in
// select loops.
func (t *StopToken) Done() <-chan struct{} {
	return t.done
}

// StopRegistry tracks the stop tokens of active senders so a caller can
// cancel every one of them with a single broadcast.
//
// StopAll latches: tokens handed out after a broadcast come back already
// stopped, so a sender started after "stop sending" performs zero
// transmissions, exactly like the process-wide flag it replaces. Reset
// clears the latch and is a deliberate addition over the legacy surface,
// which offered no way to un-stop short of a process restart.
type StopRegistry struct {
	mu     sync.Mutex
	halted bool
	tokens map[*StopToken]struct{}
}

// NewStopRegistry creates an empty, un-halted registry.
func NewStopRegistry() *StopRegistry {
	return &StopRegistry{
		tokens: make(map[*StopToken]struct{}),
	}
}

// NewToken creates and registers a token for one sender. While the
// registry is halted the returned token is already stopped and is not
// tracked.
func (r *StopRegistry) NewToken() *StopToken {
	token := newStopToken()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.halted {
		token.Stop()
		return token
	}

	r.tokens[token] = struct{}{}
	return token
}

// Release deregisters a token once its sender has finished. Releasing an
// unknown or already-released token is a no-op.
func (r *StopRegistry) Release(token *StopToken) {
	if token == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
}

// StopAll stops every active sender and latches the registry so that
// senders started afterwards observe the signal before their first
// transmission. Idempotent.
func (r *StopRegistry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.halted = true
	for token := range r.tokens {
		token.Stop()
	}

	logrus.WithFields(logrus.Fields{
		"function": "StopAll",
		"stopped":  len(r.tokens),
	}).Debug("Stop signal broadcast to active senders")
}

// Reset clears the halted latch so future senders run normally. Tokens
// stopped by an earlier broadcast stay stopped. Idempotent.
func (r *StopRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.halted = false
}

// Halted reports whether StopAll has latched the registry.
func (r *StopRegistry) Halted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.halted
}

// Active returns the number of registered, unreleased tokens.
func (r *StopRegistry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
