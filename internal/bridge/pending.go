package bridge

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultPendingTTL bounds how long an unanswered continuation is retained.
const DefaultPendingTTL = 120 * time.Second

// ErrRejected reports a continuation settled with a nonzero status.
var ErrRejected = errors.New("bridge call rejected")

// Continuation holds the resolve/reject pair for one in-flight call.
type Continuation struct {
	Resolve func(result string)
	Reject  func(result string)
}

type pendingEntry struct {
	cont    Continuation
	created time.Time
}

// Pending correlates sequence ids with continuations. Settling is idempotent:
// the first Settle for a seq wins and later ones are silent no-ops. Entries
// older than the TTL are swept on insert so unanswered calls cannot accumulate
// forever.
type Pending struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]pendingEntry
	now     func() time.Time
}

// NewPending returns an empty table. A non-positive ttl falls back to
// DefaultPendingTTL.
func NewPending(ttl time.Duration) *Pending {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &Pending{
		ttl:     ttl,
		entries: make(map[string]pendingEntry),
		now:     time.Now,
	}
}

// Add stores a continuation under seq, replacing any stale entry.
func (p *Pending) Add(seq string, cont Continuation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweepLocked(p.now())
	p.entries[seq] = pendingEntry{cont: cont, created: p.now()}
}

// Settle resolves (status zero) or rejects the continuation addressed by seq.
// Unknown or already settled ids return false without error.
func (p *Pending) Settle(seq string, status int, result string) bool {
	p.mu.Lock()
	entry, ok := p.entries[seq]
	if ok {
		delete(p.entries, seq)
	}
	p.mu.Unlock()

	if !ok {
		return false
	}
	if status == 0 {
		if entry.cont.Resolve != nil {
			entry.cont.Resolve(result)
		}
	} else {
		if entry.cont.Reject != nil {
			entry.cont.Reject(result)
		}
	}
	return true
}

// Len reports the number of unsettled continuations.
func (p *Pending) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Await registers a continuation for seq and blocks until it settles or the
// context ends. Used by callers that need a synchronous reply, like the chrome
// adapter handshake.
func (p *Pending) Await(ctx context.Context, seq string) (string, error) {
	type outcome struct {
		result string
		err    error
	}
	ch := make(chan outcome, 1)

	p.Add(seq, Continuation{
		Resolve: func(result string) { ch <- outcome{result: result} },
		Reject:  func(result string) { ch <- outcome{result: result, err: ErrRejected} },
	})

	select {
	case <-ctx.Done():
		// Drop the continuation so a late reply is a no-op.
		p.mu.Lock()
		delete(p.entries, seq)
		p.mu.Unlock()
		return "", ctx.Err()
	case out := <-ch:
		return out.result, out.err
	}
}

// sweepLocked drops entries past the retention window. Callers hold p.mu.
func (p *Pending) sweepLocked(now time.Time) {
	for seq, entry := range p.entries {
		if now.Sub(entry.created) > p.ttl {
			delete(p.entries, seq)
		}
	}
}
