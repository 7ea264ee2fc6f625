// Package security tracks failed authentication attempts per client.
package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Policy configures when a client is locked out.
type Policy struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
	MaxClients  int
}

// DefaultPolicy locks a client out for five minutes after five failures
// within fifteen minutes.
var DefaultPolicy = Policy{
	MaxAttempts: 5,
	Window:      15 * time.Minute,
	Lockout:     5 * time.Minute,
	MaxClients:  10000,
}

const sweepInterval = 60 * time.Second

type failureRecord struct {
	attempts  int
	firstFail time.Time
	lockedAt  time.Time
}

// Lockout blocks clients that keep presenting bad credentials. Clients are
// identified by an opaque string (the client IP in the HTTP layer), stored
// only as a hash.
type Lockout struct {
	mu      sync.Mutex
	records map[string]*failureRecord
	policy  Policy
	log     *logrus.Logger
	now     func() time.Time
}

// NewLockout creates a Lockout and starts a background sweep that stops when
// ctx is cancelled.
func NewLockout(ctx context.Context, log *logrus.Logger, policy Policy) *Lockout {
	l := &Lockout{
		records: make(map[string]*failureRecord),
		policy:  policy,
		log:     log,
		now:     time.Now,
	}
	go l.sweepLoop(ctx)

	return l
}

func clientHash(client string) string {
	h := sha256.Sum256([]byte(client))
	return hex.EncodeToString(h[:])
}

// Blocked reports whether client is currently locked out.
func (l *Lockout) Blocked(client string) bool {
	ch := clientHash(client)

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[ch]
	if !ok || rec.lockedAt.IsZero() {
		return false
	}

	return l.now().Sub(rec.lockedAt) < l.policy.Lockout
}

// Fail records a failed attempt by client.
func (l *Lockout) Fail(client string) {
	ch := clientHash(client)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[ch]
	if !ok || now.Sub(rec.firstFail) > l.policy.Window {
		l.records[ch] = &failureRecord{attempts: 1, firstFail: now}
		if l.policy.MaxAttempts <= 1 {
			l.records[ch].lockedAt = now
		}
		return
	}

	rec.attempts++
	if rec.attempts >= l.policy.MaxAttempts && rec.lockedAt.IsZero() {
		rec.lockedAt = now
		l.log.WithField("client_hash", ch[:16]+"...").Warn("client locked out after repeated auth failures")
	}
}

// Reset clears the record of client after a successful attempt.
func (l *Lockout) Reset(client string) {
	ch := clientHash(client)

	l.mu.Lock()
	delete(l.records, ch)
	l.mu.Unlock()
}

func (l *Lockout) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep drops expired records and, above MaxClients, the oldest ones.
func (l *Lockout) sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, rec := range l.records {
		expired := now.Sub(rec.firstFail) >= l.policy.Window
		if !rec.lockedAt.IsZero() {
			expired = now.Sub(rec.lockedAt) >= l.policy.Lockout
		}

		if expired {
			delete(l.records, k)
		}
	}

	excess := len(l.records) - l.policy.MaxClients
	if l.policy.MaxClients <= 0 || excess <= 0 {
		return
	}

	keys := make([]string, 0, len(l.records))
	for k := range l.records {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b string) int {
		return l.records[a].firstFail.Compare(l.records[b].firstFail)
	})

	for _, k := range keys[:excess] {
		delete(l.records, k)
	}
}
