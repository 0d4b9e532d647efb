package services

import (
	"context"
	"sync"
	"time"
)

// Latest is a latest-request-wins guard. Beginning a new request cancels
// the in-flight one, and the returned check tells the caller whether its
// request is still the most recent before it applies the result. A stale
// response can never overwrite fresher state.
type Latest struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Begin starts a new request generation with the given timeout. It returns
// the request context, a check that reports whether this generation is
// still the latest, and a cancel the caller must defer.
func (l *Latest) Begin(parent context.Context, timeout time.Duration) (context.Context, func() bool, context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq

	ctx, cancel := context.WithTimeout(parent, timeout)
	l.cancel = cancel

	isLatest := func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.seq == seq
	}
	return ctx, isLatest, cancel
}

// LatestGroup keys latest-request-wins guards, so a request only supersedes
// earlier requests under the same key. Keyed by viewer, one client opening
// hotel after hotel cancels only its own stale fetches, never another
// client's.
type LatestGroup struct {
	mu     sync.Mutex
	guards map[string]*Latest
}

// Begin starts a new request generation under the given key.
func (g *LatestGroup) Begin(parent context.Context, key string, timeout time.Duration) (context.Context, func() bool, context.CancelFunc) {
	g.mu.Lock()
	if g.guards == nil {
		g.guards = make(map[string]*Latest)
	}
	l, ok := g.guards[key]
	if !ok {
		l = &Latest{}
		g.guards[key] = l
	}
	g.mu.Unlock()
	return l.Begin(parent, timeout)
}
