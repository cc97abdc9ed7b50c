// Package rate provides a small token bucket limiter used to keep the
// upstream adapters polite with shared public endpoints.
package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter implements a token bucket. It supports blocking (Wait) and
// non-blocking (Allow) acquisition.
type Limiter struct {
	mu     sync.Mutex
	rate   float64 // tokens per second
	burst  int     // bucket capacity
	tokens float64
	last   time.Time
}

// New crea un limiter con rate peticiones/segundo y capacidad burst.
func New(rate float64, burst int) *Limiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		rate:   rate,
		burst:  burst,
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// Wait bloquea hasta que haya un token disponible o el contexto se cancele.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.waitDuration()):
		}
	}
}

// Allow consume un token si hay disponible, sin bloquear.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// SetRate actualiza el rate en caliente.
func (l *Limiter) SetRate(rate float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rate > 0 {
		l.advance(time.Now())
		l.rate = rate
	}
}

// SetBurst actualiza la capacidad del bucket.
func (l *Limiter) SetBurst(burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if burst > 0 {
		l.burst = burst
		if l.tokens > float64(burst) {
			l.tokens = float64(burst)
		}
	}
}

// advance repone tokens según el tiempo transcurrido. Caller holds mu.
func (l *Limiter) advance(now time.Time) {
	elapsed := now.Sub(l.last).Seconds()
	l.last = now
	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
}

func (l *Limiter) waitDuration() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())
	if l.tokens >= 1 {
		return 0
	}
	missing := 1 - l.tokens
	return time.Duration(missing / l.rate * float64(time.Second))
}
