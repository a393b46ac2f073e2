package common

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Analysis struct {
	allowed bool          // If the request is allowed
	wait    time.Duration // The minimal time to wait before the request is allowed
}

type RateLimiter struct {
	mu           sync.Mutex
	restrictions []Restriction // Restrictions to consider
	history      []time.Time   // History of requests
	duration     time.Duration // Min duration to wait for all restrictions to be lifted
	cooldown     Stopwatch     // Started when the remote side reports a rate limit
}

func NewRateLimiter(restrictions []Restriction) *RateLimiter {
	rl := &RateLimiter{}
	// Keep only the restrictions that make sense
	for _, restriction := range restrictions {
		if restriction.Requests > 0 && restriction.Duration > 0 {
			rl.restrictions = append(rl.restrictions, restriction)
		}
	}
	// Duration
	for _, restriction := range rl.restrictions {
		if restriction.Duration > rl.duration {
			rl.duration = restriction.Duration
		}
	}
	return rl
}

// Block until the restrictions allow a new request, and record it.
// Only the context can interrupt the wait
func (rl *RateLimiter) Wait(ctx context.Context) error {

	// Give this request a unique identifier so that the logs of a delayed
	// request can be followed
	var requestId uuid.UUID
	for {
		rl.mu.Lock()
		currentTime := time.Now()
		rl.trim(currentTime)
		analysis := rl.analyse(currentTime)
		if analysis.allowed {
			// Include this request in the history as it is allowed
			rl.history = append(rl.history, currentTime)
			rl.mu.Unlock()
			return nil
		}
		rl.mu.Unlock()

		if requestId == uuid.Nil {
			requestId = uuid.New()
		}
		log.Warn().Str("request", requestId.String()).Dur("wait", analysis.wait).Msg("Request delayed by the rate limiter")
		timer := time.NewTimer(analysis.wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// The remote side reported a rate limit: hold every request
// for the provided time
func (rl *RateLimiter) ReceivedRateLimit(retryAfter time.Duration) {
	if retryAfter <= 0 {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cooldown.Timeout = retryAfter
	rl.cooldown.Start()
}

// Trim the current history, leaving only the requests
// that are young enough to be affected by at least one restriction
func (rl *RateLimiter) trim(currentTime time.Time) {
	// Find the index from which we need to keep the history.
	// Start searching at the end of the slice.
	// I assume times are stored in chronological order
	index := 0
	for i := len(rl.history) - 1; i >= 0; i-- {
		if currentTime.Sub(rl.history[i]) >= rl.duration {
			index = i + 1
			break
		}
	}
	rl.history = rl.history[index:]
}

func (rl *RateLimiter) analyse(currentTime time.Time) Analysis {

	// Merge the analyses of every restriction
	var wait time.Duration = 0
	allowed := true
	for _, restriction := range rl.restrictions {
		analysis := restriction.Analyse(rl.history, currentTime)
		allowed = allowed && analysis.allowed
		if analysis.wait > wait {
			wait = analysis.wait
		}
	}

	// A cooldown in progress blocks everything
	if stopped, remaining := rl.cooldown.Stopped(); !stopped {
		allowed = false
		if remaining > wait {
			wait = remaining
		}
	} else {
		rl.cooldown.Stop()
	}

	return Analysis{allowed, wait}
}
