package servertimetable

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// StudentLimiter hands every student their own token bucket
type StudentLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[int64]*studentLimit
	now      func() time.Time
}

type studentLimit struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewStudentLimiter(perSecond float64, burst int) *StudentLimiter {
	return &StudentLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: map[int64]*studentLimit{},
		now:      time.Now,
	}
}

func (l *StudentLimiter) Allow(studentID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	s, ok := l.limiters[studentID]
	if !ok {
		s = &studentLimit{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[studentID] = s
	}
	s.lastSeen = now
	return s.limiter.AllowN(now, 1)
}

// Prune forgets students that have not made a request for idle
//
//	a forgotten student starts again with a full bucket which is never stricter
func (l *StudentLimiter) Prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	pruned := 0
	for id, s := range l.limiters {
		if s.lastSeen.Before(cutoff) {
			delete(l.limiters, id)
			pruned++
		}
	}
	return pruned
}

// Run prunes idle students every interval until ctx is done
func (l *StudentLimiter) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Prune(interval)
		}
	}
}

func (l *StudentLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(studentFrom(r.Context())) {
			retryAfter := 1
			if l.limit > 0 {
				retryAfter = max(1, int(math.Ceil(1/float64(l.limit))))
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
