package respserver

import (
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedIPs caps the limiter table so untrusted clients cannot grow
// it without bound. When full, unknown IPs share the overflow limiter.
const maxTrackedIPs = 4096

// ipLimiter enforces a per-source-IP command rate.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	overflow *rate.Limiter
	limit    rate.Limit
	burst    int
}

// newIPLimiter creates a limiter allowing perSecond commands per IP.
// A nil limiter is returned when perSecond <= 0 (limiting disabled).
func newIPLimiter(perSecond int) *ipLimiter {
	if perSecond <= 0 {
		return nil
	}
	limit := rate.Limit(perSecond)
	burst := perSecond
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		overflow: rate.NewLimiter(limit, burst),
		limit:    limit,
		burst:    burst,
	}
}

// allow reports whether a command from ip may proceed now.
func (l *ipLimiter) allow(ip string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	lim, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= maxTrackedIPs {
			lim = l.overflow
		} else {
			lim = rate.NewLimiter(l.limit, l.burst)
			l.limiters[ip] = lim
		}
	}
	l.mu.Unlock()

	return lim.Allow()
}
