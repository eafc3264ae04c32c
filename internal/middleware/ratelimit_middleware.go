package middleware

import (
    "sync"
    "time"
)

// Rate limiter ONLY for invalid auth attempts
type InvalidAuthRateLimiter struct {
    mu       sync.Mutex
    attempts map[string]*attemptInfo
    limit    int
    window   time.Duration
    done     chan struct{}
    stopOnce sync.Once
}

type attemptInfo struct {
    count   int
    firstAt time.Time
}

// NewInvalidAuthRateLimiter allows limit failed attempts per ip within window.
func NewInvalidAuthRateLimiter(limit int, window time.Duration) *InvalidAuthRateLimiter {
    rl := &InvalidAuthRateLimiter{
        attempts: make(map[string]*attemptInfo),
        limit:    limit,
        window:   window,
        done:     make(chan struct{}),
    }
    go rl.cleanup()
    return rl
}

// Allow records a failed attempt and reports whether ip may make another one.
func (r *InvalidAuthRateLimiter) Allow(ip string) bool {
    r.mu.Lock()
    defer r.mu.Unlock()

    now := time.Now()
    info, exists := r.attempts[ip]
    if !exists {
        r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
        return true
    }

    // Reset if window expired
    if now.Sub(info.firstAt) > r.window {
        r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
        return true
    }

    if info.count >= r.limit {
        return false
    }
    info.count++
    return true
}

// Blocked reports whether ip used up its failed attempts in the current window.
func (r *InvalidAuthRateLimiter) Blocked(ip string) bool {
    r.mu.Lock()
    defer r.mu.Unlock()

    info, exists := r.attempts[ip]
    if !exists || time.Since(info.firstAt) > r.window {
        return false
    }
    return info.count >= r.limit
}

// Stop ends the cleanup goroutine.
func (r *InvalidAuthRateLimiter) Stop() {
    r.stopOnce.Do(func() { close(r.done) })
}

func (r *InvalidAuthRateLimiter) cleanup() {
    ticker := time.NewTicker(5 * r.window)
    defer ticker.Stop()
    for {
        select {
        case <-r.done:
            return
        case <-ticker.C:
            r.mu.Lock()
            now := time.Now()
            for ip, info := range r.attempts {
                if now.Sub(info.firstAt) > r.window {
                    delete(r.attempts, ip)
                }
            }
            r.mu.Unlock()
        }
    }
}
