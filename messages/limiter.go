package messages

import (
	"strings"
	"time"

	"github.com/evilsocket/islazy/log"

	"github.com/namepage/namepage/models"
)

const (
	DefaultWindow = 60 * time.Second
	DefaultQuota  = 5
)

// LimitStore persists rate limit entries. UpdateLimit must run update and
// persist the entry atomically with respect to other calls for the same key,
// saving it only when update returns true.
type LimitStore interface {
	UpdateLimit(key string, update func(entry *models.RateLimit, found bool) bool) (bool, error)
}

// Limiter is a fixed window limiter keyed by sender address.
type Limiter struct {
	Window time.Duration
	Quota  int
	Clock  func() time.Time
	store  LimitStore
}

func NewLimiter(store LimitStore, window time.Duration, quota int) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if quota <= 0 {
		quota = DefaultQuota
	}
	return &Limiter{
		Window: window,
		Quota:  quota,
		Clock:  time.Now,
		store:  store,
	}
}

// Check counts an attempt of address and returns false once the quota of
// the current window is used up. Store errors are returned as is.
func (l *Limiter) Check(address string) (bool, error) {
	key := strings.ToLower(strings.TrimSpace(address))
	now := l.Clock()

	allowed, err := l.store.UpdateLimit(key, func(entry *models.RateLimit, found bool) bool {
		if !found || now.After(entry.ResetAt) {
			entry.Count = 1
			entry.ResetAt = now.Add(l.Window)
			return true
		} else if entry.Count < l.Quota {
			entry.Count++
			return true
		}
		return false
	})
	if err != nil {
		return false, err
	}

	if !allowed {
		log.Debug("rate limit exceeded for %s", key)
	}
	return allowed, nil
}

// Allow is Check without the error: if the store is unavailable the attempt
// is let through.
func (l *Limiter) Allow(address string) bool {
	allowed, err := l.Check(address)
	if err != nil {
		log.Error("rate limit store error for %s, allowing: %v", address, err)
		return true
	}
	return allowed
}
