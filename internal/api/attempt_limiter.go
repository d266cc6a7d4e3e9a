package api

import (
	"strings"
	"sync"
	"time"

	"github.com/artemis-health/artemis/internal/services"
	"github.com/gofiber/fiber/v2"
)

const (
	loginAttemptsLimit  = 8
	loginAttemptsWindow = 15 * time.Minute
)

// failureWindow counts failed attempts per key inside a sliding window.
type failureWindow struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	failures map[string][]time.Time
}

func newFailureWindow(limit int, window time.Duration) *failureWindow {
	return &failureWindow{
		limit:    limit,
		window:   window,
		failures: make(map[string][]time.Time),
	}
}

func (fw *failureWindow) blocked(key string, now time.Time) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return len(fw.recentLocked(key, now)) >= fw.limit
}

func (fw *failureWindow) recordFailure(key string, now time.Time) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.failures[key] = append(fw.recentLocked(key, now), now)
}

func (fw *failureWindow) clear(key string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	delete(fw.failures, key)
}

// recentLocked drops expired timestamps in place and forgets empty keys.
func (fw *failureWindow) recentLocked(key string, now time.Time) []time.Time {
	stamps := fw.failures[key]
	cutoff := now.Add(-fw.window)

	kept := stamps[:0]
	for _, stamp := range stamps {
		if stamp.After(cutoff) {
			kept = append(kept, stamp)
		}
	}
	if len(kept) == 0 {
		delete(fw.failures, key)
		return nil
	}
	fw.failures[key] = kept
	return kept
}

func clientKey(c *fiber.Ctx) string {
	if ip := strings.TrimSpace(c.IP()); ip != "" {
		return ip
	}
	return "unknown"
}

// loginLimiterKey scopes failures to one client and one account.
func loginLimiterKey(c *fiber.Ctx, email string) string {
	return clientKey(c) + "|" + services.NormalizeAuthEmail(email)
}
