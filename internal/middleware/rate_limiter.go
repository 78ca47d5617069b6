package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/romaxnova/dvf-api/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// RateLimiter limits each client IP to limit requests per window.
// Every call returns an independent limiter with its own table; a background
// goroutine drops expired entries for the life of the process.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	var (
		entries   = make(map[string]*rateEntry)
		entriesMu sync.Mutex
	)

	go purgeExpiredEntries(&entriesMu, entries, purgeInterval)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		entriesMu.Lock()
		entry, exists := entries[ip]
		if !exists {
			entry = &rateEntry{}
			entries[ip] = entry
		}
		entriesMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > limit {
			retry := int(time.Until(entry.windowEnd).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(apierror.MsgRateLimited))
			return
		}
		c.Next()
	}
}

// Periodically removes expired entries to prevent unbounded growth from IPs
// that never return.
const purgeInterval = 5 * time.Minute

func purgeExpiredEntries(mu *sync.Mutex, entries map[string]*rateEntry, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		mu.Lock()
		purged := 0
		for ip, entry := range entries {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(entries, ip)
				purged++
			}
			entry.mu.Unlock()
		}
		remaining := len(entries)
		mu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("entries_purged", purged).
				Int("entries_remaining", remaining).
				Msg("rate limiter map purged")
		}
	}
}
