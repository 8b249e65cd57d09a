package csfloat

import (
	"net/http"
	"strconv"
	"time"
)

// Rate limit response headers.
const (
	headerRateLimit     = "X-Ratelimit-Limit"
	headerRateRemaining = "X-Ratelimit-Remaining"
	headerRateReset     = "X-Ratelimit-Reset"
)

// RateLimit is the quota state the API reports on each response. The client
// only records it; it never delays or refuses a call because of it.
type RateLimit struct {
	Limit     int64
	Remaining int64
	ResetAt   time.Time
	// Present is false when the response carried no rate limit headers.
	Present bool
}

// parseRateLimit reads the rate limit headers. Missing or malformed values
// are left at zero.
func parseRateLimit(h http.Header) RateLimit {
	var rl RateLimit

	if v := h.Get(headerRateRemaining); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			rl.Remaining = n
			rl.Present = true
		}
	}
	if v := h.Get(headerRateLimit); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			rl.Limit = n
			rl.Present = true
		}
	}
	if v := h.Get(headerRateReset); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			rl.ResetAt = time.Unix(n, 0)
		} else if t, err := time.Parse(time.RFC3339, v); err == nil {
			rl.ResetAt = t
		}
	}

	return rl
}

// Low reports whether fewer than threshold calls remain.
func (r RateLimit) Low(threshold int64) bool {
	return r.Present && r.Remaining < threshold
}
