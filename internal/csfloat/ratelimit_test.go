package csfloat

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRateLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		want    RateLimit
	}{
		{
			name: "all headers",
			headers: map[string]string{
				"X-Ratelimit-Limit":     "200",
				"X-Ratelimit-Remaining": "17",
				"X-Ratelimit-Reset":     "1718098200",
			},
			want: RateLimit{Limit: 200, Remaining: 17, ResetAt: time.Unix(1718098200, 0), Present: true},
		},
		{
			name: "rfc3339 reset",
			headers: map[string]string{
				"X-Ratelimit-Remaining": "0",
				"X-Ratelimit-Reset":     "2024-06-11T09:30:00Z",
			},
			want: RateLimit{
				Remaining: 0,
				ResetAt:   time.Date(2024, 6, 11, 9, 30, 0, 0, time.UTC),
				Present:   true,
			},
		},
		{
			name:    "no headers",
			headers: map[string]string{},
			want:    RateLimit{},
		},
		{
			name:    "malformed values ignored",
			headers: map[string]string{"X-Ratelimit-Remaining": "lots", "X-Ratelimit-Reset": "soon"},
			want:    RateLimit{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			got := parseRateLimit(h)
			assert.Equal(t, tt.want.Present, got.Present)
			assert.Equal(t, tt.want.Limit, got.Limit)
			assert.Equal(t, tt.want.Remaining, got.Remaining)
			assert.True(t, tt.want.ResetAt.Equal(got.ResetAt), "reset %v != %v", tt.want.ResetAt, got.ResetAt)
		})
	}
}

func TestRateLimit_Low(t *testing.T) {
	t.Parallel()

	assert.False(t, RateLimit{}.Low(5))
	assert.True(t, RateLimit{Remaining: 4, Present: true}.Low(5))
	assert.False(t, RateLimit{Remaining: 5, Present: true}.Low(5))
}
