package github

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWithHeaders(h map[string]string) *http.Response {
	resp := &http.Response{Header: make(http.Header)}
	for k, v := range h {
		resp.Header.Set(k, v)
	}
	return resp
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter(true)

	reset := time.Now().Add(30 * time.Minute).Unix()
	r.UpdateFromResponse(responseWithHeaders(map[string]string{
		HeaderRateLimit:     "5000",
		HeaderRateRemaining: "42",
		HeaderRateReset:     fmt.Sprintf("%d", reset),
	}))

	q := r.Quota()
	assert.Equal(t, 42, q.Remaining)
	assert.Equal(t, 5000, q.Limit)
	assert.Equal(t, time.Unix(reset, 0), q.ResetAt)
	assert.True(t, q.Low())
	assert.False(t, q.Critical())
}

func TestRateLimiter_IgnoresMalformedHeaders(t *testing.T) {
	r := NewRateLimiter(true)
	before := r.Quota()

	r.UpdateFromResponse(responseWithHeaders(map[string]string{
		HeaderRateRemaining: "not-a-number",
		HeaderRateReset:     "also-not",
	}))
	r.UpdateFromResponse(nil)

	assert.Equal(t, before, r.Quota())
}

func TestNewRateLimiter_QuotaAssumption(t *testing.T) {
	t.Run("authenticated assumes the full quota", func(t *testing.T) {
		q := NewRateLimiter(true).Quota()
		assert.Equal(t, AuthenticatedRateLimit, q.Limit)
		assert.Equal(t, AuthenticatedRateLimit, q.Remaining)
	})

	t.Run("anonymous assumes the small quota", func(t *testing.T) {
		q := NewRateLimiter(false).Quota()
		require.Equal(t, UnauthenticatedRateLimit, q.Limit)
		assert.False(t, q.Low(), "a fresh anonymous quota is not yet low")
	})
}
