package domain

import "time"

// Rate-limit warning thresholds, in remaining requests.
const (
	// QuotaLowWater triggers a Warning event.
	QuotaLowWater = 50

	// QuotaCriticalWater triggers a critical Warning event.
	QuotaCriticalWater = 10
)

// RateQuota is read-only rate-limit telemetry decoded from the remote
// host's response headers.
type RateQuota struct {
	// Remaining is the number of requests left in the current window.
	Remaining int `json:"remaining"`

	// Limit is the total per-window request budget.
	Limit int `json:"limit"`

	// ResetAt is when the window resets.
	ResetAt time.Time `json:"resetAt"`
}

// Low reports whether the remaining quota is below the warning threshold.
func (q RateQuota) Low() bool {
	return q.Limit > 0 && q.Remaining < QuotaLowWater
}

// Critical reports whether the remaining quota is nearly exhausted.
func (q RateQuota) Critical() bool {
	return q.Limit > 0 && q.Remaining < QuotaCriticalWater
}
