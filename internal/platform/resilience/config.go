package resilience

import "time"

// BreakerConfig tunes a provider circuit breaker. A disabled breaker lets
// every request through.
type BreakerConfig struct {
	Enabled          bool          `validate:"-"`
	FailureThreshold int           `validate:"gte=0"`
	OpenTimeout      time.Duration `validate:"gte=0"`
	HalfOpenMaxReq   int           `validate:"gte=0"`
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxReq:   1,
	}
}

// Normalize fills zero values with the defaults.
func (c BreakerConfig) Normalize() BreakerConfig {
	defaults := DefaultBreakerConfig()
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return c
}

// RetryPolicy is a linear backoff: attempt n waits (n+1)*BaseDelay.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: time.Second}
}
