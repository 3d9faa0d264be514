package devto

import (
	"context"
	"errors"
	"time"

	"bytethoughts/internal/domain"
	"bytethoughts/internal/metrics"
	"bytethoughts/pkg/log"

	"github.com/sony/gobreaker"
)

// BreakerConfig trips the breaker once at least MinRequests were made in the
// current Interval and the failure ratio reaches FailureRatio. It stays open
// for OpenTimeout before letting a trial request through.
type BreakerConfig struct {
	Name         string
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
	OpenTimeout  time.Duration
}

// DefaultBreakerConfig suits a public API with occasional hiccups.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "devto",
		MinRequests:  5,
		FailureRatio: 0.6,
		Interval:     30 * time.Second,
		OpenTimeout:  30 * time.Second,
	}
}

func newBreaker(cfg BreakerConfig, m *metrics.Metrics) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.GlobalWarn("circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
			m.SetBreakerState(name, int(to))
		},
	})
}

// countsAsSuccess keeps answers that are the caller's concern (a missing
// article, a cancelled page load) from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var se *domain.StatusError
	if errors.As(err, &se) {
		return se.StatusCode == 404
	}
	return false
}

func translateBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.ErrCircuitOpen
	}
	return err
}
