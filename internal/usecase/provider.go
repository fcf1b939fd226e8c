package usecase

import (
	"context"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/cricket"
)

// Acquisition is one pipeline run's output plus how it was obtained.
// FallbackReason is non-nil exactly when Data came from the synthetic
// generator, carrying the error that forced the switch.
type Acquisition struct {
	Data           cricket.ScrapedData
	FallbackReason error
}

// Fallback reports whether the run degraded to synthetic data.
func (a Acquisition) Fallback() bool {
	return a.FallbackReason != nil
}

// CricketDataProvider produces a complete dataset on every call. Acquire has
// no error return on purpose: a provider that cannot reach its source is
// expected to degrade to synthetic data rather than fail.
type CricketDataProvider interface {
	Acquire(ctx context.Context) Acquisition
}
