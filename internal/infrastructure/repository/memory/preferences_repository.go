// Package memory holds in-process repository implementations, used when no
// database is configured and as lightweight stand-ins in tests.
package memory

import (
	"context"
	"sync"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/preferences"
)

// PreferencesRepository keeps the preferences document in process memory.
type PreferencesRepository struct {
	mu    sync.RWMutex
	prefs *preferences.Preferences
}

func NewPreferencesRepository() *PreferencesRepository {
	return &PreferencesRepository{}
}

func (r *PreferencesRepository) Get(context.Context) (preferences.Preferences, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.prefs == nil {
		return preferences.Preferences{}, false, nil
	}
	return *r.prefs, true, nil
}

func (r *PreferencesRepository) Save(_ context.Context, prefs preferences.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs = &prefs
	return nil
}
