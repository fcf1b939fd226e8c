package preferences

import (
	"context"
	"time"
)

// Refresh interval bounds enforced on every read and write.
const (
	MinRefreshInterval     = 30 * time.Second
	MaxRefreshInterval     = 10 * time.Minute
	DefaultRefreshInterval = 3 * time.Minute
)

// Preferences holds per-user dashboard settings.
type Preferences struct {
	AutoRefresh     bool          `json:"autoRefresh"`
	RefreshInterval time.Duration `json:"refreshInterval"`
	Notifications   bool          `json:"notifications"`
	Theme           string        `json:"theme"`
	Language        string        `json:"language"`
}

// Defaults returns the preferences applied before any user has saved a value.
func Defaults() Preferences {
	return Preferences{
		AutoRefresh:     true,
		RefreshInterval: DefaultRefreshInterval,
		Notifications:   true,
		Theme:           "auto",
		Language:        "en",
	}
}

// ValidRefreshInterval reports whether the interval sits inside the allowed
// bounds.
func ValidRefreshInterval(interval time.Duration) bool {
	return interval >= MinRefreshInterval && interval <= MaxRefreshInterval
}

type Repository interface {
	Get(ctx context.Context) (Preferences, bool, error)
	Save(ctx context.Context, prefs Preferences) error
}
