package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/preferences"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/logging"
)

// preferencesRules is the validation shape for an incoming preferences
// update. The interval is validated in milliseconds, matching the wire unit.
type preferencesRules struct {
	RefreshIntervalMS int64  `validate:"min=30000,max=600000"`
	Theme             string `validate:"oneof=light dark auto"`
	Language          string `validate:"required,alpha,len=2"`
}

// PreferencesService stores and validates per-user dashboard preferences.
type PreferencesService struct {
	repo     preferences.Repository
	validate *validator.Validate
	logger   *logging.Logger
}

func NewPreferencesService(repo preferences.Repository, logger *logging.Logger) (*PreferencesService, error) {
	if repo == nil {
		return nil, fmt.Errorf("%w: preferences repository is required", ErrInvalidInput)
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &PreferencesService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}, nil
}

// Get returns the stored preferences, falling back to defaults when nothing
// has been saved yet. A stored interval outside the allowed bounds (written
// by an older version, say) is clamped rather than rejected.
func (s *PreferencesService) Get(ctx context.Context) (preferences.Preferences, error) {
	ctx, span := startSpan(ctx, "PreferencesService.Get")
	defer span.End()

	prefs, found, err := s.repo.Get(ctx)
	if err != nil {
		return preferences.Preferences{}, fmt.Errorf("%w: load preferences: %v", ErrDependencyUnavailable, err)
	}
	if !found {
		return preferences.Defaults(), nil
	}

	if !preferences.ValidRefreshInterval(prefs.RefreshInterval) {
		s.logger.WarnContext(ctx, "stored refresh interval out of bounds, using default",
			"interval", prefs.RefreshInterval)
		prefs.RefreshInterval = preferences.DefaultRefreshInterval
	}
	return prefs, nil
}

// Update validates and persists a full preferences document.
func (s *PreferencesService) Update(ctx context.Context, prefs preferences.Preferences) (preferences.Preferences, error) {
	ctx, span := startSpan(ctx, "PreferencesService.Update")
	defer span.End()

	rules := preferencesRules{
		RefreshIntervalMS: prefs.RefreshInterval.Milliseconds(),
		Theme:             prefs.Theme,
		Language:          prefs.Language,
	}
	if err := s.validate.Struct(rules); err != nil {
		return preferences.Preferences{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.Save(ctx, prefs); err != nil {
		return preferences.Preferences{}, fmt.Errorf("%w: save preferences: %v", ErrDependencyUnavailable, err)
	}

	s.logger.InfoContext(ctx, "preferences updated",
		"auto_refresh", prefs.AutoRefresh,
		"refresh_interval", prefs.RefreshInterval,
		"theme", prefs.Theme)
	return prefs, nil
}
