// Package postgres holds sqlx-backed repository implementations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/preferences"
)

// The dashboard is single-tenant; preferences live in one well-known row.
const preferencesRowID = 1

type preferencesRow struct {
	ID                int64     `db:"id"`
	AutoRefresh       bool      `db:"auto_refresh"`
	RefreshIntervalMS int64     `db:"refresh_interval_ms"`
	Notifications     bool      `db:"notifications"`
	Theme             string    `db:"theme"`
	Language          string    `db:"language"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r preferencesRow) toDomain() preferences.Preferences {
	return preferences.Preferences{
		AutoRefresh:     r.AutoRefresh,
		RefreshInterval: time.Duration(r.RefreshIntervalMS) * time.Millisecond,
		Notifications:   r.Notifications,
		Theme:           r.Theme,
		Language:        r.Language,
	}
}

type PreferencesRepository struct {
	db *sqlx.DB
}

func NewPreferencesRepository(db *sqlx.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

func (r *PreferencesRepository) Get(ctx context.Context) (preferences.Preferences, bool, error) {
	const query = `
		SELECT id, auto_refresh, refresh_interval_ms, notifications, theme, language, updated_at
		FROM user_preferences
		WHERE id = $1`

	var row preferencesRow
	if err := r.db.GetContext(ctx, &row, query, preferencesRowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return preferences.Preferences{}, false, nil
		}
		return preferences.Preferences{}, false, crerr.Wrap(err, "select preferences")
	}
	return row.toDomain(), true, nil
}

func (r *PreferencesRepository) Save(ctx context.Context, prefs preferences.Preferences) error {
	const query = `
		INSERT INTO user_preferences (id, auto_refresh, refresh_interval_ms, notifications, theme, language, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			auto_refresh = EXCLUDED.auto_refresh,
			refresh_interval_ms = EXCLUDED.refresh_interval_ms,
			notifications = EXCLUDED.notifications,
			theme = EXCLUDED.theme,
			language = EXCLUDED.language,
			updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query,
		preferencesRowID,
		prefs.AutoRefresh,
		prefs.RefreshInterval.Milliseconds(),
		prefs.Notifications,
		prefs.Theme,
		prefs.Language,
	)
	if err != nil {
		return crerr.Wrap(err, "upsert preferences")
	}
	return nil
}
