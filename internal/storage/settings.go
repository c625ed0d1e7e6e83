package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
)

const upsertSetting = `
	INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func scanSetting(row scanner) (models.Setting, error) {
	var s models.Setting
	var value sql.NullString
	var updatedAt string
	if err := row.Scan(&s.Key, &value, &updatedAt); err != nil {
		return models.Setting{}, err
	}
	s.Value = strPtr(value)
	s.UpdatedAt = parseTime(updatedAt)
	return s, nil
}

// ListSettings returns only stored settings; defaults are merged by callers
func (r *Repo) ListSettings(ctx context.Context) ([]models.Setting, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value, updated_at FROM settings ORDER BY key ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := []models.Setting{}
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *Repo) GetSetting(ctx context.Context, key string) (models.Setting, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT key, value, updated_at FROM settings WHERE key = ?"), key)
	s, err := scanSetting(row)
	if err != nil {
		return models.Setting{}, notFound(fmt.Sprintf("setting %q", key), err)
	}
	return s, nil
}

func (r *Repo) PutSetting(ctx context.Context, key string, value *string) (models.Setting, error) {
	if _, err := r.db.ExecContext(ctx, r.q(upsertSetting), key, strArg(value), r.stamp()); err != nil {
		return models.Setting{}, fmt.Errorf("failed to save setting %q: %w", key, err)
	}
	return r.GetSetting(ctx, key)
}

func (r *Repo) PutSettings(ctx context.Context, values map[string]*string) error {
	stamp := r.stamp()
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for key, value := range values {
			if _, err := tx.ExecContext(ctx, r.q(upsertSetting), key, strArg(value), stamp); err != nil {
				return fmt.Errorf("failed to save setting %q: %w", key, err)
			}
		}
		return nil
	})
}

// LoadSettings returns the typed settings view with defaults applied
func (r *Repo) LoadSettings(ctx context.Context) (models.Settings, error) {
	stored, err := r.ListSettings(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	data := make(map[string]string, len(stored))
	for _, s := range stored {
		if s.Value != nil {
			data[s.Key] = *s.Value
		}
	}
	return models.MapToSettings(data), nil
}

// SeedDefaultSettings stores any default setting that has no row yet
func (r *Repo) SeedDefaultSettings(ctx context.Context) error {
	stamp := r.stamp()
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for key, value := range constants.DefaultSettings() {
			_, err := tx.ExecContext(ctx,
				r.q("INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT (key) DO NOTHING"),
				key, value, stamp)
			if err != nil {
				return fmt.Errorf("failed to seed setting %q: %w", key, err)
			}
		}
		return nil
	})
}
