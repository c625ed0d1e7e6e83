package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/theseus/internal/models"
)

const sleepColumns = `id, date, bedtime, wake_time, duration_hours, quality, notes, created_at, updated_at`

func scanSleep(row scanner) (models.SleepEntry, error) {
	var e models.SleepEntry
	var bedtime, wakeTime, notes sql.NullString
	var duration sql.NullFloat64
	var quality sql.NullInt64
	var createdAt, updatedAt string

	if err := row.Scan(&e.ID, &e.Date, &bedtime, &wakeTime, &duration, &quality, &notes, &createdAt, &updatedAt); err != nil {
		return models.SleepEntry{}, err
	}
	e.Bedtime = timePtr(bedtime)
	e.WakeTime = timePtr(wakeTime)
	e.DurationHours = floatPtr(duration)
	e.Quality = intPtr(quality)
	e.Notes = strPtr(notes)
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return e, nil
}

func (r *Repo) querySleep(ctx context.Context, query string, args ...interface{}) ([]models.SleepEntry, error) {
	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sleep entries: %w", err)
	}
	defer rows.Close()

	entries := []models.SleepEntry{}
	for rows.Next() {
		e, err := scanSleep(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sleep entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *Repo) ListSleep(ctx context.Context, limit int) ([]models.SleepEntry, error) {
	query, args := limitClause("SELECT "+sleepColumns+" FROM sleep_entries ORDER BY date DESC", limit, nil)
	return r.querySleep(ctx, query, args...)
}

func (r *Repo) SleepSince(ctx context.Context, from string) ([]models.SleepEntry, error) {
	return r.querySleep(ctx, "SELECT "+sleepColumns+" FROM sleep_entries WHERE date >= ? ORDER BY date DESC", from)
}

func (r *Repo) GetSleep(ctx context.Context, date string) (models.SleepEntry, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT "+sleepColumns+" FROM sleep_entries WHERE date = ?"), date)
	e, err := scanSleep(row)
	if err != nil {
		return models.SleepEntry{}, notFound("sleep entry for "+date, err)
	}
	return e, nil
}

func (r *Repo) CreateSleep(ctx context.Context, e models.SleepEntry) (models.SleepEntry, error) {
	e.DeriveDuration()
	stamp := r.stamp()

	_, err := r.insert(ctx, r.db, "sleep entry for "+e.Date, `
		INSERT INTO sleep_entries (date, bedtime, wake_time, duration_hours, quality, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Date, clockArg(e.Bedtime), clockArg(e.WakeTime), floatArg(e.DurationHours), intArg(e.Quality),
		strArg(e.Notes), stamp, stamp,
	)
	if err != nil {
		return models.SleepEntry{}, err
	}
	return r.GetSleep(ctx, e.Date)
}

func (r *Repo) UpdateSleep(ctx context.Context, e models.SleepEntry) (models.SleepEntry, error) {
	err := r.exec(ctx, r.db, "sleep entry for "+e.Date, `
		UPDATE sleep_entries SET bedtime = ?, wake_time = ?, duration_hours = ?, quality = ?, notes = ?, updated_at = ?
		WHERE date = ?`,
		clockArg(e.Bedtime), clockArg(e.WakeTime), floatArg(e.DurationHours), intArg(e.Quality), strArg(e.Notes),
		r.stamp(), e.Date,
	)
	if err != nil {
		return models.SleepEntry{}, err
	}
	return r.GetSleep(ctx, e.Date)
}
