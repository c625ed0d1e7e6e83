package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/theseus/internal/models"
)

const dailyColumns = `id, date, mood, energy, note, highlights, created_at, updated_at`

func scanDaily(row scanner) (models.DailyNote, error) {
	var n models.DailyNote
	var mood, energy sql.NullInt64
	var note, highlights sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&n.ID, &n.Date, &mood, &energy, &note, &highlights, &createdAt, &updatedAt); err != nil {
		return models.DailyNote{}, err
	}
	n.Mood = intPtr(mood)
	n.Energy = intPtr(energy)
	n.Note = strPtr(note)
	n.Highlights = strPtr(highlights)
	n.CreatedAt = parseTime(createdAt)
	n.UpdatedAt = parseTime(updatedAt)
	return n, nil
}

func (r *Repo) queryDaily(ctx context.Context, query string, args ...interface{}) ([]models.DailyNote, error) {
	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily notes: %w", err)
	}
	defer rows.Close()

	notes := []models.DailyNote{}
	for rows.Next() {
		n, err := scanDaily(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *Repo) ListDaily(ctx context.Context, limit int) ([]models.DailyNote, error) {
	query, args := limitClause("SELECT "+dailyColumns+" FROM daily_notes ORDER BY date DESC", limit, nil)
	return r.queryDaily(ctx, query, args...)
}

func (r *Repo) DailySince(ctx context.Context, from string) ([]models.DailyNote, error) {
	return r.queryDaily(ctx, "SELECT "+dailyColumns+" FROM daily_notes WHERE date >= ? ORDER BY date DESC", from)
}

func (r *Repo) GetDaily(ctx context.Context, date string) (models.DailyNote, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT "+dailyColumns+" FROM daily_notes WHERE date = ?"), date)
	n, err := scanDaily(row)
	if err != nil {
		return models.DailyNote{}, notFound("daily note for "+date, err)
	}
	return n, nil
}

func (r *Repo) CreateDaily(ctx context.Context, n models.DailyNote) (models.DailyNote, error) {
	stamp := r.stamp()
	_, err := r.insert(ctx, r.db, "daily note for "+n.Date, `
		INSERT INTO daily_notes (date, mood, energy, note, highlights, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.Date, intArg(n.Mood), intArg(n.Energy), strArg(n.Note), strArg(n.Highlights), stamp, stamp,
	)
	if err != nil {
		return models.DailyNote{}, err
	}
	return r.GetDaily(ctx, n.Date)
}

func (r *Repo) UpdateDaily(ctx context.Context, n models.DailyNote) (models.DailyNote, error) {
	err := r.exec(ctx, r.db, "daily note for "+n.Date, `
		UPDATE daily_notes SET mood = ?, energy = ?, note = ?, highlights = ?, updated_at = ?
		WHERE date = ?`,
		intArg(n.Mood), intArg(n.Energy), strArg(n.Note), strArg(n.Highlights), r.stamp(), n.Date,
	)
	if err != nil {
		return models.DailyNote{}, err
	}
	return r.GetDaily(ctx, n.Date)
}
