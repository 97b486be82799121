package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"moodjournal/backend/internal/model"
)

const moodColumns = `id, "userId", "entryDate", "moodScore", note`

type MoodRepository struct {
	db dbQuerier
}

func NewMoodRepository(db dbQuerier) *MoodRepository {
	return &MoodRepository{db: db}
}

// Page is one slice of a date-range listing.
type Page struct {
	Entries []model.MoodEntry
	Total   int
	Page    int
	Size    int
}

func dateOnly(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

func scanMoodEntry(row pgx.Row) (model.MoodEntry, error) {
	var entry model.MoodEntry
	if err := row.Scan(&entry.ID, &entry.UserID, &entry.Date, &entry.Score, &entry.Note); err != nil {
		return model.MoodEntry{}, err
	}
	entry.Date = dateOnly(entry.Date)
	return entry, nil
}

func collectMoodEntries(rows pgx.Rows) ([]model.MoodEntry, error) {
	defer rows.Close()
	entries := make([]model.MoodEntry, 0)
	for rows.Next() {
		entry, err := scanMoodEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListMoodEntries returns the user's entries dated within [from, to], newest first.
func (r *MoodRepository) ListMoodEntries(ctx context.Context, userID string, from, to time.Time) ([]model.MoodEntry, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+moodColumns+`
		 FROM "MoodEntry"
		 WHERE "userId" = $1 AND "entryDate" BETWEEN $2 AND $3
		 ORDER BY "entryDate" DESC`,
		userID,
		dateOnly(from),
		dateOnly(to),
	)
	if err != nil {
		return nil, err
	}
	return collectMoodEntries(rows)
}

// Create inserts one entry per user and day; a second entry for the same day
// returns model.ErrMoodEntryExists.
func (r *MoodRepository) Create(ctx context.Context, userID string, date time.Time, score int, note *string) (model.MoodEntry, error) {
	if !model.ValidScore(score) {
		return model.MoodEntry{}, model.ErrInvalidMoodScore
	}
	entry, err := scanMoodEntry(r.db.QueryRow(
		ctx,
		`INSERT INTO "MoodEntry" (id, "userId", "entryDate", "moodScore", note, "createdAt", "updatedAt")
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		 RETURNING `+moodColumns,
		uuid.NewString(),
		userID,
		dateOnly(date),
		score,
		note,
	))
	if isUniqueViolation(err) {
		return model.MoodEntry{}, model.ErrMoodEntryExists
	}
	return entry, err
}

// UpdateByDate overwrites score and note of the user's entry for date.
func (r *MoodRepository) UpdateByDate(ctx context.Context, userID string, date time.Time, score int, note *string) (model.MoodEntry, error) {
	if !model.ValidScore(score) {
		return model.MoodEntry{}, model.ErrInvalidMoodScore
	}
	entry, err := scanMoodEntry(r.db.QueryRow(
		ctx,
		`UPDATE "MoodEntry"
		 SET "moodScore" = $3, note = $4, "updatedAt" = NOW()
		 WHERE "userId" = $1 AND "entryDate" = $2
		 RETURNING `+moodColumns,
		userID,
		dateOnly(date),
		score,
		note,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MoodEntry{}, model.ErrMoodEntryNotFound
	}
	return entry, err
}

func (r *MoodRepository) GetByDate(ctx context.Context, userID string, date time.Time) (model.MoodEntry, error) {
	entry, err := scanMoodEntry(r.db.QueryRow(
		ctx,
		`SELECT `+moodColumns+`
		 FROM "MoodEntry"
		 WHERE "userId" = $1 AND "entryDate" = $2`,
		userID,
		dateOnly(date),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MoodEntry{}, model.ErrMoodEntryNotFound
	}
	return entry, err
}

// ListRange pages through entries dated within [start, end], oldest first.
// page is zero-based.
func (r *MoodRepository) ListRange(ctx context.Context, userID string, start, end time.Time, page, size int) (Page, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 20
	}
	result := Page{Page: page, Size: size, Entries: []model.MoodEntry{}}

	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*)
		 FROM "MoodEntry"
		 WHERE "userId" = $1 AND "entryDate" BETWEEN $2 AND $3`,
		userID,
		dateOnly(start),
		dateOnly(end),
	).Scan(&result.Total); err != nil {
		return Page{}, err
	}
	if result.Total == 0 {
		return result, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+moodColumns+`
		 FROM "MoodEntry"
		 WHERE "userId" = $1 AND "entryDate" BETWEEN $2 AND $3
		 ORDER BY "entryDate" ASC
		 LIMIT $4 OFFSET $5`,
		userID,
		dateOnly(start),
		dateOnly(end),
		size,
		page*size,
	)
	if err != nil {
		return Page{}, err
	}
	entries, err := collectMoodEntries(rows)
	if err != nil {
		return Page{}, err
	}
	result.Entries = entries
	return result, nil
}

// Delete removes an entry owned by userID. Entries of other users are
// reported as missing.
func (r *MoodRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM "MoodEntry" WHERE id = $1 AND "userId" = $2`,
		id,
		userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMoodEntryNotFound
	}
	return nil
}
