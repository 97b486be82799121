package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"moodjournal/backend/internal/model"
)

// AnalysisStore keeps exactly one analysis row per user in "AiAnalysis".
type AnalysisStore struct {
	db dbQuerier
}

func NewAnalysisStore(db dbQuerier) *AnalysisStore {
	return &AnalysisStore{db: db}
}

func scanSnapshot(row pgx.Row) (model.AnalysisSnapshot, error) {
	var (
		snapshot model.AnalysisSnapshot
		raw      []byte
	)
	if err := row.Scan(&snapshot.ID, &snapshot.UserID, &snapshot.Average, &snapshot.Summary, &raw, &snapshot.CreatedAt); err != nil {
		return model.AnalysisSnapshot{}, err
	}
	snapshot.Suggestions = []string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &snapshot.Suggestions); err != nil {
			return model.AnalysisSnapshot{}, fmt.Errorf("decode suggestions: %w", err)
		}
	}
	return snapshot, nil
}

// Upsert creates the user's analysis or overwrites every mutable field of the
// existing one in a single statement. Concurrent writers resolve to the last one.
func (s *AnalysisStore) Upsert(ctx context.Context, userID string, average float64, summary string, suggestions []string) (model.AnalysisSnapshot, error) {
	if suggestions == nil {
		suggestions = []string{}
	}
	encoded, err := json.Marshal(suggestions)
	if err != nil {
		return model.AnalysisSnapshot{}, err
	}
	return scanSnapshot(s.db.QueryRow(
		ctx,
		`INSERT INTO "AiAnalysis" (id, "userId", "averageMood", summary, suggestions, "createdAt")
		 VALUES ($1, $2, $3, $4, $5::jsonb, NOW())
		 ON CONFLICT ("userId") DO UPDATE
		 SET "averageMood" = EXCLUDED."averageMood",
		     summary = EXCLUDED.summary,
		     suggestions = EXCLUDED.suggestions,
		     "createdAt" = EXCLUDED."createdAt"
		 RETURNING id, "userId", "averageMood", summary, suggestions, "createdAt"`,
		uuid.NewString(),
		userID,
		average,
		summary,
		string(encoded),
	))
}

// Load returns model.ErrAnalysisNotFound before the user's first analysis.
func (s *AnalysisStore) Load(ctx context.Context, userID string) (model.AnalysisSnapshot, error) {
	snapshot, err := scanSnapshot(s.db.QueryRow(
		ctx,
		`SELECT id, "userId", "averageMood", summary, suggestions, "createdAt"
		 FROM "AiAnalysis"
		 WHERE "userId" = $1`,
		userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.AnalysisSnapshot{}, model.ErrAnalysisNotFound
	}
	return snapshot, err
}
