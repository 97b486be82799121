package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moodjournal/backend/internal/logger"
	"moodjournal/backend/internal/metrics"
	"moodjournal/backend/internal/model"
	"moodjournal/backend/internal/mood"
)

// NoEntriesSummary is returned in place of an AI summary when the window is empty.
const NoEntriesSummary = "No entries in last 30 days."

type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (model.User, error)
}

type MoodLister interface {
	// ListMoodEntries returns the user's entries dated within [from, to], newest first.
	ListMoodEntries(ctx context.Context, userID string, from, to time.Time) ([]model.MoodEntry, error)
}

type SnapshotStore interface {
	Upsert(ctx context.Context, userID string, average float64, summary string, suggestions []string) (model.AnalysisSnapshot, error)
	Load(ctx context.Context, userID string) (model.AnalysisSnapshot, error)
}

type ChainRunner interface {
	Run(ctx context.Context, prompt Prompt, candidates []Candidate, accept func(string) bool) (Outcome, error)
}

type AnalysisResult struct {
	Average     float64  `json:"average"`
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

type Config struct {
	Models          Models
	PlanHorizonDays int
	PlanLanguage    string
}

type Deps struct {
	Users     UserFinder
	Moods     MoodLister
	Snapshots SnapshotStore
	Runner    ChainRunner
	Log       *logger.Logger
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

// Service turns mood history into a stored analysis and analyses into plans.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	users     UserFinder
	moods     MoodLister
	snapshots SnapshotStore
	runner    ChainRunner
	log       *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	analysisCandidates []Candidate
	planCandidates     []Candidate
	planHorizonDays    int
	planLanguage       string
}

func NewService(deps Deps, cfg Config) *Service {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	horizon := cfg.PlanHorizonDays
	if horizon <= 0 {
		horizon = DefaultPlanHorizonDays
	}
	language := strings.TrimSpace(cfg.PlanLanguage)
	if language == "" {
		language = DefaultPlanLanguage
	}
	return &Service{
		users:              deps.Users,
		moods:              deps.Moods,
		snapshots:          deps.Snapshots,
		runner:             deps.Runner,
		log:                log,
		metrics:            deps.Metrics,
		now:                now,
		analysisCandidates: AnalysisCandidates(cfg.Models),
		planCandidates:     PlanCandidates(cfg.Models),
		planHorizonDays:    horizon,
		planLanguage:       language,
	}
}

// Analyze computes the trailing-window average and asks the provider for a
// summary and suggestions. Once the user and window are resolved it only fails
// on storage errors; provider failures degrade to an empty summary.
func (s *Service) Analyze(ctx context.Context, email string) (AnalysisResult, error) {
	user, err := s.users.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("resolve user: %w", err)
	}

	today := s.now()
	from, to := mood.WindowBounds(today)
	entries, err := s.moods.ListMoodEntries(ctx, user.ID, from, to)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("load mood entries: %w", err)
	}
	window := mood.Window(entries, today)
	average, empty := mood.Average(window)
	if empty {
		s.metrics.ObserveAnalysis("empty")
		return AnalysisResult{Average: 0, Summary: NoEntriesSummary, Suggestions: []string{}}, nil
	}

	degraded := AnalysisResult{Average: average, Summary: "", Suggestions: []string{}}
	log := s.log.With("user_id", user.ID)
	log.Info("Analyzing mood history", "user", user.DisplayName(), "entries", len(window))

	userPrompt, err := AnalysisPrompt(window)
	if err != nil {
		log.Error("Could not build analysis prompt", "error", err.Error())
		s.metrics.ObserveAnalysis("degraded")
		return degraded, nil
	}

	outcome, err := s.runner.Run(ctx, Prompt{System: analysisSystemPrompt, User: userPrompt}, s.analysisCandidates, AcceptAnalysis)
	if err != nil {
		if errors.Is(err, ErrExhausted) {
			log.Error("Could not generate analysis from any model", "attempts", len(outcome.Attempts))
		} else {
			log.Error("Analysis generation aborted", "error", err.Error())
		}
		s.metrics.ObserveAnalysis("degraded")
		return degraded, nil
	}

	analysis := ParseAnalysis(outcome.Content).Clean()
	if !analysis.Valid() {
		s.metrics.ObserveAnalysis("degraded")
		return degraded, nil
	}

	snapshot, err := s.snapshots.Upsert(ctx, user.ID, average, analysis.Summary, analysis.Suggestions)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("save analysis: %w", err)
	}
	log.Info("Saved analysis", "model", outcome.Candidate.Model, "suggestions", len(snapshot.Suggestions))
	s.metrics.ObserveAnalysis("enriched")

	return AnalysisResult{
		Average:     average,
		Summary:     analysis.Summary,
		Suggestions: analysis.Suggestions,
	}, nil
}

// GeneratePlan renders a day-by-day plan from the user's latest analysis.
// It returns ErrNoAnalysis before any analysis exists, ErrPlanUnavailable
// when every model failed softly, and *ProviderError on a hard provider failure.
func (s *Service) GeneratePlan(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("resolve user: %w", err)
	}

	snapshot, err := s.snapshots.Load(ctx, user.ID)
	if errors.Is(err, model.ErrAnalysisNotFound) {
		return "", ErrNoAnalysis
	}
	if err != nil {
		return "", fmt.Errorf("load analysis: %w", err)
	}

	userPrompt, err := PlanPrompt(snapshot, s.planHorizonDays, s.planLanguage)
	if err != nil {
		return "", fmt.Errorf("build plan prompt: %w", err)
	}

	log := s.log.With("user_id", user.ID)
	log.Info("Generating plan", "user", user.DisplayName(), "days", s.planHorizonDays)

	outcome, err := s.runner.Run(ctx, Prompt{System: planSystemPrompt, User: userPrompt}, s.planCandidates, AcceptText)
	if errors.Is(err, ErrExhausted) {
		log.Error("Plan generation temporarily unavailable", "attempts", len(outcome.Attempts))
		s.metrics.ObservePlan("unavailable")
		return "", ErrPlanUnavailable
	}
	if err != nil {
		s.metrics.ObservePlan("failed")
		return "", err
	}

	plan := strings.TrimSpace(outcome.Content)
	log.Info("Plan generated", "model", outcome.Candidate.Model, "chars", len(plan))
	s.metrics.ObservePlan("generated")
	return plan, nil
}
