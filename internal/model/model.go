package model

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrAnalysisNotFound  = errors.New("analysis not found")
	ErrMoodEntryNotFound = errors.New("mood entry not found")
	ErrMoodEntryExists   = errors.New("mood entry already exists")
	ErrInvalidMoodScore  = errors.New("mood score must be between 1 and 5")
)

const (
	MinMoodScore = 1
	MaxMoodScore = 5
)

type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

// MoodEntry is one logged day. Date carries no meaningful time of day.
type MoodEntry struct {
	ID     string
	UserID string
	Date   time.Time
	Score  int
	Note   *string
}

func ValidScore(score int) bool {
	return score >= MinMoodScore && score <= MaxMoodScore
}

// AnalysisSnapshot is the single latest AI analysis kept per user.
type AnalysisSnapshot struct {
	ID          string
	UserID      string
	Average     float64
	Summary     string
	Suggestions []string
	CreatedAt   time.Time
}
