package advice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"moodjournal/backend/internal/model"
)

const (
	DefaultPlanHorizonDays = 7
	DefaultPlanLanguage    = "en"

	maintainThreshold = 4.0

	analysisSystemPrompt = "Respond only with a valid JSON object, without any text outside of the JSON."
	planSystemPrompt     = "You are a supportive wellbeing coach. Output PLAIN TEXT only, no JSON, no code fences."
)

var (
	errEmptyWindow     = errors.New("mood window is empty")
	errInvalidSnapshot = errors.New("analysis snapshot has no summary or suggestions")
)

const analysisTemplate = `You are an assistant that outputs STRICT JSON only.
Analyze the mood logs (array of {"date","rating","note"}, rating 1-5, newest first).
Return ONLY a valid JSON object with exactly these two fields:
{
  "summary": "<summary in English, max 120 words, without generic phrases>",
  "suggestions": ["<three to five concrete steps, 6-14 words each, no empty strings>"]
}

Example input:
[{"date":"2025-08-02","rating":4,"note":"Walk and hanging out with friends"},
 {"date":"2025-08-01","rating":2,"note":"Stress at work, not enough sleep"}]
Example output:
{
  "summary": "Mood fluctuates; sleep and physical activity improve overall tone.",
  "suggestions": [
    "Set a fixed bedtime for 7-8 hours of sleep",
    "Take a 10-15 minute walk after work",
    "Record daily stress triggers and responses",
    "Schedule a brief social activity twice a week",
    "Practice a 5-minute breathing exercise each morning"
  ]
}
Now analyze these logs and produce JSON only:
[%s]
`

const planTemplate = `Language: %s
Horizon days: %d
Target: %s  // maintain | improve

Analysis:
average = %.1f
summary = %s
suggestions:
%s

Task:
Create a %d-day plan as PLAIN TEXT in %s, labeled "%s 1" to "%s %d".
Each day must have 3-5 actionable bullet points (<= 15 words each) and ONE short reflection question.
Constraints:
- Use the suggestions above as backbone.
- Practical, supportive tone. No medical diagnoses or alarms.
- If target=maintain: focus on sustaining good habits. If improve: gentle recovery steps.
- Output PLAIN TEXT only (no JSON, no code fences, no extra meta text).
`

type promptEntry struct {
	Date   string  `json:"date"`
	Rating int     `json:"rating"`
	Note   *string `json:"note"`
}

// AnalysisPrompt renders the JSON-mode prompt for a newest-first mood window.
func AnalysisPrompt(window []model.MoodEntry) (string, error) {
	if len(window) == 0 {
		return "", errEmptyWindow
	}
	lines := make([]string, 0, len(window))
	for _, entry := range window {
		if entry.Date.IsZero() {
			return "", fmt.Errorf("mood entry %q has no date", entry.ID)
		}
		if !model.ValidScore(entry.Score) {
			return "", fmt.Errorf("mood entry %q has score %d outside %d-%d", entry.ID, entry.Score, model.MinMoodScore, model.MaxMoodScore)
		}
		encoded, err := encodeEntry(promptEntry{
			Date:   entry.Date.UTC().Format("2006-01-02"),
			Rating: entry.Score,
			Note:   entry.Note,
		})
		if err != nil {
			return "", err
		}
		lines = append(lines, encoded)
	}
	return fmt.Sprintf(analysisTemplate, strings.Join(lines, ",\n")), nil
}

func encodeEntry(entry promptEntry) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// PlanTarget is "maintain" for averages of 4.0 and above, otherwise "improve".
func PlanTarget(average float64) string {
	if average >= maintainThreshold {
		return "maintain"
	}
	return "improve"
}

// DayLabel returns the per-day heading word for a plan language.
func DayLabel(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "sr", "hr", "bs":
		return "Dan"
	case "de":
		return "Tag"
	case "es":
		return "Día"
	default:
		return "Day"
	}
}

// PlanPrompt renders the text-mode plan prompt from a stored snapshot.
func PlanPrompt(snapshot model.AnalysisSnapshot, horizonDays int, language string) (string, error) {
	summary := strings.TrimSpace(snapshot.Summary)
	bullets := make([]string, 0, len(snapshot.Suggestions))
	for _, s := range snapshot.Suggestions {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			bullets = append(bullets, "• "+trimmed)
		}
	}
	if summary == "" || len(bullets) == 0 {
		return "", errInvalidSnapshot
	}
	if horizonDays <= 0 {
		horizonDays = DefaultPlanHorizonDays
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = DefaultPlanLanguage
	}
	label := DayLabel(language)

	return fmt.Sprintf(planTemplate,
		language, horizonDays, PlanTarget(snapshot.Average),
		snapshot.Average, summary, strings.Join(bullets, "\n"),
		horizonDays, language, label, label, horizonDays,
	), nil
}
