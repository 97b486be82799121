package advice

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"moodjournal/backend/internal/model"
	"moodjournal/backend/internal/openrouter"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

type scriptedReply struct {
	content string
	err     error
}

// scriptedCompleter answers by model name and records every request it sees.
type scriptedCompleter struct {
	mu       sync.Mutex
	replies  map[string]scriptedReply
	requests []openrouter.ChatRequest
}

func newScriptedCompleter(replies map[string]scriptedReply) *scriptedCompleter {
	return &scriptedCompleter{replies: replies}
}

func (s *scriptedCompleter) Complete(_ context.Context, req openrouter.ChatRequest) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	reply, ok := s.replies[req.Model]
	if !ok {
		return nil, &openrouter.HTTPError{StatusCode: 404, Body: `{"error":"unknown model"}`}
	}
	if reply.err != nil {
		return nil, reply.err
	}
	return chatBody(reply.content), nil
}

func (s *scriptedCompleter) calledModels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.requests))
	for _, req := range s.requests {
		out = append(out, req.Model)
	}
	return out
}

func chatBody(content string) []byte {
	body, _ := json.Marshal(map[string]any{
		"id":    "gen-1",
		"model": "test",
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
	})
	return body
}

type memoryCooldown struct {
	mu      sync.Mutex
	cooling map[string]bool
	marked  []string
}

func (m *memoryCooldown) Cooling(_ context.Context, model string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cooling[model]
}

func (m *memoryCooldown) Mark(_ context.Context, model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marked = append(m.marked, model)
}

type memoryUsers map[string]model.User

func (m memoryUsers) FindUserByEmail(_ context.Context, email string) (model.User, error) {
	user, ok := m[email]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

type memoryMoods struct {
	entries []model.MoodEntry
	err     error
}

func (m *memoryMoods) ListMoodEntries(_ context.Context, userID string, from, to time.Time) ([]model.MoodEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.MoodEntry, 0, len(m.entries))
	for _, entry := range m.entries {
		if entry.UserID != userID || entry.Date.Before(from) || entry.Date.After(to) {
			continue
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

type memorySnapshots struct {
	mu      sync.Mutex
	now     func() time.Time
	byUser  map[string]model.AnalysisSnapshot
	upserts int
}

func newMemorySnapshots(now func() time.Time) *memorySnapshots {
	return &memorySnapshots{now: now, byUser: map[string]model.AnalysisSnapshot{}}
}

func (m *memorySnapshots) Upsert(_ context.Context, userID string, average float64, summary string, suggestions []string) (model.AnalysisSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	snapshot, ok := m.byUser[userID]
	if !ok {
		snapshot = model.AnalysisSnapshot{ID: "analysis-" + userID, UserID: userID}
	}
	snapshot.Average = average
	snapshot.Summary = summary
	snapshot.Suggestions = append([]string(nil), suggestions...)
	snapshot.CreatedAt = m.now()
	m.byUser[userID] = snapshot
	return snapshot, nil
}

func (m *memorySnapshots) Load(_ context.Context, userID string) (model.AnalysisSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot, ok := m.byUser[userID]
	if !ok {
		return model.AnalysisSnapshot{}, model.ErrAnalysisNotFound
	}
	return snapshot, nil
}
