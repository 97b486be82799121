package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodjournal/backend/internal/advice"
	"moodjournal/backend/internal/model"
)

func TestAnalyzeReturnsResult(t *testing.T) {
	srv := newTestServer(t)
	srv.advice.analysis = advice.AnalysisResult{Average: 3.5, Summary: "Steady.", Suggestions: []string{"Walk"}}

	rec := performRequest(t, srv.router, http.MethodPost, "/api/ai/analyze", signToken(t, testEmail, nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSONMap(t, rec)
	assert.Equal(t, 3.5, body["average"])
	assert.Equal(t, "Steady.", body["summary"])
	assert.Equal(t, []any{"Walk"}, body["suggestions"])
}

func TestGeneratePlanReturnsText(t *testing.T) {
	srv := newTestServer(t)
	srv.advice.plan = "Day 1\n- Walk"

	rec := performRequest(t, srv.router, http.MethodPost, "/api/ai/plan", signToken(t, testEmail, nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Day 1\n- Walk", decodeJSONMap(t, rec)["response"])
}

func TestAdviceErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		retryAfter string
	}{
		{name: "unknown user", err: fmt.Errorf("resolve user: %w", model.ErrUserNotFound), wantStatus: http.StatusNotFound},
		{name: "no analysis", err: advice.ErrNoAnalysis, wantStatus: http.StatusConflict},
		{name: "unavailable", err: advice.ErrPlanUnavailable, wantStatus: http.StatusServiceUnavailable, retryAfter: "30"},
		{name: "provider", err: &advice.ProviderError{Model: "m", StatusCode: 500, Err: errors.New("boom")}, wantStatus: http.StatusBadGateway},
		{name: "storage", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t)
			srv.advice.planErr = tc.err

			rec := performRequest(t, srv.router, http.MethodPost, "/api/ai/plan", signToken(t, testEmail, nil), nil)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.retryAfter, rec.Header().Get("Retry-After"))
			assert.NotEmpty(t, decodeJSONMap(t, rec)["detail"])
		})
	}
}

func TestAnalyzeUnknownUser(t *testing.T) {
	srv := newTestServer(t)
	srv.advice.analysisErr = fmt.Errorf("resolve user: %w", model.ErrUserNotFound)

	rec := performRequest(t, srv.router, http.MethodPost, "/api/ai/analyze", signToken(t, "ghost@example.com", nil), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
