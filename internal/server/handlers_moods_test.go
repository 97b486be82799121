package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMoodDefaultsToToday(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, testEmail, nil)

	rec := performRequest(t, srv.router, http.MethodPost, "/api/moods", token, map[string]any{"moodScore": 4, "note": "gym"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeJSONMap(t, rec)
	assert.Equal(t, "2026-03-10", body["date"])
	assert.Equal(t, float64(4), body["moodScore"])
	assert.Equal(t, "gym", body["note"])

	rec = performRequest(t, srv.router, http.MethodGet, "/api/moods/today", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body["id"], decodeJSONMap(t, rec)["id"])
}

func TestCreateMoodRejectsDuplicatesAndBadInput(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, testEmail, nil)

	rec := performRequest(t, srv.router, http.MethodPost, "/api/moods", token, map[string]any{"moodScore": 3, "date": "2026-03-01"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = performRequest(t, srv.router, http.MethodPost, "/api/moods", token, map[string]any{"moodScore": 5, "date": "2026-03-01"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = performRequest(t, srv.router, http.MethodPost, "/api/moods", token, map[string]any{"moodScore": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(t, srv.router, http.MethodPost, "/api/moods", token, map[string]any{"moodScore": 3, "date": "03/01/2026"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownUserIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, "ghost@example.com", nil)

	rec := performRequest(t, srv.router, http.MethodGet, "/api/moods/today", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeJSONMap(t, rec)["detail"])
}

func TestUpdateMoodByDate(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, testEmail, nil)

	rec := performRequest(t, srv.router, http.MethodPut, "/api/moods", token, map[string]any{"moodScore": 2, "date": "2026-03-02"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	performRequest(t, srv.router, http.MethodPost, "/api/moods", token, map[string]any{"moodScore": 3, "date": "2026-03-02", "note": "meh"})
	rec = performRequest(t, srv.router, http.MethodPut, "/api/moods", token, map[string]any{"moodScore": 5, "date": "2026-03-02"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSONMap(t, rec)
	assert.Equal(t, float64(5), body["moodScore"])
	assert.Nil(t, body["note"])

	rec = performRequest(t, srv.router, http.MethodGet, "/api/moods/date?date=2026-03-02", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(5), decodeJSONMap(t, rec)["moodScore"])

	rec = performRequest(t, srv.router, http.MethodGet, "/api/moods/date?date=2026-03-03", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListMoodRange(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, testEmail, nil)
	for _, date := range []string{"2026-03-01", "2026-03-02", "2026-03-03"} {
		rec := performRequest(t, srv.router, http.MethodPost, "/api/moods", token, map[string]any{"moodScore": 3, "date": date})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := performRequest(t, srv.router, http.MethodGet, "/api/moods/range?start=2026-03-01&end=2026-03-03&page=1&size=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSONMap(t, rec)
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(2), body["totalPages"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "2026-03-03", items[0].(map[string]any)["date"])

	rec = performRequest(t, srv.router, http.MethodGet, "/api/moods/range?start=2026-03-03&end=2026-03-01", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(t, srv.router, http.MethodGet, "/api/moods/range?start=2026-03-01&end=2026-03-03&size=500", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRecentMoodsNewestFirst(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, testEmail, nil)
	for _, date := range []string{"2026-01-01", "2026-03-05", "2026-03-09"} {
		performRequest(t, srv.router, http.MethodPost, "/api/moods", token, map[string]any{"moodScore": 4, "date": date})
	}

	rec := performRequest(t, srv.router, http.MethodGet, "/api/moods/recent", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeJSONMap(t, rec)["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "2026-03-09", items[0].(map[string]any)["date"])
	assert.Equal(t, "2026-03-05", items[1].(map[string]any)["date"])
}

func TestDeleteMoodIsScopedToOwner(t *testing.T) {
	srv := newTestServer(t)
	owner := signToken(t, testEmail, nil)
	other := signToken(t, "bob@example.com", nil)

	rec := performRequest(t, srv.router, http.MethodPost, "/api/moods", owner, map[string]any{"moodScore": 2, "date": "2026-03-04"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeJSONMap(t, rec)["id"].(string)

	rec = performRequest(t, srv.router, http.MethodDelete, "/api/moods/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = performRequest(t, srv.router, http.MethodDelete, "/api/moods/"+id, owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err := srv.moods.GetByDate(t.Context(), "user-1", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}
