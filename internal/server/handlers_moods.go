package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"moodjournal/backend/internal/model"
	"moodjournal/backend/internal/mood"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type moodEntryRequest struct {
	MoodScore int     `json:"moodScore"`
	Date      string  `json:"date"`
	Note      *string `json:"note"`
}

type moodEntryResponse struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	MoodScore int     `json:"moodScore"`
	Note      *string `json:"note"`
}

func toMoodEntryResponse(entry model.MoodEntry) moodEntryResponse {
	return moodEntryResponse{
		ID:        entry.ID,
		Date:      entry.Date.UTC().Format("2006-01-02"),
		MoodScore: entry.Score,
		Note:      entry.Note,
	}
}

func toMoodEntryResponses(entries []model.MoodEntry) []moodEntryResponse {
	out := make([]moodEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toMoodEntryResponse(entry))
	}
	return out
}

// currentUser resolves the authenticated caller, writing the error response
// itself when it cannot.
func (a *App) currentUser(c *gin.Context) (model.User, bool) {
	email, ok := authEmailFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return model.User{}, false
	}
	user, err := a.users.FindUserByEmail(c.Request.Context(), email)
	if errors.Is(err, model.ErrUserNotFound) {
		writeError(c, http.StatusNotFound, "User not found")
		return model.User{}, false
	}
	if err != nil {
		a.log.Error("Failed to resolve user", "error", err.Error())
		writeError(c, http.StatusInternalServerError, "Failed to resolve user")
		return model.User{}, false
	}
	return user, true
}

func (a *App) writeMoodError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, model.ErrInvalidMoodScore):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrMoodEntryExists):
		writeError(c, http.StatusConflict, "Mood entry for this date already exists")
	case errors.Is(err, model.ErrMoodEntryNotFound):
		writeError(c, http.StatusNotFound, "Mood entry not found")
	default:
		a.log.Error("Mood entry "+action+" failed", "error", err.Error())
		writeError(c, http.StatusInternalServerError, "Failed to "+action+" mood entry")
	}
}

func (a *App) createMood(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}
	var payload moodEntryRequest
	if !mustJSON(c, &payload) {
		return
	}
	if !model.ValidScore(payload.MoodScore) {
		writeError(c, http.StatusBadRequest, model.ErrInvalidMoodScore.Error())
		return
	}

	date := mood.StartOfUTCDay(a.now())
	if strings.TrimSpace(payload.Date) != "" {
		parsed, err := parseDate(payload.Date)
		if err != nil {
			writeError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	entry, err := a.moods.Create(c.Request.Context(), user.ID, date, payload.MoodScore, payload.Note)
	if err != nil {
		a.writeMoodError(c, err, "create")
		return
	}
	a.log.Info("Created mood entry", "user_id", user.ID, "date", entry.Date.Format("2006-01-02"))
	c.JSON(http.StatusCreated, toMoodEntryResponse(entry))
}

// updateMood overwrites the entry for the given date. A missing entry is a
// client error (400) rather than 404, as callers must create before updating.
func (a *App) updateMood(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}
	var payload moodEntryRequest
	if !mustJSON(c, &payload) {
		return
	}
	date, err := parseDate(payload.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if !model.ValidScore(payload.MoodScore) {
		writeError(c, http.StatusBadRequest, model.ErrInvalidMoodScore.Error())
		return
	}

	entry, err := a.moods.UpdateByDate(c.Request.Context(), user.ID, date, payload.MoodScore, payload.Note)
	if errors.Is(err, model.ErrMoodEntryNotFound) {
		writeError(c, http.StatusBadRequest, "Entry for date "+date.Format("2006-01-02")+" is not found")
		return
	}
	if err != nil {
		a.writeMoodError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, toMoodEntryResponse(entry))
}

func (a *App) getMoodByDate(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	entry, err := a.moods.GetByDate(c.Request.Context(), user.ID, date)
	if err != nil {
		a.writeMoodError(c, err, "load")
		return
	}
	c.JSON(http.StatusOK, toMoodEntryResponse(entry))
}

func (a *App) getTodayMood(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}
	entry, err := a.moods.GetByDate(c.Request.Context(), user.ID, mood.StartOfUTCDay(a.now()))
	if err != nil {
		a.writeMoodError(c, err, "load")
		return
	}
	c.JSON(http.StatusOK, toMoodEntryResponse(entry))
}

func (a *App) listMoodRange(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}
	start, err := parseDate(c.Query("start"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "end must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		writeError(c, http.StatusBadRequest, "Parameter 'end' must not be before 'start'")
		return
	}
	page, size, ok := parsePaging(c)
	if !ok {
		return
	}

	result, err := a.moods.ListRange(c.Request.Context(), user.ID, start, end, page, size)
	if err != nil {
		a.writeMoodError(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      toMoodEntryResponses(result.Entries),
		"page":       result.Page,
		"size":       result.Size,
		"total":      result.Total,
		"totalPages": (result.Total + result.Size - 1) / result.Size,
	})
}

func parsePaging(c *gin.Context) (int, int, bool) {
	page, size := 0, defaultPageSize
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(c, http.StatusBadRequest, "page must be a non-negative integer")
			return 0, 0, false
		}
		page = parsed
	}
	if raw := strings.TrimSpace(c.Query("size")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPageSize {
			writeError(c, http.StatusBadRequest, "size must be between 1 and "+strconv.Itoa(maxPageSize))
			return 0, 0, false
		}
		size = parsed
	}
	return page, size, true
}

func (a *App) listRecentMoods(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}
	today := a.now()
	from, to := mood.WindowBounds(today)
	entries, err := a.moods.ListMoodEntries(c.Request.Context(), user.ID, from, to)
	if err != nil {
		a.writeMoodError(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": toMoodEntryResponses(mood.Window(entries, today))})
}

func (a *App) deleteMood(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if err := a.moods.Delete(c.Request.Context(), user.ID, id); err != nil {
		a.writeMoodError(c, err, "delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Entry has been deleted."})
}
