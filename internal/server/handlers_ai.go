package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"moodjournal/backend/internal/advice"
	"moodjournal/backend/internal/model"
)

const planRetryAfterSeconds = 30

func (a *App) analyze(c *gin.Context) {
	email, ok := authEmailFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	result, err := a.advice.Analyze(c.Request.Context(), email)
	if err != nil {
		a.writeAdviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *App) generatePlan(c *gin.Context) {
	email, ok := authEmailFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	plan, err := a.advice.GeneratePlan(c.Request.Context(), email)
	if err != nil {
		a.writeAdviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": plan})
}

func (a *App) writeAdviceError(c *gin.Context, err error) {
	var providerErr *advice.ProviderError
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		writeError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, advice.ErrNoAnalysis):
		writeError(c, http.StatusConflict, advice.ErrNoAnalysis.Error())
	case errors.Is(err, advice.ErrPlanUnavailable):
		c.Header("Retry-After", strconv.Itoa(planRetryAfterSeconds))
		writeError(c, http.StatusServiceUnavailable, advice.ErrPlanUnavailable.Error())
	case errors.As(err, &providerErr):
		a.log.Error("AI provider failed", "model", providerErr.Model, "status", providerErr.StatusCode, "error", err.Error())
		writeError(c, http.StatusBadGateway, "AI provider request failed")
	default:
		a.log.Error("AI request failed", "error", err.Error())
		writeError(c, http.StatusInternalServerError, "AI request failed")
	}
}
