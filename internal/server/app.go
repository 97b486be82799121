package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moodjournal/backend/internal/advice"
	"moodjournal/backend/internal/config"
	"moodjournal/backend/internal/logger"
	"moodjournal/backend/internal/model"
	"moodjournal/backend/internal/store"
)

const authEmailKey = "authEmail"

type userFinder interface {
	FindUserByEmail(ctx context.Context, email string) (model.User, error)
}

type moodJournal interface {
	Create(ctx context.Context, userID string, date time.Time, score int, note *string) (model.MoodEntry, error)
	UpdateByDate(ctx context.Context, userID string, date time.Time, score int, note *string) (model.MoodEntry, error)
	GetByDate(ctx context.Context, userID string, date time.Time) (model.MoodEntry, error)
	ListRange(ctx context.Context, userID string, start, end time.Time, page, size int) (store.Page, error)
	ListMoodEntries(ctx context.Context, userID string, from, to time.Time) ([]model.MoodEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

type adviceService interface {
	Analyze(ctx context.Context, email string) (advice.AnalysisResult, error)
	GeneratePlan(ctx context.Context, email string) (string, error)
}

type Deps struct {
	Users  userFinder
	Moods  moodJournal
	Advice adviceService
	Log    *logger.Logger
	Now    func() time.Time
}

type App struct {
	cfg    config.Config
	log    *logger.Logger
	users  userFinder
	moods  moodJournal
	advice adviceService
	now    func() time.Time
}

func New(cfg config.Config, deps Deps) *App {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &App{
		cfg:    cfg,
		log:    log.With("service", "http"),
		users:  deps.Users,
		moods:  deps.Moods,
		advice: deps.Advice,
		now:    now,
	}
}

func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), a.requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", a.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group(a.cfg.APIPrefix)
	api.Use(a.authMiddleware())

	api.POST("/moods", a.createMood)
	api.PUT("/moods", a.updateMood)
	api.GET("/moods/date", a.getMoodByDate)
	api.GET("/moods/today", a.getTodayMood)
	api.GET("/moods/range", a.listMoodRange)
	api.GET("/moods/recent", a.listRecentMoods)
	api.DELETE("/moods/:id", a.deleteMood)
	api.POST("/ai/analyze", a.analyze)
	api.POST("/ai/plan", a.generatePlan)

	return router
}

func (a *App) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "moodjournal-api",
	})
}

func (a *App) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case status >= 500:
			a.log.Error("HTTP request", fields...)
		case status >= 400:
			a.log.Warn("HTTP request", fields...)
		default:
			a.log.Info("HTTP request", fields...)
		}
	}
}

// authMiddleware verifies the bearer token and stores the caller's email,
// taken from the "email" claim or, failing that, the subject.
func (a *App) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			writeError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}
		tokenString := strings.TrimSpace(authHeader[len("Bearer "):])
		if tokenString == "" {
			writeError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if token.Method == nil || token.Method.Alg() != a.cfg.JWTAlgorithm {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(a.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			writeError(c, http.StatusUnauthorized, "Invalid bearer token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeError(c, http.StatusUnauthorized, "Invalid token payload")
			return
		}
		if a.cfg.JWTAudience != "" && !claimHasAudience(claims["aud"], a.cfg.JWTAudience) {
			writeError(c, http.StatusUnauthorized, "Invalid token audience")
			return
		}
		if a.cfg.JWTIssuer != "" {
			issuer, _ := claims["iss"].(string)
			if issuer != a.cfg.JWTIssuer {
				writeError(c, http.StatusUnauthorized, "Invalid token issuer")
				return
			}
		}

		email := emailFromClaims(claims)
		if email == "" {
			writeError(c, http.StatusUnauthorized, "Token subject missing")
			return
		}

		c.Set(authEmailKey, email)
		c.Next()
	}
}

func emailFromClaims(claims jwt.MapClaims) string {
	if email, _ := claims["email"].(string); strings.TrimSpace(email) != "" {
		return strings.TrimSpace(email)
	}
	sub, _ := claims["sub"].(string)
	return strings.TrimSpace(sub)
}

func claimHasAudience(value any, audience string) bool {
	switch v := value.(type) {
	case string:
		return v == audience
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == audience {
				return true
			}
		}
	case []string:
		for _, item := range v {
			if item == audience {
				return true
			}
		}
	}
	return false
}

func authEmailFromContext(c *gin.Context) (string, bool) {
	raw, ok := c.Get(authEmailKey)
	if !ok {
		return "", false
	}
	email, ok := raw.(string)
	return email, ok && email != ""
}

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func mustJSON(c *gin.Context, payload any) bool {
	if err := c.ShouldBindJSON(payload); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
