package advice

import (
	"context"
	"errors"
	"net/http"
	"time"

	"moodjournal/backend/internal/logger"
	"moodjournal/backend/internal/metrics"
	"moodjournal/backend/internal/openrouter"
)

// FailureKind classifies why an attempt did not produce accepted output.
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureTransient covers timeouts, transport failures and HTTP 400/404/429.
	FailureTransient
	// FailureInvalid means the response arrived but failed the acceptance gate.
	FailureInvalid
	// FailureFatal aborts the chain.
	FailureFatal
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "accepted"
	case FailureTransient:
		return "transient"
	case FailureInvalid:
		return "invalid"
	case FailureFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Completer sends one chat-completion request and returns the raw body.
type Completer interface {
	Complete(ctx context.Context, req openrouter.ChatRequest) ([]byte, error)
}

// Cooldown tracks models that recently rejected requests with 429.
type Cooldown interface {
	Cooling(ctx context.Context, model string) bool
	Mark(ctx context.Context, model string)
}

type Prompt struct {
	System string
	User   string
}

// Attempt is the outcome of one candidate.
type Attempt struct {
	Candidate Candidate
	Accepted  bool
	Content   string
	Failure   FailureKind
	Err       error
}

type Outcome struct {
	Content   string
	Candidate Candidate
	Attempts  []Attempt
}

type Orchestrator struct {
	provider Completer
	log      *logger.Logger
	metrics  *metrics.Metrics
	cooldown Cooldown
}

type OrchestratorOption func(*Orchestrator)

func WithCooldown(c Cooldown) OrchestratorOption {
	return func(o *Orchestrator) { o.cooldown = c }
}

func WithMetrics(m *metrics.Metrics) OrchestratorOption {
	return func(o *Orchestrator) { o.metrics = m }
}

func NewOrchestrator(provider Completer, log *logger.Logger, opts ...OrchestratorOption) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	o := &Orchestrator{provider: provider, log: log}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ClassifyError maps a provider error to the chain policy.
func ClassifyError(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	var httpErr *openrouter.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusBadRequest, http.StatusNotFound, http.StatusTooManyRequests:
			return FailureTransient
		default:
			return FailureFatal
		}
	}
	if openrouter.IsTimeout(err) || openrouter.IsTransport(err) {
		return FailureTransient
	}
	return FailureFatal
}

// Run tries candidates strictly in order and returns the first accepted content.
// Transient and invalid attempts advance the chain, a fatal one aborts it with
// *ProviderError, and running out of candidates returns ErrExhausted.
func (o *Orchestrator) Run(ctx context.Context, prompt Prompt, candidates []Candidate, accept func(string) bool) (Outcome, error) {
	outcome := Outcome{Attempts: make([]Attempt, 0, len(candidates))}
	for _, candidate := range candidates {
		if o.cooldown != nil && o.cooldown.Cooling(ctx, candidate.Model) {
			o.log.Info("Skipping model on cooldown", "model", candidate.Model, "mode", string(candidate.Mode))
			o.metrics.ObserveAttempt(string(candidate.Mode), candidate.Model, "skipped", 0)
			continue
		}

		attempt := o.attempt(ctx, prompt, candidate, accept)
		outcome.Attempts = append(outcome.Attempts, attempt)

		switch attempt.Failure {
		case FailureNone:
			outcome.Content = attempt.Content
			outcome.Candidate = candidate
			return outcome, nil
		case FailureTransient:
			o.log.Warn("Provider attempt failed, trying next model",
				"model", candidate.Model,
				"mode", string(candidate.Mode),
				"error", attempt.Err.Error(),
			)
			if o.cooldown != nil && isRateLimited(attempt.Err) {
				o.cooldown.Mark(ctx, candidate.Model)
			}
		case FailureInvalid:
			o.log.Warn("Provider response rejected, trying next model",
				"model", candidate.Model,
				"mode", string(candidate.Mode),
			)
		default:
			o.log.Error("Provider attempt failed, aborting fallback chain",
				"model", candidate.Model,
				"mode", string(candidate.Mode),
				"error", attempt.Err.Error(),
			)
			return outcome, toProviderError(candidate.Model, attempt.Err)
		}
	}
	return outcome, ErrExhausted
}

func (o *Orchestrator) attempt(ctx context.Context, prompt Prompt, candidate Candidate, accept func(string) bool) Attempt {
	attempt := Attempt{Candidate: candidate}
	if err := ctx.Err(); err != nil {
		attempt.Failure = FailureFatal
		attempt.Err = err
		return attempt
	}

	req := openrouter.ChatRequest{
		Model:       candidate.Model,
		Temperature: candidate.Temperature,
		MaxTokens:   candidate.MaxTokens,
		Messages: []openrouter.Message{
			{Role: openrouter.RoleSystem, Content: prompt.System},
			{Role: openrouter.RoleUser, Content: prompt.User},
		},
	}
	if candidate.Mode == ModeJSON {
		req.ResponseFormat = openrouter.JSONObjectFormat
	}

	started := time.Now()
	body, err := o.provider.Complete(ctx, req)
	elapsed := time.Since(started).Seconds()

	switch {
	case err != nil:
		attempt.Err = err
		attempt.Failure = ClassifyError(err)
		if ctx.Err() != nil {
			attempt.Failure = FailureFatal
		}
	default:
		attempt.Content = AssistantContent(body)
		if accept(attempt.Content) {
			attempt.Accepted = true
			attempt.Failure = FailureNone
		} else {
			attempt.Failure = FailureInvalid
		}
	}
	o.metrics.ObserveAttempt(string(candidate.Mode), candidate.Model, attempt.Failure.String(), elapsed)
	return attempt
}

func isRateLimited(err error) bool {
	var httpErr *openrouter.HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests
}

func toProviderError(model string, err error) *ProviderError {
	providerErr := &ProviderError{Model: model, Err: err}
	var httpErr *openrouter.HTTPError
	if errors.As(err, &httpErr) {
		providerErr.StatusCode = httpErr.StatusCode
	}
	return providerErr
}
