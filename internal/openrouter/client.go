package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultConnectTimeout = 5 * time.Second
	defaultReadTimeout    = 20 * time.Second
	maxErrorBodyLog       = 600
)

// Config is the immutable provider configuration handed to New.
type Config struct {
	BaseURL        string
	APIKey         string
	Referer        string
	Title          string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	// RateLimit is the sustained request rate per second; zero or less disables pacing.
	RateLimit float64
	Burst     int
}

// HTTPError is returned for any non-2xx provider response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > maxErrorBodyLog {
		body = body[:maxErrorBodyLog] + "...(truncated)"
	}
	return fmt.Sprintf("openrouter http %d: %s", e.StatusCode, body)
}

type Client struct {
	baseURL    string
	apiKey     string
	referer    string
	title      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OPENROUTER_BASE_URL is not configured")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY is not configured")
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}

	dialer := &net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		referer: strings.TrimSpace(cfg.Referer),
		title:   strings.TrimSpace(cfg.Title),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   connectTimeout + readTimeout,
		},
		limiter: limiter,
	}, nil
}

// Complete posts one chat-completion request and returns the raw response body.
// Non-2xx responses yield *HTTPError; transport failures are returned as-is.
func (c *Client) Complete(ctx context.Context, req ChatRequest) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")
	if c.referer != "" {
		request.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		request.Header.Set("X-Title", c.title)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: response.StatusCode, Body: string(body)}
	}
	return body, nil
}

// IsTimeout reports whether err is a connect or read timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsTransport reports whether err happened below HTTP, before a status code was seen.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
