package hass

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/GriffinCanCode/roomdata/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/roomdata/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/roomdata/internal/logging"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrMissingToken is returned when no access token is configured.
var ErrMissingToken = errors.New("home assistant token not set")

// RequestIDHeader carries a per-request UUID.
const RequestIDHeader = "X-Request-ID"

// Options configures a Client.
type Options struct {
	URL               string
	Token             string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 means unlimited

	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	Breaker resilience.Settings
	Metrics *monitoring.Metrics
	Logger  *logging.Logger
}

// DefaultOptions returns options for url and token with production retry
// and timeout settings.
func DefaultOptions(url, token string) Options {
	return Options{
		URL:          url,
		Token:        token,
		Timeout:      30 * time.Second,
		RetryMax:     3,
		RetryWaitMin: 1 * time.Second,
		RetryWaitMax: 30 * time.Second,
		Breaker: resilience.Settings{
			FailureThreshold: 5,
			Cooldown:         30 * time.Second,
		},
	}
}

// Client is a Home Assistant REST client.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// NewClient creates a client. It fails with ErrMissingToken when opts has no
// token.
func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, ErrMissingToken
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("home assistant url not set")
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = opts.RetryWaitMin
	retryClient.RetryWaitMax = opts.RetryWaitMax
	retryClient.Logger = retryLogger{log.Sugar()}
	// Hand the last response to resty instead of a generic give-up error.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(opts.URL).
		SetAuthToken(opts.Token).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "roomdata/1.0")
	if opts.Timeout > 0 {
		restyClient.SetTimeout(opts.Timeout)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), max(1, int(opts.RequestsPerSecond)))
	}

	breakerSettings := opts.Breaker
	breakerSettings.OnStateChange = func(name string, from, to resilience.State) {
		log.Warn("Circuit breaker state changed",
			zap.String("breaker", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to))
	}

	return &Client{
		resty:   restyClient,
		limiter: limiter,
		breaker: resilience.New("home-assistant", breakerSettings),
		metrics: opts.Metrics,
		log:     log,
	}, nil
}

// Breaker returns the client's circuit breaker.
func (c *Client) Breaker() *resilience.Breaker {
	return c.breaker
}

// States fetches every entity state. The raw response body is returned
// alongside the decoded entities.
func (c *Client) States(ctx context.Context) ([]Entity, []byte, error) {
	body, err := c.get(ctx, "/states")
	if err != nil {
		return nil, nil, err
	}

	var entities []Entity
	if err := sonic.Unmarshal(body, &entities); err != nil {
		return nil, nil, fmt.Errorf("decode states: %w", err)
	}
	return entities, body, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	requestID := uuid.NewString()
	log := c.log.WithFields(zap.String("path", path), zap.String("request_id", requestID))
	start := time.Now()

	resp, err := resilience.Do(c.breaker, func() (*resty.Response, error) {
		resp, err := c.resty.R().
			SetContext(ctx).
			SetHeader(RequestIDHeader, requestID).
			Get(path)
		if err != nil {
			c.observe(0)
			return nil, err
		}
		c.observe(resp.StatusCode())
		if resp.IsError() {
			return resp, fmt.Errorf("HTTP %d: %s", resp.StatusCode(), http.StatusText(resp.StatusCode()))
		}
		return resp, nil
	})
	if err != nil {
		log.Error("Request failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}

	log.Debug("Request completed", zap.Int("status", resp.StatusCode()), zap.Duration("duration", time.Since(start)))
	return resp.Body(), nil
}

func (c *Client) observe(status int) {
	if c.metrics != nil {
		c.metrics.ObserveHTTP(status)
	}
}

// Indent re-indents a raw JSON document with two spaces, keeping every field
// and key order of the server response.
func Indent(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("indent json: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// retryLogger adapts zap to retryablehttp.LeveledLogger.
type retryLogger struct {
	s *zap.SugaredLogger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }

// WriteRaw writes a raw JSON response to path, re-indented with Indent.
func WriteRaw(path string, raw []byte) error {
	data, err := Indent(raw)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
