package thesportsdb

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL        = "https://www.thesportsdb.com/api/v1/json/3"
	defaultTimeout        = 15 * time.Second
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 2 * time.Second
	defaultRateBurst      = 3

	pathNextLeague   = "/eventsnextleague.php"
	pathPastLeague   = "/eventspastleague.php"
	pathSeasonEvents = "/eventsseason.php"
	pathLookupEvent  = "/lookupevent.php"
)

type ClientConfig struct {
	Transport Transport
	BaseURL   string
	// Timeout bounds each attempt, not the whole call.
	Timeout        time.Duration
	MaxAttempts    int
	RetryBaseDelay time.Duration
	// RatePerMinute of zero disables client side rate limiting.
	RatePerMinute  int
	RateBurst      int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// Sleep overrides the wait between attempts.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Client reads fixtures from TheSportsDB v1 JSON API.
type Client struct {
	transport Transport
	baseURL   string
	timeout   time.Duration
	retry     resilience.RetryPolicy
	limiter   *rate.Limiter
	logger    *logging.Logger
	breaker   *resilience.CircuitBreaker
	flight    resilience.SingleFlight[[]byte]
}

var _ fixture.Source = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	transport := cfg.Transport
	if transport == nil {
		transport = NewNetHTTPTransport(nil)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultRetryBaseDelay
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerMinute > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = defaultRateBurst
		}
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60.0), burst)
	}

	return &Client{
		transport: transport,
		baseURL:   baseURL,
		timeout:   timeout,
		retry: resilience.RetryPolicy{
			MaxAttempts: maxAttempts,
			BaseDelay:   baseDelay,
			Sleep:       cfg.Sleep,
		},
		limiter: limiter,
		logger:  logger,
		breaker: resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

func (c *Client) NextLeagueEvents(ctx context.Context, leagueID string) ([]fixture.Fixture, error) {
	return c.listEvents(ctx, pathNextLeague, url.Values{"id": {leagueID}})
}

func (c *Client) PastLeagueEvents(ctx context.Context, leagueID string) ([]fixture.Fixture, error) {
	return c.listEvents(ctx, pathPastLeague, url.Values{"id": {leagueID}})
}

func (c *Client) SeasonEvents(ctx context.Context, leagueID, season string) ([]fixture.Fixture, error) {
	return c.listEvents(ctx, pathSeasonEvents, url.Values{"id": {leagueID}, "s": {season}})
}

// LookupEvent returns the first event of the lookup response. An empty response is found=false.
func (c *Client) LookupEvent(ctx context.Context, id string) (fixture.Details, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return fixture.Details{}, false, fmt.Errorf("%w: event id is required", usecase.ErrInvalidInput)
	}

	envelope, err := c.fetchEvents(ctx, pathLookupEvent, url.Values{"id": {id}})
	if err != nil {
		return fixture.Details{}, false, fmt.Errorf("lookup event id=%s: %w", id, err)
	}
	if len(envelope.Events) == 0 {
		return fixture.Details{}, false, nil
	}
	return envelope.Events[0].toDetails(), true, nil
}

// Do performs one GET against the API path and returns the raw body.
func (c *Client) Do(ctx context.Context, path string, query url.Values) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", usecase.ErrInvalidInput)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.get(ctx, path, query)
}

func (c *Client) listEvents(ctx context.Context, path string, query url.Values) ([]fixture.Fixture, error) {
	if strings.TrimSpace(query.Get("id")) == "" {
		return nil, fmt.Errorf("%w: league id is required", usecase.ErrInvalidInput)
	}

	envelope, err := c.fetchEvents(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("fetch %s id=%s: %w", path, query.Get("id"), err)
	}

	out := make([]fixture.Fixture, 0, len(envelope.Events))
	for _, item := range envelope.Events {
		out = append(out, item.toFixture())
	}
	return out, nil
}

func (c *Client) fetchEvents(ctx context.Context, path string, query url.Values) (eventsEnvelope, error) {
	raw, err := c.get(ctx, path, query)
	if err != nil {
		return eventsEnvelope{}, err
	}

	var envelope eventsEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return eventsEnvelope{}, crerr.Wrapf(err, "decode %s payload", path)
	}
	return envelope, nil
}

// get issues one logical request: deduplicated across concurrent callers, guarded by the
// optional breaker, and retried on transient faults. A caller that cancels only stops
// waiting; the request keeps running while another caller still needs it.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.DoContext(ctx, fullURL, func(ctx context.Context) ([]byte, error) {
		var body []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			body, reqErr = c.executeRequest(ctx, path, fullURL)
			return reqErr
		}, usecase.IsTransient)
		if stderrors.Is(execErr, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "thesportsdb circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return body, execErr
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, path, fullURL string) ([]byte, error) {
	var body []byte
	err := c.retry.Do(ctx, func(ctx context.Context, _ int) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return crerr.Wrap(err, "rate limit wait")
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		status, raw, err := c.transport.Get(attemptCtx, fullURL)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if isTransientTransportError(err) || attemptCtx.Err() != nil {
				return &usecase.NetworkError{Op: "GET " + path, Err: err}
			}
			return crerr.Wrapf(err, "send request %s", path)
		}
		if status < 200 || status >= 300 {
			return &usecase.ServerError{StatusCode: status, Body: abbreviateBody(raw)}
		}
		body = raw
		return nil
	}, usecase.IsTransient, func(attempt int, delay time.Duration, err error) {
		c.logger.WarnContext(ctx, "thesportsdb request failed, retrying",
			"url", redactURL(fullURL),
			"attempt", attempt,
			"delay", delay.String(),
			"error", err,
		)
	})
	if err != nil {
		c.logger.WarnContext(ctx, "thesportsdb request failed", "url", redactURL(fullURL), "error", err)
		return nil, err
	}
	return body, nil
}

// isTransientTransportError reports connection resets, aborts, refused or unreachable
// peers, DNS failures, premature EOFs and timeouts.
func isTransientTransportError(err error) bool {
	if err == nil {
		return false
	}
	for _, errno := range []syscall.Errno{
		syscall.ECONNRESET,
		syscall.ECONNABORTED,
		syscall.ECONNREFUSED,
		syscall.ENETUNREACH,
		syscall.EHOSTUNREACH,
		syscall.EPIPE,
	} {
		if stderrors.Is(err, errno) {
			return true
		}
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if stderrors.Is(err, fasthttp.ErrTimeout) || stderrors.Is(err, fasthttp.ErrConnectionClosed) {
		return true
	}

	var dnsErr *net.DNSError
	if stderrors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if stderrors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// redactURL hides the API key path segment of ".../json/<key>/...".
func redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	segments := strings.Split(parsed.Path, "/")
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] == "json" && segments[i+1] != "" && segments[i+1] != "3" {
			segments[i+1] = "REDACTED"
		}
	}
	parsed.Path = strings.Join(segments, "/")
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
