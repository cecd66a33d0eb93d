package atptour

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/courtdata/atp-proxy/internal/domain/h2h"
	"github.com/courtdata/atp-proxy/internal/domain/match"
	"github.com/courtdata/atp-proxy/internal/domain/tournament"
	"github.com/courtdata/atp-proxy/internal/platform/logging"
	"github.com/courtdata/atp-proxy/internal/platform/resilience"
	"github.com/courtdata/atp-proxy/internal/usecase"
)

const (
	defaultBaseURL   = "https://www.atptour.com"
	defaultUserAgent = "atp-proxy/1.0 (unofficial ATP Tour proxy)"

	calendarPath     = "/en/-/tournaments/calendar/tour"
	hawkeyePathBase  = "/-/Hawkeye/MatchStats/Complete"
	headToHeadBase   = "/en/-/tour/Head2HeadSearch/GetHead2HeadData"
	maxResponseBytes = 6 << 20
)

var clientTracer = otel.Tracer("atp-proxy/external/atptour")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the ATP Tour website endpoints. All fetches are
// single-attempt; the circuit breaker sheds load after repeated failures but
// never re-issues a request.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		userAgent:      userAgent,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchCalendar retrieves one season's tournament calendar. A non-positive
// season means the current UTC year. The raw body is returned alongside the
// parsed entries so callers can archive it.
func (c *Client) FetchCalendar(ctx context.Context, season int) ([]tournament.Entry, []byte, error) {
	ctx, span := clientTracer.Start(ctx, "atptour.Client.FetchCalendar")
	defer span.End()

	if season <= 0 {
		season = time.Now().UTC().Year()
	}
	span.SetAttributes(attribute.Int("atp.season", season))

	query := url.Values{}
	query.Set("year", strconv.Itoa(season))

	raw, status, err := c.get(ctx, calendarPath+"?"+query.Encode())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: fetch calendar season=%d: %v", usecase.ErrUpstreamUnavailable, season, err)
	}
	if status < 200 || status >= 300 {
		return nil, nil, fmt.Errorf("%w: calendar season=%d status=%d", usecase.ErrUpstreamUnavailable, season, status)
	}

	var envelope calendarEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, fmt.Errorf("%w: decode calendar: %v", usecase.ErrUpstreamShapeChanged, err)
	}
	if envelope.TournamentDates == nil {
		return nil, nil, fmt.Errorf("%w: calendar payload has no TournamentDates", usecase.ErrUpstreamShapeChanged)
	}

	entries := make([]tournament.Entry, 0, 64)
	for _, block := range envelope.TournamentDates {
		for _, item := range block.Tournaments {
			entries = append(entries, tournament.Entry{
				TournamentID: normalizeID(item.ID),
				Name:         strings.TrimSpace(item.Name),
				StartDate:    strings.TrimSpace(item.StartDate),
				EndDate:      strings.TrimSpace(item.EndDate),
				Location:     strings.TrimSpace(item.Location),
				Category:     strings.TrimSpace(item.Type),
				SeasonYear:   season,
				SglDrawSize:  item.SglDrawSize,
				DblDrawSize:  item.DblDrawSize,
			})
		}
	}

	return entries, raw, nil
}

// FetchMatch probes one Hawkeye match document. Most derived match IDs do not
// exist upstream, so a non-success status means "not there" rather than an
// error; a success response that is not JSON is reported as contract drift.
func (c *Client) FetchMatch(ctx context.Context, year int, tournamentID, matchID string) (match.Payload, bool, error) {
	path := fmt.Sprintf("%s/%d/%s/%s", hawkeyePathBase, year, url.PathEscape(tournamentID), url.PathEscape(matchID))

	raw, status, err := c.get(ctx, path)
	if err != nil {
		return nil, false, fmt.Errorf("%w: fetch match %s/%s: %v", usecase.ErrUpstreamUnavailable, tournamentID, matchID, err)
	}
	if status < 200 || status >= 300 {
		return nil, false, nil
	}

	var payload match.Payload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, false, fmt.Errorf("%w: decode match %s/%s: %v", usecase.ErrUpstreamShapeChanged, tournamentID, matchID, err)
	}

	return payload, true, nil
}

// FetchHeadToHead retrieves the raw head-to-head document for a player pair.
// Identifier order is passed through as given; upstream decides which side is
// which. A 404 means upstream has no data for the pair.
func (c *Client) FetchHeadToHead(ctx context.Context, player1ID, player2ID string) (h2h.Payload, []byte, error) {
	ctx, span := clientTracer.Start(ctx, "atptour.Client.FetchHeadToHead", trace.WithAttributes(
		attribute.String("atp.player1", player1ID),
		attribute.String("atp.player2", player2ID),
	))
	defer span.End()

	path := fmt.Sprintf("%s/%s/%s", headToHeadBase, url.PathEscape(player1ID), url.PathEscape(player2ID))

	raw, status, err := c.get(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: fetch h2h %s vs %s: %v", usecase.ErrUpstreamUnavailable, player1ID, player2ID, err)
	}
	switch {
	case status == http.StatusNotFound:
		return nil, nil, fmt.Errorf("%w: no head-to-head data for %s vs %s", usecase.ErrPlayerNotFound, player1ID, player2ID)
	case status < 200 || status >= 300:
		return nil, nil, fmt.Errorf("%w: h2h status=%d", usecase.ErrUpstreamUnavailable, status)
	}

	var payload h2h.Payload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, nil, fmt.Errorf("%w: decode h2h payload: %v", usecase.ErrUpstreamShapeChanged, err)
	}

	return payload, raw, nil
}

// get issues one GET through the breaker, deduplicating concurrent identical
// requests. Only transport-level failures count against the breaker; any
// upstream status is a served response.
func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "atptour circuit breaker rejected request", "state", c.breaker.State())
			return nil, 0, crerr.New("upstream temporarily shed by circuit breaker")
		}
	}

	out, err, _ := c.flight.Do(path, func() (any, error) {
		result, reqErr := c.executeRequest(ctx, c.baseURL+path)
		if c.circuitEnabled {
			if reqErr != nil {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return result, reqErr
	})
	if err != nil {
		c.logger.WarnContext(ctx, "atptour request failed", "path", path, "error", err)
		return nil, 0, err
	}

	result, ok := out.(requestResult)
	if !ok {
		return nil, 0, crerr.Newf("unexpected response payload type %T", out)
	}

	return result.body, result.status, nil
}

type requestResult struct {
	body   []byte
	status int
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) (requestResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return requestResult{}, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("user-agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return requestResult{}, crerr.Wrap(err, "send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return requestResult{}, crerr.Wrap(err, "read response body")
	}

	body := make([]byte, buf.Len())
	copy(body, buf.B)

	return requestResult{body: body, status: resp.StatusCode}, nil
}

type calendarEnvelope struct {
	TournamentDates []calendarDateBlock `json:"TournamentDates"`
}

type calendarDateBlock struct {
	Tournaments []calendarTournament `json:"Tournaments"`
}

type calendarTournament struct {
	ID          any    `json:"Id"`
	Name        string `json:"Name"`
	StartDate   string `json:"StartDate"`
	EndDate     string `json:"EndDate"`
	Location    string `json:"Location"`
	Type        string `json:"Type"`
	SglDrawSize int    `json:"SglDrawSize"`
	DblDrawSize int    `json:"DblDrawSize"`
}

// normalizeID maps upstream tournament identifiers onto strings; they arrive
// as JSON numbers in some seasons and strings in others.
func normalizeID(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
