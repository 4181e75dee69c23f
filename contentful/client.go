package contentful

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/contentful-typegen/errors"
	"github.com/teranos/contentful-typegen/internal/httpclient"
	"github.com/teranos/contentful-typegen/logger"
	"github.com/teranos/contentful-typegen/version"
)

const (
	// DefaultBaseURL is the Content Management API endpoint
	DefaultBaseURL = "https://api.contentful.com"

	// DefaultRateLimit stays under the CMA limit of 7 requests per second
	DefaultRateLimit = 7.0

	// DefaultPageSize is the number of content types requested per page
	DefaultPageSize = 100

	// MaxPageSize is the largest `limit` the CMA accepts for content types
	MaxPageSize = 1000

	defaultMaxRetries = 3
	defaultTimeout    = 60 * time.Second
	maxResetWait      = 60 * time.Second
)

// ClientConfig holds CMA client configuration
type ClientConfig struct {
	Token      string
	BaseURL    string  // Default: DefaultBaseURL
	RateLimit  float64 // Requests per second. Default: DefaultRateLimit
	PageSize   int     // Default: DefaultPageSize, capped at MaxPageSize
	MaxRetries int     // Retries after a 429. Default: 3
	UserAgent  string  // Default: version.UserAgent()

	// HTTPClient overrides the default SaferClient (tests use httpclient.WrapClient)
	HTTPClient *httpclient.SaferClient
	Logger     *zap.SugaredLogger
}

// Client fetches content models from the Contentful Management API.
type Client struct {
	token      string
	baseURL    string
	userAgent  string
	pageSize   int
	maxRetries int
	http       *httpclient.SaferClient
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger

	// sleep waits out a rate limit reset; replaced in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a CMA client. The token is sent as a bearer token on every request.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.PageSize > MaxPageSize {
		cfg.PageSize = MaxPageSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = version.UserAgent()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httpclient.New(defaultTimeout)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Named("cma")
	}

	return &Client{
		token:      cfg.Token,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		pageSize:   cfg.PageSize,
		maxRetries: cfg.MaxRetries,
		http:       cfg.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		logger:     cfg.Logger,
		sleep:      sleepContext,
	}
}

// APIError is a non-2xx CMA response.
type APIError struct {
	StatusCode int
	ID         string // sys.id of the error body, e.g. "NotFound", "AccessTokenInvalid"
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("contentful API returned %d", e.StatusCode)
	if e.ID != "" {
		msg += " " + e.ID
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RequestID != "" {
		msg += " (request " + e.RequestID + ")"
	}
	return msg
}

type errorBody struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

// GetContentTypes fetches every content type of an environment, following
// `total` pagination. Order is the order the API returns.
func (c *Client) GetContentTypes(ctx context.Context, spaceID, environmentID string) ([]ContentType, error) {
	if spaceID == "" || environmentID == "" {
		return nil, errors.NewInvalidRequestError("space and environment are required")
	}

	start := time.Now()
	var all []ContentType
	skip := 0
	for {
		page, err := c.fetchPage(ctx, spaceID, environmentID, skip)
		if err != nil {
			return nil, errors.Wrapf(err, "fetch content types (space %s, environment %s)", spaceID, environmentID)
		}

		all = append(all, page.Items...)
		skip += len(page.Items)

		c.logger.Debugw("fetched content type page",
			logger.FieldSpace, spaceID,
			logger.FieldEnvironment, environmentID,
			logger.FieldCount, len(page.Items),
			logger.FieldTotal, page.Total,
		)

		if len(page.Items) == 0 || skip >= page.Total {
			break
		}
	}

	c.logger.Infow("fetched content types",
		logger.FieldSpace, spaceID,
		logger.FieldEnvironment, environmentID,
		logger.FieldCount, len(all),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, spaceID, environmentID string, skip int) (*collection, error) {
	endpoint := fmt.Sprintf("%s/spaces/%s/environments/%s/content_types?%s",
		c.baseURL,
		url.PathEscape(spaceID),
		url.PathEscape(environmentID),
		url.Values{
			"skip":  {strconv.Itoa(skip)},
			"limit": {strconv.Itoa(c.pageSize)},
		}.Encode(),
	)

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limiter")
		}

		body, status, header, err := c.get(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		if status == http.StatusTooManyRequests {
			if attempt >= c.maxRetries {
				return nil, errors.Mark(newAPIError(status, body), errors.ErrRateLimited)
			}
			wait := resetDelay(header.Get("X-Contentful-RateLimit-Reset"))
			c.logger.Debugw("rate limited, waiting for reset",
				logger.FieldURL, endpoint,
				logger.FieldDurationMS, wait.Milliseconds(),
				"attempt", attempt+1,
			)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		if status < 200 || status > 299 {
			return nil, classify(newAPIError(status, body))
		}

		var page collection
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, errors.Wrap(err, "decode content type page")
		}
		return &page, nil
	}
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Contentful-User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, 0, nil, errors.Mark(errors.Wrap(err, "request"), errors.ErrTimeout)
		}
		return nil, 0, nil, errors.Wrap(err, "request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, nil, errors.Wrap(err, "read response")
	}
	return body, resp.StatusCode, resp.Header, nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		apiErr.ID = eb.Sys.ID
		apiErr.Message = eb.Message
		apiErr.RequestID = eb.RequestID
	}
	return apiErr
}

// classify marks API errors with the matching sentinel so callers can use errors.Is.
func classify(apiErr *APIError) error {
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.WithHint(errors.Mark(apiErr, errors.ErrUnauthorized),
			"check the management token (CF_MANAGER_TOKEN) has access to this space")
	case http.StatusNotFound:
		return errors.WithHint(errors.Mark(apiErr, errors.ErrNotFound),
			"check the space id (CF_SPACE_ID) and environment (CF_ENV)")
	default:
		return apiErr
	}
}

// resetDelay reads X-Contentful-RateLimit-Reset (seconds until the limit resets).
func resetDelay(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds < 0 {
		return time.Second
	}
	d := time.Duration(seconds) * time.Second
	if d > maxResetWait {
		return maxResetWait
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
