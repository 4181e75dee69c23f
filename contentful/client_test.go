package contentful

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/time/rate"

	"github.com/teranos/contentful-typegen/errors"
	"github.com/teranos/contentful-typegen/internal/httpclient"
)

func newTestClient(t *testing.T, handler http.Handler, pageSize int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(ClientConfig{
		Token:      "secret-token",
		BaseURL:    server.URL + "/",
		RateLimit:  1000,
		PageSize:   pageSize,
		HTTPClient: httpclient.WrapClient(server.Client()),
		Logger:     zaptest.NewLogger(t).Sugar(),
	})
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func contentTypeNamed(id string) ContentType {
	return ContentType{Sys: Sys{ID: id, Type: "ContentType"}, Name: id}
}

func TestGetContentTypesPaginates(t *testing.T) {
	all := []ContentType{contentTypeNamed("a"), contentTypeNamed("b"), contentTypeNamed("c")}

	var requests int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		assert.Equal(t, "/spaces/space1/environments/master/content_types", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("X-Contentful-User-Agent"), "contentful-typegen")

		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		assert.Equal(t, 2, limit)

		end := skip + limit
		if end > len(all) {
			end = len(all)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"sys":   map[string]string{"type": "Array"},
			"total": len(all),
			"skip":  skip,
			"limit": limit,
			"items": all[skip:end],
		})
	})

	c := newTestClient(t, handler, 2)
	got, err := c.GetContentTypes(context.Background(), "space1", "master")
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, ct := range got {
		ids[i] = ct.ID()
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestGetContentTypesEmptySpace(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sys":{"type":"Array"},"total":0,"skip":0,"limit":100,"items":[]}`)
	})

	got, err := newTestClient(t, handler, 0).GetContentTypes(context.Background(), "s", "e")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetContentTypesRetriesRateLimit(t *testing.T) {
	var requests int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) <= 2 {
			w.Header().Set("X-Contentful-RateLimit-Reset", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"sys":{"id":"RateLimitExceeded"},"message":"slow down"}`)
			return
		}
		fmt.Fprint(w, `{"total":1,"items":[{"sys":{"id":"article"},"name":"Article","fields":[]}]}`)
	})

	c := newTestClient(t, handler, 100)
	var waits []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	got, err := c.GetContentTypes(context.Background(), "s", "e")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, waits)
}

func TestGetContentTypesGivesUpAfterRetries(t *testing.T) {
	var requests int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := newTestClient(t, handler, 100).GetContentTypes(context.Background(), "s", "e")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRateLimited))
	assert.Equal(t, int32(defaultMaxRetries+1), atomic.LoadInt32(&requests))
}

func TestGetContentTypesErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		wantID   string
	}{
		{
			name:     "bad token",
			status:   http.StatusUnauthorized,
			body:     `{"sys":{"type":"Error","id":"AccessTokenInvalid"},"message":"The access token you sent could not be found or is invalid.","requestId":"req-1"}`,
			sentinel: errors.ErrUnauthorized,
			wantID:   "AccessTokenInvalid",
		},
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			body:     `{"sys":{"id":"AccessDenied"}}`,
			sentinel: errors.ErrUnauthorized,
			wantID:   "AccessDenied",
		},
		{
			name:     "unknown space",
			status:   http.StatusNotFound,
			body:     `{"sys":{"type":"Error","id":"NotFound"},"message":"The resource could not be found."}`,
			sentinel: errors.ErrNotFound,
			wantID:   "NotFound",
		},
		{
			name:   "server error without body",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := newTestClient(t, handler, 100).GetContentTypes(context.Background(), "s", "e")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantID, apiErr.ID)

			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel))
				assert.NotEmpty(t, errors.GetAllHints(err))
			} else {
				assert.False(t, errors.IsAny(err, errors.ErrUnauthorized, errors.ErrNotFound))
			}
		})
	}
}

func TestGetContentTypesRequiresSpaceAndEnvironment(t *testing.T) {
	c := NewClient(ClientConfig{Token: "t"})
	_, err := c.GetContentTypes(context.Background(), "", "master")
	assert.True(t, errors.IsInvalidRequestError(err))
	_, err = c.GetContentTypes(context.Background(), "space", "")
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestGetContentTypesCancelled(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c := newTestClient(t, handler, 100)
	c.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetContentTypes(ctx, "s", "e")
	assert.Error(t, err)
}

func TestResetDelay(t *testing.T) {
	assert.Equal(t, 2*time.Second, resetDelay("2"))
	assert.Equal(t, time.Duration(0), resetDelay("0"))
	assert.Equal(t, time.Second, resetDelay(""))
	assert.Equal(t, time.Second, resetDelay("soon"))
	assert.Equal(t, maxResetWait, resetDelay("3600"))
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(ClientConfig{Token: "t", PageSize: 5000})
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, MaxPageSize, c.pageSize)
	assert.Equal(t, defaultMaxRetries, c.maxRetries)
	assert.Equal(t, rate.Limit(DefaultRateLimit), c.limiter.Limit())
}
