package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/entity-search/internal/apperr"
	"github.com/DjordjeVuckovic/entity-search/internal/dto"
	"github.com/DjordjeVuckovic/entity-search/internal/storage"
	"github.com/DjordjeVuckovic/entity-search/internal/types/filter"
	"github.com/DjordjeVuckovic/entity-search/internal/types/query"
	"github.com/DjordjeVuckovic/entity-search/pkg/pagination"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	op        string
	query     storage.SearchQuery
	entities  []string
	filter    *filter.Filter
	sort      *query.SortCriterion
	field     string
	scrollID  string
	keepAlive time.Duration
	from      int
	size      int
}

type fakeSearcher struct {
	calls []call
	err   error
}

func (f *fakeSearcher) Search(_ context.Context, q storage.SearchQuery, from, size int) (*dto.SearchResult, error) {
	f.calls = append(f.calls, call{op: "search", query: q, from: from, size: size})
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SearchResult{Entities: []dto.SearchEntity{}, From: from, PageSize: size}, nil
}

func (f *fakeSearcher) Scroll(_ context.Context, q storage.SearchQuery, scrollID string, keepAlive time.Duration, size int) (*dto.ScrollResult, error) {
	f.calls = append(f.calls, call{op: "scroll", query: q, scrollID: scrollID, keepAlive: keepAlive, size: size})
	if f.err != nil {
		return nil, f.err
	}
	next := "next-page"
	return &dto.ScrollResult{Entities: []dto.SearchEntity{}, ScrollID: &next, PageSize: size}, nil
}

func (f *fakeSearcher) Filter(_ context.Context, entities []string, fl *filter.Filter, sort *query.SortCriterion, from, size int) (*dto.SearchResult, error) {
	f.calls = append(f.calls, call{op: "filter", entities: entities, filter: fl, sort: sort, from: from, size: size})
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SearchResult{Entities: []dto.SearchEntity{}, From: from, PageSize: size}, nil
}

func (f *fakeSearcher) ScrollFilter(_ context.Context, entities []string, fl *filter.Filter, sort *query.SortCriterion, scrollID string, keepAlive time.Duration, size int) (*dto.ScrollResult, error) {
	f.calls = append(f.calls, call{op: "scroll_filter", entities: entities, filter: fl, sort: sort, scrollID: scrollID, keepAlive: keepAlive, size: size})
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ScrollResult{Entities: []dto.SearchEntity{}, PageSize: size}, nil
}

func (f *fakeSearcher) Aggregate(_ context.Context, entities []string, field string, fl *filter.Filter, limit int) (map[string]int64, error) {
	f.calls = append(f.calls, call{op: "aggregate", entities: entities, field: field, filter: fl, size: limit})
	if f.err != nil {
		return nil, f.err
	}
	return map[string]int64{"snowflake": 3}, nil
}

func newTestServer(searcher storage.EntitySearcher) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	NewSearchRouter(e, searcher).Bind()
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSearchHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		check      func(t *testing.T, c call)
	}{
		{
			name:       "defaults",
			body:       `{"input":"  revenue "}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, c call) {
				assert.Equal(t, "revenue", c.query.Input)
				assert.Equal(t, 0, c.from)
				assert.Equal(t, pagination.PageDefaultSize, c.size)
				assert.Nil(t, c.query.Sort)
			},
		},
		{
			name:       "zero size is passed through",
			body:       `{"input":"*","size":0,"entities":["dataset, chart"]}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, c call) {
				assert.Equal(t, 0, c.size)
				assert.Equal(t, []string{"dataset", "chart"}, c.query.Entities)
			},
		},
		{
			name:       "sort and filter",
			body:       `{"input":"x","from":20,"size":5,"sort":{"field":"name","order":"asc"},"filter":{"or":[{"and":[{"field":"platform","values":["snowflake"]}]}]}}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, c call) {
				assert.Equal(t, 20, c.from)
				assert.Equal(t, 5, c.size)
				require.NotNil(t, c.query.Sort)
				assert.Equal(t, query.Ascending, c.query.Sort.Order)
				assert.True(t, c.query.Filter.References("platform"))
			},
		},
		{name: "negative from", body: `{"input":"x","from":-1}`, wantStatus: http.StatusBadRequest},
		{name: "bad sort order", body: `{"input":"x","sort":{"field":"name","order":"up"}}`, wantStatus: http.StatusBadRequest},
		{name: "criterion without values", body: `{"filter":{"or":[{"and":[{"field":"platform"}]}]}}`, wantStatus: http.StatusBadRequest},
		{name: "negative maxAggValues", body: `{"flags":{"maxAggValues":-1}}`, wantStatus: http.StatusBadRequest},
		{name: "malformed body", body: `{"input":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSearcher{}
			rec := doJSON(t, newTestServer(fake), http.MethodPost, "/entities/search", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.check != nil {
				require.Len(t, fake.calls, 1)
				tt.check(t, fake.calls[0])
			} else {
				assert.Empty(t, fake.calls)
			}
		})
	}
}

func TestScrollHandler(t *testing.T) {
	fake := &fakeSearcher{}
	rec := doJSON(t, newTestServer(fake), http.MethodPost, "/entities/scroll", `{"input":"x","scrollId":"abc","keepAlive":"2m","size":25}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "abc", fake.calls[0].scrollID)
	assert.Equal(t, 2*time.Minute, fake.calls[0].keepAlive)
	assert.Equal(t, 25, fake.calls[0].size)

	var body dto.ScrollResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.ScrollID)
	assert.Equal(t, "next-page", *body.ScrollID)
}

func TestScrollHandler_PageSize(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantSize int
	}{
		{"default size", `{"input":"x"}`, http.StatusOK, pagination.PageDefaultSize},
		{"zero size rejected", `{"input":"x","size":0}`, http.StatusBadRequest, 0},
		{"negative size rejected", `{"input":"x","size":-3}`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSearcher{}
			rec := doJSON(t, newTestServer(fake), http.MethodPost, "/entities/scroll", tt.body)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusOK {
				assert.Empty(t, fake.calls)
				return
			}
			require.Len(t, fake.calls, 1)
			assert.Equal(t, tt.wantSize, fake.calls[0].size)
		})
	}
}

func TestScrollHandler_CursorErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", fmt.Errorf("scroll: %w", apperr.ErrInvalidCursor), http.StatusBadRequest},
		{"expired", fmt.Errorf("scroll: %w", apperr.ErrExpiredCursor), http.StatusGone},
		{"backend", fmt.Errorf("failed to execute scroll: boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSearcher{err: tt.err}
			rec := doJSON(t, newTestServer(fake), http.MethodPost, "/entities/scroll", `{"scrollId":"abc"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestFilterHandler(t *testing.T) {
	t.Run("offset", func(t *testing.T) {
		fake := &fakeSearcher{}
		rec := doJSON(t, newTestServer(fake), http.MethodPost, "/entities/filter", `{"entities":["dataset"],"from":10,"size":10}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Len(t, fake.calls, 1)
		assert.Equal(t, "filter", fake.calls[0].op)
		assert.Equal(t, 10, fake.calls[0].from)
		assert.Equal(t, []string{"dataset"}, fake.calls[0].entities)
	})

	t.Run("keep alive switches to scroll", func(t *testing.T) {
		fake := &fakeSearcher{}
		rec := doJSON(t, newTestServer(fake), http.MethodPost, "/entities/filter", `{"keepAlive":"1m","size":50}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Len(t, fake.calls, 1)
		assert.Equal(t, "scroll_filter", fake.calls[0].op)
		assert.Equal(t, "", fake.calls[0].scrollID)
		assert.Equal(t, time.Minute, fake.calls[0].keepAlive)
		assert.Equal(t, 50, fake.calls[0].size)
	})

	t.Run("invalid keep alive", func(t *testing.T) {
		fake := &fakeSearcher{}
		rec := doJSON(t, newTestServer(fake), http.MethodPost, "/entities/filter", `{"keepAlive":"forever"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, fake.calls)
	})
}

func TestAggregateHandler(t *testing.T) {
	f := url.QueryEscape(`{"or":[{"and":[{"field":"origin","values":["PROD"]}]}]}`)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		check      func(t *testing.T, c call)
	}{
		{
			name:       "field with filter",
			target:     "/entities/aggregate?entity=dataset&entity=chart&field=platform&limit=5&filter=" + f,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, c call) {
				assert.Equal(t, []string{"dataset", "chart"}, c.entities)
				assert.Equal(t, "platform", c.field)
				assert.Equal(t, 5, c.size)
				assert.True(t, c.filter.References("origin"))
			},
		},
		{
			name:       "no limit",
			target:     "/entities/aggregate?field=platform",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, c call) {
				assert.Equal(t, 0, c.size)
				assert.Nil(t, c.filter)
			},
		},
		{name: "missing field", target: "/entities/aggregate", wantStatus: http.StatusBadRequest},
		{name: "bad limit", target: "/entities/aggregate?field=platform&limit=-2", wantStatus: http.StatusBadRequest},
		{name: "bad filter", target: "/entities/aggregate?field=platform&filter=%7B", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSearcher{}
			rec := doJSON(t, newTestServer(fake), http.MethodGet, tt.target, "")

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.check == nil {
				assert.Empty(t, fake.calls)
				return
			}
			require.Len(t, fake.calls, 1)
			tt.check(t, fake.calls[0])

			var body AggregateResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, int64(3), body.Counts["snowflake"])
		})
	}
}
