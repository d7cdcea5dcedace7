package es

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/closepointintime"
)

// Backend runs built requests. Executor is the Elasticsearch implementation.
type Backend interface {
	Search(ctx context.Context, req *Request) (*Response, error)
	OpenPointInTime(ctx context.Context, keepAlive time.Duration) (string, error)
	ClosePointInTime(ctx context.Context, id string) error
}

// BackendError is a non-2xx answer from the search backend.
type BackendError struct {
	Status int
	Body   string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("es status %d: %s", e.Status, e.Body)
}

// Executor issues exactly one backend call per method, without retries.
type Executor struct {
	client    *elasticsearch.TypedClient
	indexName string
}

var _ Backend = (*Executor)(nil)

func NewExecutor(config ClientConfig) (*Executor, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Executor{
		client:    client,
		indexName: config.IndexName,
	}, nil
}

// Search performs one _search call. The index is not addressed when the
// request reads from a point in time.
func (e *Executor) Search(ctx context.Context, req *Request) (*Response, error) {
	call := e.client.Search().
		Request(req.Body).
		RequestCache(req.RequestCache)
	if !req.PointInTime {
		call = call.Index(e.indexName)
	}

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		if body, err := json.Marshal(req.Body); err == nil {
			slog.Debug("Elasticsearch search request", "index", e.indexName, "body", string(body))
		}
	}

	res, err := call.Perform(ctx)
	if err != nil {
		return nil, fmt.Errorf("es request: %w", err)
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return nil, err
	}

	return DecodeResponse(res.Body)
}

type openPointInTimeResponse struct {
	ID string `json:"id"`
}

// OpenPointInTime pins the current state of the index for keepAlive.
func (e *Executor) OpenPointInTime(ctx context.Context, keepAlive time.Duration) (string, error) {
	res, err := e.client.OpenPointInTime(e.indexName).
		KeepAlive(FormatKeepAlive(keepAlive)).
		Perform(ctx)
	if err != nil {
		return "", fmt.Errorf("es open point in time: %w", err)
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return "", err
	}

	var pit openPointInTimeResponse
	if err := json.NewDecoder(res.Body).Decode(&pit); err != nil {
		return "", fmt.Errorf("es parse point in time: %w", err)
	}
	if pit.ID == "" {
		return "", fmt.Errorf("es returned an empty point in time id")
	}
	return pit.ID, nil
}

// ClosePointInTime releases a point in time. An unknown id is not an error.
func (e *Executor) ClosePointInTime(ctx context.Context, id string) error {
	res, err := e.client.ClosePointInTime().
		Request(&closepointintime.Request{Id: id}).
		Perform(ctx)
	if err != nil {
		return fmt.Errorf("es close point in time: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return checkStatus(res)
}

// Ping reports whether the cluster answers.
func (e *Executor) Ping(ctx context.Context) error {
	ok, err := e.client.Ping().IsSuccess(ctx)
	if err != nil {
		return fmt.Errorf("es ping: %w", err)
	}
	if !ok {
		return fmt.Errorf("es ping: cluster not reachable")
	}
	return nil
}

func checkStatus(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("es read response: %w", err)
	}
	return &BackendError{Status: res.StatusCode, Body: string(body)}
}
