// Package qdrant provides a vector index adapter speaking the Qdrant REST
// API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// DefaultTimeout bounds each request.
const DefaultTimeout = 15 * time.Second

// Config holds connection details for a Qdrant instance.
type Config struct {
	// URL is the base URL, e.g. http://localhost:6333.
	URL string

	// APIKey is optional; sent as the api-key header when set.
	APIKey string

	// Collection is the collection name.
	Collection string

	// Timeout bounds each request.
	Timeout time.Duration
}

// Store is a REST client for one Qdrant collection.
type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

// New creates a Qdrant store. It performs no network calls; collection
// existence is checked per operation.
func New(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant: %w: url is required", domain.ErrNotConfigured)
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant: %w: collection is required", domain.ErrNotConfigured)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// Provision ensures the collection exists with the given dimensionality and
// cosine distance. An existing collection is left untouched, so repeated
// provisioning is safe.
func (s *Store) Provision(ctx context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("qdrant: invalid dimensions %d", dimensions)
	}

	exists, err := s.collectionExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}
	if err := s.do(ctx, http.MethodPut, s.collectionURL(""), body, nil); err != nil {
		// Creation can lose a race and come back 409; the collection
		// existing is the goal either way.
		if exists, checkErr := s.collectionExists(ctx); checkErr == nil && exists {
			return nil
		}
		return err
	}
	return nil
}

func (s *Store) collectionExists(ctx context.Context) (bool, error) {
	err := s.do(ctx, http.MethodGet, s.collectionURL(""), nil, nil)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrIndexNotProvisioned):
		return false, nil
	default:
		return false, err
	}
}

// Upsert writes the batch of points with wait=true so a successful return
// means the entries are queryable.
func (s *Store) Upsert(ctx context.Context, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	points := make([]map[string]any, len(entries))
	for i, e := range entries {
		payload := make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			payload[k] = v
		}
		points[i] = map[string]any{
			// Qdrant point ids must be UUIDs or integers; the
			// content-addressed id is carried in the payload and a stable
			// numeric id is derived from it.
			"id":      pointID(e.ID),
			"vector":  e.Vector,
			"payload": payload,
		}
		payload["id"] = e.ID
	}
	body := map[string]any{"points": points}
	return s.do(ctx, http.MethodPut, s.collectionURL("/points?wait=true"), body, nil)
}

// Query runs a top-K similarity search.
func (s *Store) Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]domain.Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("qdrant: invalid topK %d", topK)
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": includeMetadata,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/search"), req, &resp); err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		m := domain.Match{Score: r.Score}
		if includeMetadata {
			m.Metadata = make(map[string]string, len(r.Payload))
			for k, v := range r.Payload {
				if str, ok := v.(string); ok {
					m.Metadata[k] = str
				}
			}
			m.ID = m.Metadata["id"]
		}
		if m.ID == "" {
			m.ID = fmt.Sprint(r.ID)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// Clear deletes every point via an empty filter, keeping the collection
// and its schema in place.
func (s *Store) Clear(ctx context.Context) error {
	body := map[string]any{"filter": map[string]any{}}
	return s.do(ctx, http.MethodPost, s.collectionURL("/points/delete?wait=true"), body, nil)
}

// Close releases resources.
func (s *Store) Close() error { return nil }

func (s *Store) collectionURL(suffix string) string {
	return s.url + "/collections/" + s.collection + suffix
}

// pointID folds the content-addressed entry id into an unsigned integer
// accepted by Qdrant. FNV-1a over the id string.
func pointID(id string) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	var h uint64 = offset
	for i := 0; i < len(id); i++ {
		h ^= uint64(id[i])
		h *= prime
	}
	return h
}

func (s *Store) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("qdrant: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("qdrant: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant: %w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("qdrant: collection %s: %w", s.collection, domain.ErrIndexNotProvisioned)
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("qdrant: %w: %s %s returned %s", domain.ErrBackendUnavailable, method, url, resp.Status)
	}
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("qdrant: %s %s failed: %s: %s", method, url, resp.Status, string(msg))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("qdrant: decode response: %w", err)
		}
	}
	return nil
}
