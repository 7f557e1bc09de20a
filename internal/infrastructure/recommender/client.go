package recommender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"booka-backend/pkg/metrics"
)

// Candidate is one ranked entry returned by the recommender
type Candidate struct {
	ID    int64
	Score float64
}

// Client is the call boundary to the graph/embedding recommendation service.
// Lookups never fail: errors are logged and degrade to an empty list.
type Client interface {
	SimilarBooks(ctx context.Context, bookID int64) []Candidate
	RecommendedBooks(ctx context.Context, profileID int64) []Candidate
	SimilarUsers(ctx context.Context, profileID int64) []Candidate
	RecordPreference(ctx context.Context, userID int64, bookIDs []int64) (int64, error)
}

const (
	relationBookToBooks = "booktobooks"
	relationUserToBooks = "usertobooks"
	relationUserToUsers = "usertousers"
	relationMakeProxy   = "makeasa"
)

var (
	ErrUnexpectedStatus = errors.New("recommender: unexpected status")
	ErrMalformedPayload = errors.New("recommender: malformed payload")
)

// Config for the HTTP client
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	MaxFailures  uint32
	OpenInterval time.Duration
}

type httpClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	breaker *breaker
}

// NewClient builds the recommender client guarded by a circuit breaker
func NewClient(cfg Config) Client {
	return newHTTPClient(cfg, &http.Client{})
}

func newHTTPClient(cfg Config, hc *http.Client) *httpClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		http:    hc,
		breaker: newBreaker("recommender", cfg.MaxFailures, cfg.OpenInterval),
	}
}

func (c *httpClient) SimilarBooks(ctx context.Context, bookID int64) []Candidate {
	return c.lookup(ctx, relationBookToBooks, bookID)
}

func (c *httpClient) RecommendedBooks(ctx context.Context, profileID int64) []Candidate {
	return c.lookup(ctx, relationUserToBooks, profileID)
}

func (c *httpClient) SimilarUsers(ctx context.Context, profileID int64) []Candidate {
	return c.lookup(ctx, relationUserToUsers, profileID)
}

// RecordPreference posts the selected books and returns the profile alias
func (c *httpClient) RecordPreference(ctx context.Context, userID int64, bookIDs []int64) (int64, error) {
	start := time.Now()

	body, err := json.Marshal(bookIDs)
	if err != nil {
		return 0, fmt.Errorf("encode selected books: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, c.url("cossim", relationMakeProxy, userID), body)
	if err != nil {
		metrics.RecordRecommenderCall(relationMakeProxy, outcomeOf(err), time.Since(start))
		return 0, err
	}

	profileID, err := decodeProfileID(raw)
	if err != nil {
		metrics.RecordRecommenderCall(relationMakeProxy, "malformed", time.Since(start))
		return 0, err
	}

	metrics.RecordRecommenderCall(relationMakeProxy, "success", time.Since(start))
	return profileID, nil
}

func (c *httpClient) lookup(ctx context.Context, relation string, id int64) []Candidate {
	start := time.Now()

	raw, err := c.do(ctx, http.MethodGet, c.url("gnn", relation, id), nil)
	if err == nil {
		var out []Candidate
		if out, err = decodeCandidates(raw); err == nil {
			metrics.RecordRecommenderCall(relation, "success", time.Since(start))
			return out
		}
	}

	metrics.RecordRecommenderCall(relation, outcomeOf(err), time.Since(start))
	log.Warn().Err(err).
		Str("relation", relation).
		Int64("id", id).
		Msg("[RECOMMENDER] lookup failed, using empty list")
	return []Candidate{}
}

func (c *httpClient) url(group, relation string, id int64) string {
	return c.baseURL + "/" + group + "/" + relation + "/" + strconv.FormatInt(id, 10)
}

// do executes one bounded request through the breaker and returns the body
func (c *httpClient) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.breaker.execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, url, err)
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, url)
		}
		return payload, nil
	})
}

// decodeCandidates parses [[id, score], ...] keeping the remote order
func decodeCandidates(raw []byte) ([]Candidate, error) {
	var pairs [][]float64
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	out := make([]Candidate, 0, len(pairs))
	for _, p := range pairs {
		if len(p) == 0 || p[0] != math.Trunc(p[0]) {
			continue
		}
		cand := Candidate{ID: int64(p[0])}
		if len(p) > 1 {
			cand.Score = p[1]
		}
		out = append(out, cand)
	}
	return out, nil
}

func decodeProfileID(raw []byte) (int64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if v != math.Trunc(v) || v <= 0 {
		return 0, fmt.Errorf("%w: profile id %v", ErrMalformedPayload, v)
	}
	return int64(v), nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrBreakerOpen):
		return "rejected"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed"
	default:
		return "failure"
	}
}
