package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/abhisek/storymath/internal/problem"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// HTTPGateway implements Gateway against the backend's JSON API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

var _ Gateway = (*HTTPGateway)(nil)

// NewHTTPGateway creates a gateway for cfg.BaseURL.
func NewHTTPGateway(cfg Config) *HTTPGateway {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(base, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// envelope is the backend's response wrapper.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (g *HTTPGateway) ListProblems(ctx context.Context) ([]problem.Problem, error) {
	var out []problem.Problem
	if err := g.do(ctx, http.MethodGet, EndpointProblems, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *HTTPGateway) GetProgress(ctx context.Context, userID string) (*problem.ProgressStats, error) {
	var out struct {
		Stats *problem.ProgressStats `json:"stats"`
	}
	if err := g.do(ctx, http.MethodGet, EndpointProgress+"/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	if out.Stats == nil {
		return nil, &UnavailableError{Err: errors.New("progress response has no stats")}
	}
	return out.Stats, nil
}

func (g *HTTPGateway) SubmitAnswer(ctx context.Context, sub Submission) (*problem.SubmissionResult, error) {
	var out *problem.SubmissionResult
	if err := g.do(ctx, http.MethodPost, EndpointSubmit, sub, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &UnavailableError{Err: errors.New("submit response has no result")}
	}
	return out, nil
}

func (g *HTTPGateway) GetExplanation(ctx context.Context, problemID string) (*problem.DetailedExplanation, error) {
	var out *problem.DetailedExplanation
	if err := g.do(ctx, http.MethodGet, EndpointExplain+"/"+url.PathEscape(problemID), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &UnavailableError{Err: errors.New("explain response has no data")}
	}
	return out, nil
}

// do performs one request and decodes the envelope's data into out.
func (g *HTTPGateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &UnavailableError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &UnavailableError{Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && env.Error != "" {
			return &RejectedError{Status: resp.StatusCode, Message: env.Error}
		}
		return &UnavailableError{Status: resp.StatusCode}
	}

	if decodeErr != nil {
		return &UnavailableError{Status: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", decodeErr)}
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &UnavailableError{Status: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}
