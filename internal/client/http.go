package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

// HTTPClient calls the eventlog HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a client targeting baseURL (e.g.
// "http://localhost:8080"). When token is non-empty it is sent as a bearer
// token on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

func (c *HTTPClient) CreateEvent(ctx context.Context, req *CreateEventRequest) (*CreateEventResponse, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/v1/events", req, &raw); err != nil {
		return nil, err
	}

	var skipped struct {
		Skipped bool `json:"skipped"`
	}
	if err := json.Unmarshal(raw, &skipped); err == nil && skipped.Skipped {
		return &CreateEventResponse{Skipped: true}, nil
	}

	var ev model.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &CreateEventResponse{Event: &ev}, nil
}

func (c *HTTPClient) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	var ev model.Event
	if err := c.doJSON(ctx, http.MethodGet, "/v1/events/"+strconv.FormatInt(id, 10), nil, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *HTTPClient) ListEvents(ctx context.Context, req *ListEventsRequest) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/events"+listQuery(req), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CountEvents counts matching events. Paging fields of req are ignored.
func (c *HTTPClient) CountEvents(ctx context.Context, req *ListEventsRequest) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/events/count"+listQuery(req), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *HTTPClient) DeleteEvent(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/events/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *HTTPClient) ListTypes(ctx context.Context) ([]TypeInfo, error) {
	var resp struct {
		Types []TypeInfo `json:"types"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/types", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Types, nil
}

func (c *HTTPClient) GetType(ctx context.Context, slug string) (*model.EventType, error) {
	var t model.EventType
	if err := c.doJSON(ctx, http.MethodGet, "/v1/types/"+url.PathEscape(slug), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Health returns the server's reported status ("ok").
func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func listQuery(req *ListEventsRequest) string {
	if req == nil {
		return ""
	}
	q := url.Values{}
	if req.Keywords != "" {
		q.Set("keywords", req.Keywords)
	}
	if req.Filter != "" {
		q.Set("filter", req.Filter)
	}
	if req.OrderBy != "" {
		q.Set("order_by", req.OrderBy)
	}
	if req.Page != 0 {
		q.Set("page", strconv.Itoa(req.Page))
	}
	if req.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(req.PerPage))
	}
	if req.Type != "" {
		q.Set("type", req.Type)
	}
	if req.User != 0 {
		q.Set("user", strconv.FormatInt(req.User, 10))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
