package facility

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

	apperrors "github.com/wateralmanak/facility-console/internal/errors"
)

const resourcePath = "/voorzieningen"

// Options configures the facility API client.
type Options struct {
	// BaseURL is the API root, e.g. "http://dev.localhost/api".
	BaseURL string
	// HTTPClient performs the requests; its transport is expected to carry
	// the bearer-attaching authorizer. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Client is a thin CRUD gateway to the voorzieningen resource. Every call is
// a fresh round trip: no retries, no caching. Failures are reported as
// *apperrors.RequestFailure.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given API root.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimSuffix(opts.BaseURL, "/")
	if base == "" {
		return nil, errors.New("facility API base URL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: base, http: httpClient}, nil
}

// List retrieves all facility records in backend order.
func (c *Client) List(ctx context.Context) ([]Facility, error) {
	var out []Facility
	if err := c.do(ctx, http.MethodGet, resourcePath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get retrieves one record by ID.
func (c *Client) Get(ctx context.Context, id string) (Facility, error) {
	var out Facility
	if err := c.do(ctx, http.MethodGet, resourcePath+"/"+url.PathEscape(id), nil, &out); err != nil {
		return Facility{}, err
	}
	return out, nil
}

// Create persists a draft and returns the record with its assigned ID.
func (c *Client) Create(ctx context.Context, rec Facility) (Facility, error) {
	rec.ID = "" // the backend assigns IDs
	var out Facility
	if err := c.do(ctx, http.MethodPost, resourcePath, &rec, &out); err != nil {
		return Facility{}, err
	}
	return out, nil
}

// Update replaces the full record with the given ID.
func (c *Client) Update(ctx context.Context, id string, rec Facility) (Facility, error) {
	var out Facility
	if err := c.do(ctx, http.MethodPut, resourcePath+"/"+url.PathEscape(id), &rec, &out); err != nil {
		return Facility{}, err
	}
	return out, nil
}

// Delete removes the record with the given ID. Success is a 2xx with an
// empty body.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, resourcePath+"/"+url.PathEscape(id), nil, nil)
}

// errorBody is the JSON error envelope some backends answer with.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do performs one request and decodes the response or maps the failure.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.WrapRequestFailure(err, "encode request body")
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return apperrors.WrapRequestFailure(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.WrapRequestFailure(err, fmt.Sprintf("%s %s", method, path))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.WrapRequestFailure(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewRequestFailure(resp.StatusCode, failureMessage(resp.StatusCode, respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return apperrors.WrapRequestFailure(err, "decode response body")
		}
	}
	return nil
}

// failureMessage prefers the backend's own message over the status text.
func failureMessage(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	return http.StatusText(status)
}
