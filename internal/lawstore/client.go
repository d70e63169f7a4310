// Package lawstore is the HTTP client for the persistence sink. The
// segmentation core never calls it; only the pipeline and API handlers do.
package lawstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client communicates with the lawstore HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ServerError marks a 5xx response; these are retryable.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("lawstore: server error %d: %s", e.Status, e.Body)
}

// IsRetryable reports whether an error is worth retrying: server errors
// and transport failures, not client mistakes.
func IsRetryable(err error) bool {
	var srv *ServerError
	return errors.As(err, &srv)
}

// SectionRequest is the body for PUT /sections/{id}.
type SectionRequest struct {
	Heading  string `json:"heading,omitempty"`
	Text     string `json:"text"`
	Verified bool   `json:"verified"`
	Source   string `json:"source,omitempty"`
}

// SubunitRequest is the body for PUT /sections/{id}/subunits/{subID}.
// This is the persistence payload the segmentation core produces.
type SubunitRequest struct {
	Type     string `json:"type"`
	ParentID string `json:"parent_id"`
	Marker   string `json:"marker"`
	SortKey  string `json:"sort_key"`
	Text     string `json:"text"`
}

// PutSection stores or replaces a section's own record.
func (c *Client) PutSection(ctx context.Context, id string, req SectionRequest) error {
	return c.put(ctx, "/sections/"+id, req)
}

// PutSubunit stores one flat subunit record under a section.
func (c *Client) PutSubunit(ctx context.Context, sectionID, subunitID string, req SubunitRequest) error {
	return c.put(ctx, "/sections/"+sectionID+"/subunits/"+subunitID, req)
}

// DeleteSection removes a section and all of its subunits.
func (c *Client) DeleteSection(ctx context.Context, id string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/sections/"+id, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusErr("delete section "+id, resp)
	}
	return nil
}

// Health pings the store.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusErr("health", resp)
	}
	return nil
}

func (c *Client) put(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusErr("put "+path, resp)
	}
	return nil
}

func statusErr(op string, resp *http.Response) error {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%s: %w", op, &ServerError{Status: resp.StatusCode, Body: string(respBody)})
	}
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(respBody))
}

// Close releases any resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
