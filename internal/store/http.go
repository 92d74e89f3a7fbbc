package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const markersPath = "/api/v1/markers/"

// HTTP talks to a markerd service.
type HTTP struct {
	base        string
	client      *http.Client
	contentType string
}

// NewHTTP returns a client store for the service at baseURL. A nil client
// gets one with a short timeout.
func NewHTTP(baseURL string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &HTTP{
		base:        strings.TrimRight(baseURL, "/"),
		client:      client,
		contentType: "application/json",
	}
}

// WithContentType sets the media type records are sent and requested in.
func (h *HTTP) WithContentType(ct string) *HTTP {
	h.contentType = ct
	return h
}

func (h *HTTP) url(key string) string {
	return h.base + markersPath + url.PathEscape(key)
}

func (h *HTTP) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := h.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, statusError(http.MethodGet, key, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return data, nil
}

func (h *HTTP) Set(ctx context.Context, key string, data []byte) error {
	resp, err := h.do(ctx, http.MethodPut, key, data)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return statusError(http.MethodPut, key, resp)
	}

	return nil
}

func (h *HTTP) Delete(ctx context.Context, key string) error {
	resp, err := h.do(ctx, http.MethodDelete, key, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 && resp.StatusCode != http.StatusNotFound {
		return statusError(http.MethodDelete, key, resp)
	}

	return nil
}

func (h *HTTP) do(ctx context.Context, method, key string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.url(key), r)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", h.contentType)
	if body != nil {
		req.Header.Set("Content-Type", h.contentType)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, key, err)
	}

	return resp, nil
}

func statusError(method, key string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	return fmt.Errorf("%s %s: unexpected status %d: %s", method, key, resp.StatusCode, strings.TrimSpace(string(msg)))
}
