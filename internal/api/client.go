package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const basePath = "/api/v1"

// StatusError reports a non-200 response from the scan server. Body carries
// whatever the server sent, which for scan failures is a diagnostic message.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return "unexpected status " + strconv.Itoa(e.Code)
}

// Client talks to a scanservjs-style server. One method per endpoint, no
// retries: a failed call is surfaced to the caller, which decides whether
// to continue.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New returns a client for the given server URL ("http://scan.home").
// No request timeout is set here; callers bound calls with a context.
func New(server string) *Client {
	return &Client{
		baseURL: strings.TrimRight(server, "/"),
		httpc:   &http.Client{},
	}
}

// Context fetches the server context, which includes the device list.
func (c *Client) Context(ctx context.Context) (ContextResponse, error) {
	var out ContextResponse
	body, err := c.get(ctx, "/context")
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode context: %w", err)
	}
	return out, nil
}

// Files lists the scanned files currently stored on the server.
func (c *Client) Files(ctx context.Context) ([]RemoteFile, error) {
	body, err := c.get(ctx, "/files")
	if err != nil {
		return nil, err
	}
	var files []RemoteFile
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, fmt.Errorf("decode files: %w", err)
	}
	return files, nil
}

// File fetches the raw bytes of one stored file by name.
func (c *Client) File(ctx context.Context, name string) ([]byte, error) {
	return c.get(ctx, "/files/"+name)
}

// Scan submits a scan request and returns the server's result.
func (c *Client) Scan(ctx context.Context, scanReq ScanRequest) (ScanResult, error) {
	var out ScanResult

	payload, err := json.Marshal(scanReq)
	if err != nil {
		return out, fmt.Errorf("encode scan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+basePath+"/scan", bytes.NewReader(payload))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode scan result: %w", err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+basePath+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scan server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scan server: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
