// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for the local Ollama generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the inference client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int // Set for ErrTypeBadStatus
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	// ErrTypeConnection covers transport failures: connection refused,
	// DNS failure, timeout.
	ErrTypeConnection
	// ErrTypeBadStatus means the server answered with a non-2xx status;
	// StatusCode carries the code.
	ErrTypeBadStatus
	// ErrTypeMalformed means the body was not valid JSON or lacked the
	// expected response field.
	ErrTypeMalformed
)

// IsConnectionError reports whether err is a transport failure.
func IsConnectionError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrTypeConnection
}

// IsBadStatus reports whether err is a non-2xx response. The second return
// value is the HTTP status code when it is.
func IsBadStatus(err error) (bool, int) {
	var clientErr *ClientError
	if errors.As(err, &clientErr) && clientErr.Type == ErrTypeBadStatus {
		return true, clientErr.StatusCode
	}
	return false, 0
}

// IsMalformed reports whether err is a malformed-response error.
func IsMalformed(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrTypeMalformed
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the inference client.
type ClientConfig struct {
	// Endpoint is the full generate API URL
	// (default: http://localhost:11434/api/generate)
	Endpoint string

	// Model is the model identifier sent with every request (default: "llama2")
	Model string

	// Timeout for the whole request/response exchange (default: 60s).
	// This is the transport-level default; the client imposes no
	// scheduling of its own.
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Endpoint: "http://localhost:11434/api/generate",
		Model:    "llama2",
		Timeout:  60 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client performs single request/response exchanges with the generate API.
// It never retries and caches nothing; every call is one POST.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	if config.Endpoint == "" {
		config.Endpoint = "http://localhost:11434/api/generate"
	}
	if config.Model == "" {
		config.Model = "llama2"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// =============================================================================
// GENERATE
// =============================================================================

// Generate sends the prompt to the configured endpoint and returns the
// reply text from the response's `response` field. The request asks for a
// whole (non-streamed) reply.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := GenerateRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		Stream: false,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ClientError{Type: ErrTypeMalformed, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &ClientError{Type: ErrTypeConnection, Message: "request timed out", Cause: err}
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "cannot reach inference server", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		return "", &ClientError{
			Type:       ErrTypeBadStatus,
			Message:    "inference server returned status " + strconv.Itoa(resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to read response body", Cause: err}
	}

	// Decode to raw fields first so a missing `response` key can be told
	// apart from a legitimately empty reply.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", &ClientError{Type: ErrTypeMalformed, Message: "response body is not valid JSON", Cause: err}
	}

	field, ok := raw["response"]
	if !ok {
		return "", &ClientError{Type: ErrTypeMalformed, Message: "response body lacks the 'response' field"}
	}

	var reply string
	if err := json.Unmarshal(field, &reply); err != nil {
		return "", &ClientError{Type: ErrTypeMalformed, Message: "'response' field is not a string", Cause: err}
	}

	return reply, nil
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckReachable verifies that the inference server answers at all. It
// issues a GET against the endpoint's origin; any HTTP answer counts as
// reachable.
func (c *Client) CheckReachable(ctx context.Context) error {
	origin, err := endpointOrigin(c.config.Endpoint)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "invalid endpoint", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "cannot reach inference server", Cause: err}
	}
	drain(resp.Body)
	return nil
}

// =============================================================================
// UTILITY METHODS
// =============================================================================

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// SetModel updates the model identifier.
func (c *Client) SetModel(model string) {
	c.config.Model = model
}

// drain discards and closes a response body so the connection can be reused.
func drain(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
