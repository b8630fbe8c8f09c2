package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const errorBodyPreviewLimit = 2048

// Endpoint names one provider operation and the URL serving it.
type Endpoint struct {
	Name string
	URL  string
}

// Credentials is the Basic auth pair shared by every provider call.
type Credentials struct {
	Username string
	Secret   string
}

// Client sends authenticated JSON POSTs to the SERP provider. It holds no
// per-request state and is safe for concurrent use.
type Client struct {
	credentials Credentials
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a new Client.
func NewClient(credentials Credentials, timeout time.Duration, logger *zap.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 32

	return &Client{
		credentials: credentials,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// Call posts payload as JSON to the endpoint and returns the decoded response
// body. Numbers in the body are kept as json.Number. It makes exactly one
// attempt.
func (c *Client) Call(ctx context.Context, ep Endpoint, payload any) (any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", ep.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Endpoint: ep.Name, Err: err}
	}
	req.SetBasicAuth(c.credentials.Username, c.credentials.Secret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("upstream call failed",
			zap.String("endpoint", ep.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, &TransportError{Endpoint: ep.Name, Err: err}
	}
	defer func() {
		_ = resp.Body.Close() // Explicitly ignore close error
	}()

	c.logger.Debug("upstream call completed",
		zap.String("endpoint", ep.Name),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyPreviewLimit))
		return nil, &StatusError{Endpoint: ep.Name, StatusCode: resp.StatusCode, Body: string(preview)}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &MalformedBodyError{Endpoint: ep.Name, Err: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		return nil, &MalformedBodyError{Endpoint: ep.Name, Err: err}
	}

	return doc, nil
}
