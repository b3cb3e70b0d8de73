// Package apiclient is the single outbound path to the retail API. Every
// request is decorated here and nowhere else.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// TokenSource supplies the current bearer credential, "" when signed out.
type TokenSource interface {
	Credential() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New returns a client for baseURL. No timeout is imposed unless the given
// http.Client carries one.
func New(baseURL string, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

func defaultHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	return h
}

// Do sends one request. body, when non-nil, is JSON encoded. Caller headers
// override the JSON defaults; a bearer token is attached when one is held.
// The response status is not interpreted and nothing is retried.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}

	merged := defaultHeaders()
	for k, vs := range headers {
		merged.Del(k)
		for _, v := range vs {
			merged.Add(k, v)
		}
	}
	if c.tokens != nil {
		if token := c.tokens.Credential(); token != "" {
			merged.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header = merged

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}
