// Package clientutils holds the small HTTP helpers shared by the API clients.
package clientutils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

type JSONRequestConfig struct {
	URL     string
	Headers map[string]string
	Body    any
}

type GetRequestConfig struct {
	URL string
	// Query is merged into any query already present in URL.
	Query   url.Values
	Headers map[string]string
}

// StatusError reports a non-2xx answer. URL never includes the query string.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s answered %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// DoJSON POSTs config.Body as JSON and decodes the answer into a T.
func DoJSON[T any](ctx context.Context, client *http.Client, config JSONRequestConfig) (*T, error) {
	payload, err := json.Marshal(config.Body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	setHeaders(req, config.Headers)

	body, err := send(client, req)
	if err != nil {
		return nil, err
	}

	out := new(T)
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// DoGet issues a GET and returns the raw body.
func DoGet(ctx context.Context, client *http.Client, config GetRequestConfig) ([]byte, error) {
	u, err := url.Parse(config.URL)
	if err != nil {
		return nil, err
	}
	if len(config.Query) > 0 {
		q := u.Query()
		for key, values := range config.Query {
			q[key] = append(q[key], values...)
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	setHeaders(req, config.Headers)

	return send(client, req)
}

func setHeaders(req *http.Request, headers map[string]string) {
	for key, value := range headers {
		req.Header.Set(key, value)
	}
}

// send uses http.DefaultClient when client is nil.
func send(client *http.Client, req *http.Request) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = withoutQuery(req.URL)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return nil, &StatusError{URL: withoutQuery(req.URL), StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// withoutQuery drops the query string, which may carry API keys.
func withoutQuery(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	return c.String()
}
