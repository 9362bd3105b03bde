package mcp

import (
	"context"
	"errors"
	"net/http"
	"os/exec"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Init resolves where a session's MCP server lives. It receives the run's
// context value, so credentials may differ per caller.
type Init[C any] func(ctx context.Context, contextVal C) (Params, error)

// Static returns an Init that always connects to the same server.
func Static[C any](params Params) Init[C] {
	return func(context.Context, C) (Params, error) { return params, nil }
}

// Params selects a server. Either Command or URL must be set; Command wins
// when both are.
type Params struct {
	// Command is launched as a child process speaking MCP on stdio.
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`

	// URL is a streamable HTTP endpoint.
	URL string `json:"url,omitempty"`
	// Authorization is sent as is, with "Bearer " added when missing.
	Authorization string       `json:"authorization,omitempty"`
	HTTPClient    *http.Client `json:"-"`
}

func (p Params) transport() (gomcp.Transport, error) {
	switch {
	case p.Command != "":
		return &gomcp.CommandTransport{Command: exec.Command(p.Command, p.Args...)}, nil
	case p.URL != "":
		transport := &gomcp.StreamableClientTransport{Endpoint: p.URL, HTTPClient: p.HTTPClient}
		if token := strings.TrimSpace(p.Authorization); token != "" {
			var client http.Client
			if p.HTTPClient != nil {
				client = *p.HTTPClient
			}
			base := client.Transport
			if base == nil {
				base = http.DefaultTransport
			}
			client.Transport = &bearerTransport{base: base, value: bearer(token)}
			transport.HTTPClient = &client
		}
		return transport, nil
	}
	return nil, errors.New("mcp: neither command nor url given")
}

type bearerTransport struct {
	base  http.RoundTripper
	value string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", t.value)
	return t.base.RoundTrip(req)
}

func bearer(token string) string {
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		return token
	}
	return "Bearer " + token
}
