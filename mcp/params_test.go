package mcp

import (
	"net/http"
	"testing"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type nopTransport struct{}

func (nopTransport) RoundTrip(*http.Request) (*http.Response, error) { return nil, nil }

func TestParamsTransport_AuthorizationKeepsClientSettings(t *testing.T) {
	redirect := func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	base := nopTransport{}
	caller := &http.Client{Timeout: 5 * time.Second, Transport: base, CheckRedirect: redirect}

	transport, err := Params{URL: "http://localhost/mcp", Authorization: "secret", HTTPClient: caller}.transport()
	if err != nil {
		t.Fatalf("transport: %v", err)
	}
	client := transport.(*gomcp.StreamableClientTransport).HTTPClient
	if client == caller {
		t.Fatal("expected a copy of the caller's client")
	}
	if client.Timeout != 5*time.Second || client.CheckRedirect == nil {
		t.Errorf("client settings lost: timeout=%v redirect=%v", client.Timeout, client.CheckRedirect != nil)
	}
	auth, ok := client.Transport.(*bearerTransport)
	if !ok {
		t.Fatalf("expected bearerTransport, got %T", client.Transport)
	}
	if auth.base != base || auth.value != "Bearer secret" {
		t.Errorf("unexpected bearer transport %+v", auth)
	}
	if caller.Transport != base {
		t.Error("caller's client was modified")
	}
}

func TestParamsTransport(t *testing.T) {
	t.Run("default transport without a client", func(t *testing.T) {
		transport, err := Params{URL: "http://localhost/mcp", Authorization: "Bearer x"}.transport()
		if err != nil {
			t.Fatalf("transport: %v", err)
		}
		auth := transport.(*gomcp.StreamableClientTransport).HTTPClient.Transport.(*bearerTransport)
		if auth.base != http.DefaultTransport || auth.value != "Bearer x" {
			t.Errorf("unexpected bearer transport %+v", auth)
		}
	})

	t.Run("client passed through without authorization", func(t *testing.T) {
		caller := &http.Client{}
		transport, err := Params{URL: "http://localhost/mcp", HTTPClient: caller}.transport()
		if err != nil {
			t.Fatalf("transport: %v", err)
		}
		if got := transport.(*gomcp.StreamableClientTransport).HTTPClient; got != caller {
			t.Errorf("expected the caller's client, got %v", got)
		}
	})

	t.Run("command wins over url", func(t *testing.T) {
		transport, err := Params{Command: "weather-tools", Args: []string{"--stdio"}, URL: "http://ignored"}.transport()
		if err != nil {
			t.Fatalf("transport: %v", err)
		}
		cmd := transport.(*gomcp.CommandTransport).Command
		if len(cmd.Args) != 2 || cmd.Args[1] != "--stdio" {
			t.Errorf("unexpected command %v", cmd.Args)
		}
	})

	t.Run("requires command or url", func(t *testing.T) {
		if _, err := (Params{}).transport(); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
