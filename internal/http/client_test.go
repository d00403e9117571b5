package http

import (
	nethttp "net/http"
	"net/url"
	"testing"

	"github.com/ifor-lux/luxconsole/internal/config"
)

func TestNewClientRejectsUnknownProxyMode(t *testing.T) {
	cfg := config.New()
	cfg.ProxyMode = "socks5"

	if _, err := NewClient(cfg); err == nil {
		t.Fatal("NewClient() should reject unsupported proxy mode")
	}
}

// TestNewClientBasicModeWithoutHostFallsBack verifies an incomplete proxy
// config degrades to direct connections instead of failing startup.
func TestNewClientBasicModeWithoutHostFallsBack(t *testing.T) {
	cfg := config.New()
	cfg.ProxyMode = "basic"

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient() error = %v, want nil", err)
	}
	tr, ok := client.Transport.(*nethttp.Transport)
	if !ok {
		t.Fatalf("unexpected transport type %T", client.Transport)
	}
	if tr.Proxy != nil {
		t.Error("missing proxy host should disable the proxy")
	}
}

// TestProxyFuncWithBypass verifies no_proxy hosts connect directly while
// everything else goes through the proxy.
func TestProxyFuncWithBypass(t *testing.T) {
	proxyURL := &url.URL{Scheme: "http", Host: "proxy.local:8080"}
	fn := proxyFuncWithBypass(proxyURL, "internal.example")

	direct, _ := nethttp.NewRequest("GET", "https://internal.example/x", nil)
	if got, err := fn(direct); err != nil || got != nil {
		t.Errorf("bypassed host: got %v, %v; want nil proxy", got, err)
	}

	proxied, _ := nethttp.NewRequest("GET", "https://api.github.com/x", nil)
	got, err := fn(proxied)
	if err != nil || got == nil || got.Host != "proxy.local:8080" {
		t.Errorf("external host: got %v, %v; want proxy.local:8080", got, err)
	}
}

func TestNeedsProxyPassword(t *testing.T) {
	cfg := config.New()
	if NeedsProxyPassword(cfg) {
		t.Error("no-proxy mode never needs a password")
	}

	cfg.ProxyMode = "ntlm"
	cfg.ProxyUser = "alice"
	if !NeedsProxyPassword(cfg) {
		t.Error("user without password should require a prompt")
	}

	cfg.ProxyPassword = "pw"
	if NeedsProxyPassword(cfg) {
		t.Error("complete credentials need no prompt")
	}
}
