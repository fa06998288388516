// Package http provides a shared, timeout-bounded http.Client factory used
// by outbound integrations (currently the Slack notification handler).
package http

import (
	"net/http"
	"time"
)

type ClientConfig struct {
	Timeout                 time.Duration
	MaxRetries              int
	DisableSSLVerification  bool
	MaxIdleConns            int
	IdleConnTimeout         time.Duration
	TLSHandshakeTimeout     time.Duration
	ResponseHeaderTimeout   time.Duration
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:               30 * time.Second,
		MaxRetries:            3,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}
}

// SlackClientConfig returns a client tuned for Slack's webhook API: short
// response-header timeout since failures there should fail fast rather than
// block a playbook action.
func SlackClientConfig() ClientConfig {
	cfg := DefaultClientConfig()
	cfg.Timeout = 10 * time.Second
	cfg.ResponseHeaderTimeout = 5 * time.Second
	return cfg
}

func NewClient(cfg ClientConfig) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:          cfg.MaxIdleConns,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
	}
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}

func NewClientWithTimeout(timeout time.Duration) *http.Client {
	cfg := DefaultClientConfig()
	cfg.Timeout = timeout
	return NewClient(cfg)
}

func NewDefaultClient() *http.Client {
	return NewClient(DefaultClientConfig())
}
