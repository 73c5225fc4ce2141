// Package httpclient builds the outbound *http.Client used for catalog calls.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// Transport defaults. Every call goes to the same catalog host, so the idle
// pool is sized per host.
const (
	DefaultTimeout               = 10 * time.Second
	DefaultResponseHeaderTimeout = 10 * time.Second
	defaultDialTimeout           = 5 * time.Second
	defaultKeepAlive             = 30 * time.Second
	defaultTLSHandshakeTimeout   = 5 * time.Second
	defaultIdleConnTimeout       = 90 * time.Second
	defaultIdleConnsPerHost      = 32
)

// ClientConfig holds the timeouts of the outbound client
type ClientConfig struct {
	// Timeout bounds a whole request, body included
	Timeout time.Duration

	// ResponseHeaderTimeout bounds the wait for response headers after the request is written
	ResponseHeaderTimeout time.Duration

	DialTimeout         time.Duration
	TLSHandshakeTimeout time.Duration
	IdleConnTimeout     time.Duration
	MaxIdleConnsPerHost int
}

// DefaultConfig returns the transport defaults.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Timeout:               DefaultTimeout,
		ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
		DialTimeout:           defaultDialTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		IdleConnTimeout:       defaultIdleConnTimeout,
		MaxIdleConnsPerHost:   defaultIdleConnsPerHost,
	}
}

// ConfigWithTimeouts returns DefaultConfig with the given timeouts in seconds.
// Non-positive values keep the defaults.
func ConfigWithTimeouts(timeoutSecs, responseHeaderTimeoutSecs int) ClientConfig {
	cfg := DefaultConfig()
	if timeoutSecs > 0 {
		cfg.Timeout = time.Duration(timeoutSecs) * time.Second
	}
	if responseHeaderTimeoutSecs > 0 {
		cfg.ResponseHeaderTimeout = time.Duration(responseHeaderTimeoutSecs) * time.Second
	}
	// A header wait longer than the whole request can never fire
	if cfg.ResponseHeaderTimeout > cfg.Timeout {
		cfg.ResponseHeaderTimeout = cfg.Timeout
	}
	return cfg
}

// New creates an HTTP client from cfg.
func New(cfg ClientConfig) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: defaultKeepAlive,
		}).DialContext,
		MaxIdleConns:          cfg.MaxIdleConnsPerHost,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
}
