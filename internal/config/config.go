// Package config loads and validates the gateway configuration from the
// environment once at startup. The resulting Config is treated as immutable.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

var (
	ErrUpstreamRequired = errors.New("JA4GATE_UPSTREAM is required")
	ErrUpstreamScheme   = errors.New("upstream URL must be http or https")
	ErrTrimXFF          = errors.New("JA4GATE_TRIM_XFF must be a non-negative integer")
)

// Config holds every recognized option with its documented default.
type Config struct {
	// Listen is the proxy listener address. Default ":8080".
	Listen string
	// AdminListen is the admin API listener address. Default ":9090".
	AdminListen string
	// Upstream is the proxy target. Required.
	Upstream *url.URL
	// HeaderName is the request header the compact fingerprint is injected
	// under. Default "X-JA4H-Fingerprint".
	HeaderName string
	// VersionHeader optionally names a request header whose value overrides
	// the transport-detected protocol version.
	VersionHeader string
	// IgnoreHeaders lists header names excluded from the header count and
	// name list, matched case-insensitively.
	IgnoreHeaders []string
	// IncludeRaw also injects "<HeaderName>-Raw" with the raw form.
	IncludeRaw bool
	// DebugHeaders mirrors the injected header(s) onto the response.
	DebugHeaders bool
	// TrimXFF removes that many trailing entries from X-Forwarded-For before
	// forwarding. It never affects the fingerprint itself.
	TrimXFF int
	// LogFile, when set, routes logs through a rotating file writer.
	LogFile string
}

// FromEnv builds a validated Config from JA4GATE_* environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Listen:        getenv("JA4GATE_LISTEN", ":8080"),
		AdminListen:   getenv("JA4GATE_ADMIN_LISTEN", ":9090"),
		HeaderName:    getenv("JA4GATE_HEADER_NAME", "X-JA4H-Fingerprint"),
		VersionHeader: os.Getenv("JA4GATE_VERSION_HEADER"),
		IncludeRaw:    getbool("JA4GATE_INCLUDE_RAW"),
		DebugHeaders:  getbool("JA4GATE_DEBUG_HEADERS"),
		LogFile:       os.Getenv("JA4GATE_LOG_FILE"),
	}

	rawUpstream := os.Getenv("JA4GATE_UPSTREAM")
	if strings.TrimSpace(rawUpstream) == "" {
		return nil, ErrUpstreamRequired
	}
	u, err := url.Parse(rawUpstream)
	if err != nil {
		return nil, fmt.Errorf("parse upstream: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrUpstreamScheme
	}
	cfg.Upstream = u

	if raw := os.Getenv("JA4GATE_IGNORE_HEADERS"); raw != "" {
		for _, h := range strings.Split(raw, ",") {
			if h = strings.TrimSpace(h); h != "" {
				cfg.IgnoreHeaders = append(cfg.IgnoreHeaders, h)
			}
		}
	}

	if raw := os.Getenv("JA4GATE_TRIM_XFF"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, ErrTrimXFF
		}
		cfg.TrimXFF = n
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string) bool {
	v, err := strconv.ParseBool(os.Getenv(k))
	return err == nil && v
}
