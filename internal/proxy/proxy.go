// Package proxy is the gateway in front of the upstream: it fingerprints
// every request, injects the result as a request header, and forwards.
package proxy

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"github.com/tinoosan/ja4gate/internal/config"
	"github.com/tinoosan/ja4gate/internal/data"
	"github.com/tinoosan/ja4gate/internal/events"
	"github.com/tinoosan/ja4gate/internal/fpctx"
	"github.com/tinoosan/ja4gate/internal/ja4h"
	"github.com/tinoosan/ja4gate/internal/metrics"
)

const xffHeader = "X-Forwarded-For"

type Proxy struct {
	log  *slog.Logger
	cfg  *config.Config
	opts ja4h.Options
	rep  events.Reporter
	rp   *httputil.ReverseProxy
}

// New builds the proxy for cfg.Upstream. rep may be nil when sightings are
// not being tracked.
func New(log *slog.Logger, cfg *config.Config, rep events.Reporter) *Proxy {
	rp := httputil.NewSingleHostReverseProxy(cfg.Upstream)
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error("upstream", "url", r.URL.Path, "err", err)
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}
	return &Proxy{
		log:  log,
		cfg:  cfg,
		opts: ja4h.NewOptions(cfg.IgnoreHeaders, cfg.VersionHeader),
		rep:  rep,
		rp:   rp,
	}
}

// Handler returns the full middleware chain serving proxied traffic.
func (p *Proxy) Handler() http.Handler {
	return p.Log(p.Fingerprint(p.rp))
}

// Fingerprint computes the fingerprint once per request, caches it in the
// context, and injects the configured header(s) before forwarding. A
// malformed request view forwards without a header rather than with a
// garbage fingerprint.
func (p *Proxy) Fingerprint(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		fp, err := ja4h.Compute(ja4h.ViewFromRequest(r), p.opts)
		if err != nil {
			metrics.FingerprintErrors.Inc()
			p.log.Error("fingerprint", "url", r.URL.Path, "err", err)
			p.trimForwardedFor(r)
			next.ServeHTTP(w, r)
			return
		}
		metrics.FingerprintLatency.Observe(time.Since(start).Seconds())
		metrics.RequestsFingerprinted.WithLabelValues(r.Method).Inc()

		r = r.WithContext(fpctx.WithFingerprint(r.Context(), fp))
		r.Header.Set(p.cfg.HeaderName, fp.Compact)
		if p.cfg.IncludeRaw {
			r.Header.Set(p.cfg.HeaderName+"-Raw", fp.Raw)
		}
		if p.cfg.DebugHeaders {
			w.Header().Set(p.cfg.HeaderName, fp.Compact)
			if p.cfg.IncludeRaw {
				w.Header().Set(p.cfg.HeaderName+"-Raw", fp.Raw)
			}
		}
		p.trimForwardedFor(r)
		p.report(r, fp)

		next.ServeHTTP(w, r)
	})
}

// trimForwardedFor strips the configured number of trailing proxy-chain
// entries from X-Forwarded-For. Runs after the fingerprint is computed, so
// the option never influences any fingerprint component.
func (p *Proxy) trimForwardedFor(r *http.Request) {
	if p.cfg.TrimXFF <= 0 {
		return
	}
	raw := r.Header.Get(xffHeader)
	if raw == "" {
		return
	}
	entries := strings.Split(raw, ",")
	keep := len(entries) - p.cfg.TrimXFF
	if keep <= 0 {
		r.Header.Del(xffHeader)
		return
	}
	for i := range entries[:keep] {
		entries[i] = strings.TrimSpace(entries[i])
	}
	r.Header.Set(xffHeader, strings.Join(entries[:keep], ", "))
}

func (p *Proxy) report(r *http.Request, fp ja4h.Fingerprint) {
	if p.rep == nil {
		return
	}
	now := time.Now()
	p.rep.Report(events.Event{
		Type: events.EventSeen,
		Sighting: &data.Sighting{
			Fingerprint: fp.Compact,
			Raw:         fp.Raw,
			Method:      r.Method,
			Path:        r.URL.Path,
			RemoteAddr:  r.RemoteAddr,
			UserAgent:   r.UserAgent(),
			FirstSeen:   now,
			LastSeen:    now,
		},
	})
}
