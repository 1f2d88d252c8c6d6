// Package fpctx carries per-request values through the context: the
// correlation ID and the fingerprint computed once per request lifecycle.
// Downstream consumers reuse the cached fingerprint instead of recomputing.
package fpctx

import (
	"context"

	"github.com/tinoosan/ja4gate/internal/ja4h"
)

// Unexported key types avoid collisions in context values.
type fpKey struct{}
type idKey struct{}

// WithFingerprint returns a new context with the computed fingerprint attached.
func WithFingerprint(ctx context.Context, fp ja4h.Fingerprint) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, fpKey{}, fp)
}

// Fingerprint extracts the cached fingerprint from the context, if present.
func Fingerprint(ctx context.Context) (ja4h.Fingerprint, bool) {
	if ctx == nil {
		return ja4h.Fingerprint{}, false
	}
	if fp, ok := ctx.Value(fpKey{}).(ja4h.Fingerprint); ok && fp.Compact != "" {
		return fp, true
	}
	return ja4h.Fingerprint{}, false
}

// WithRequestID returns a new context with the correlation ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, idKey{}, id)
}

// RequestID extracts the correlation ID from the context, if present.
func RequestID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if s, ok := ctx.Value(idKey{}).(string); ok && s != "" {
		return s, true
	}
	return "", false
}
