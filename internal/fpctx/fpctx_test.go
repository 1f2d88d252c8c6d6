package fpctx

import (
	"context"
	"testing"

	"github.com/tinoosan/ja4gate/internal/ja4h"
)

func TestFingerprintRoundTrip(t *testing.T) {
	fp := ja4h.Fingerprint{Compact: "ge11nn1enus_a_b_c", Raw: "ge_11_n_n_1_enus_a_b_c"}
	ctx := WithFingerprint(context.Background(), fp)
	got, ok := Fingerprint(ctx)
	if !ok || got != fp {
		t.Fatalf("expected %+v, got %+v (ok=%v)", fp, got, ok)
	}
}

func TestMissingValues(t *testing.T) {
	if _, ok := Fingerprint(context.Background()); ok {
		t.Fatal("expected no fingerprint in empty context")
	}
	if _, ok := RequestID(context.Background()); ok {
		t.Fatal("expected no request ID in empty context")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc-123")
	id, ok := RequestID(ctx)
	if !ok || id != "abc-123" {
		t.Fatalf("expected abc-123, got %q (ok=%v)", id, ok)
	}
}
