package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// MiddlewareComputeValidation decodes and validates the compute body before
// the handler runs.
func MiddlewareComputeValidation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body computeBody
		if err := decodeJSONStrict(w, r, &body, 1<<20); err != nil {
			markErr(w, err)
			if errors.Is(err, ErrContentType) {
				http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
				return
			}
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(body.Method) == "" {
			markErr(w, ErrMethodRequired)
			http.Error(w, ErrMethodRequired.Error(), http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyCompute{}, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (sh *SightingHandler) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		rw := &rwLogger{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		if rw.status == 0 {
			rw.status = http.StatusOK
		}
		timeElapsed := time.Since(startTime)
		hErr := rw.err
		if hErr != nil {
			sh.l.Error(hErr.Error(),
				"method", r.Method,
				"url", r.URL.Path,
				"status", rw.status,
				"remote", r.RemoteAddr,
				"ua", r.UserAgent(),
				"dur_ms", timeElapsed.Milliseconds(),
				"bytes", rw.bytes)
			return
		}

		sh.l.Info("", "method", r.Method,
			"url", r.URL.Path,
			"status", rw.status,
			"remote", r.RemoteAddr,
			"ua", r.UserAgent(),
			"dur_ms", timeElapsed.Milliseconds(),
			"bytes", rw.bytes)
	})
}
