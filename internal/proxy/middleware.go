package proxy

import (
	"net/http"
	"time"

	"github.com/tinoosan/ja4gate/internal/fpctx"
)

type rwLogger struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *rwLogger) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *rwLogger) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Log is the proxy access log. The fingerprint field comes from the request
// context when the fingerprint middleware ran before it.
func (p *Proxy) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		rw := &rwLogger{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		if rw.status == 0 {
			rw.status = http.StatusOK
		}

		fingerprint := ""
		if fp, ok := fpctx.Fingerprint(r.Context()); ok {
			fingerprint = fp.Compact
		}
		p.log.Info("",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.status,
			"remote", r.RemoteAddr,
			"ua", r.UserAgent(),
			"fingerprint", fingerprint,
			"dur_ms", time.Since(startTime).Milliseconds(),
			"bytes", rw.bytes)
	})
}
