package v1

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/tinoosan/ja4gate/internal/data"
	"github.com/tinoosan/ja4gate/internal/ja4h"
	"github.com/tinoosan/ja4gate/internal/service"
)

type SightingHandler struct {
	l    *slog.Logger
	svc  service.Sightings
	opts ja4h.Options
}

// computeBody describes a request shape to fingerprint without proxying it.
type computeBody struct {
	Method  string            `json:"method"`
	Version string            `json:"version"`
	Headers map[string]string `json:"headers"`
}

type computeResponse struct {
	Fingerprint string `json:"fingerprint"`
	Raw         string `json:"raw"`
}

type rwLogger struct {
	http.ResponseWriter
	status int
	bytes  int
	err    error
}

func (w *rwLogger) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *rwLogger) SetErr(err error) {
	w.err = err
}

func (w *rwLogger) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

type errorSetter interface {
	SetErr(error)
}

func markErr(w http.ResponseWriter, err error) {
	if es, ok := w.(errorSetter); ok {
		es.SetErr(err)
	}
}

// context keys
type ctxKeyCompute struct{}

func NewSightingHandler(l *slog.Logger, svc service.Sightings, opts ja4h.Options) *SightingHandler {
	return &SightingHandler{l: l, svc: svc, opts: opts}
}

func (sh *SightingHandler) GetFingerprints(w http.ResponseWriter, r *http.Request) {
	list, err := sh.svc.List(r.Context())
	if err != nil {
		markErr(w, err)
		http.Error(w, "failed to list sightings", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = data.Sightings{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := list.ToJSON(w); err != nil {
		markErr(w, err)
	}
}

func (sh *SightingHandler) GetFingerprint(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s, err := sh.svc.Get(r.Context(), vars["fp"])
	if err != nil {
		markErr(w, err)
		switch err {
		case data.ErrNotFound:
			http.Error(w, "Not Found", http.StatusNotFound)
		default:
			http.Error(w, "failed to get sighting", http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = s.ToJSON(w)
}

// Compute fingerprints a request shape described in the body. The view
// building mirrors the proxy path: lower-cased names, first-seen value on
// collision, deterministic via sorted key order.
func (sh *SightingHandler) Compute(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyCompute{})
	body, ok := v.(computeBody)
	if !ok {
		markErr(w, ErrComputeCtx)
		http.Error(w, ErrComputeCtx.Error(), http.StatusInternalServerError)
		return
	}

	fp, err := ja4h.Compute(viewFromBody(body), sh.opts)
	if err != nil {
		markErr(w, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, computeResponse{Fingerprint: fp.Compact, Raw: fp.Raw})
}

func viewFromBody(body computeBody) ja4h.View {
	keys := make([]string, 0, len(body.Headers))
	for k := range body.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	headers := make(map[string]string, len(keys))
	for _, k := range keys {
		name := strings.ToLower(k)
		if _, ok := headers[name]; !ok {
			headers[name] = body.Headers[k]
		}
	}
	return ja4h.View{
		Method:  body.Method,
		Version: ja4h.Version(body.Version),
		Headers: headers,
	}
}
