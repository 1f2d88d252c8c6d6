package ja4h

import (
	"net/http"
	"sort"
	"strings"
)

// Version is the protocol version the transport negotiated for a request.
type Version string

const (
	V10 Version = "1.0"
	V11 Version = "1.1"
	V20 Version = "2.0"
	V30 Version = "3.0"
)

// View is a read-only snapshot of the request properties the fingerprint is
// derived from. Headers is keyed by lower-cased name; when two source header
// names collide after lower-casing, the first one seen wins (first-seen
// policy, applied in sorted-key order so the pick is deterministic).
type View struct {
	Method  string
	Version Version
	Headers map[string]string
}

// ViewFromRequest builds a View from a server-side request. Only r.Header is
// consulted; net/http moves the Host header into r.Host before handlers run,
// so it never counts toward the header set.
func ViewFromRequest(r *http.Request) View {
	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make(map[string]string, len(keys))
	for _, k := range keys {
		name := strings.ToLower(k)
		if _, ok := headers[name]; ok {
			continue
		}
		if vs := r.Header[k]; len(vs) > 0 {
			headers[name] = vs[0]
		} else {
			headers[name] = ""
		}
	}

	return View{
		Method:  r.Method,
		Version: detectVersion(r.ProtoMajor, r.ProtoMinor),
		Headers: headers,
	}
}

func detectVersion(major, minor int) Version {
	switch {
	case major == 3:
		return V30
	case major == 2:
		return V20
	case major == 1 && minor == 1:
		return V11
	default:
		return V10
	}
}
