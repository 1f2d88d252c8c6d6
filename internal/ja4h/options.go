package ja4h

import "strings"

// Options configures one fingerprint computation. Build it once with
// NewOptions and share it freely; it is immutable after construction.
type Options struct {
	ignored       map[string]struct{}
	versionHeader string
}

// NewOptions constructs Options. ignoreHeaders lists header names excluded
// from the header count and name list (matched case-insensitively).
// versionHeader, when non-empty, names a request header whose value
// overrides the transport-detected protocol version.
func NewOptions(ignoreHeaders []string, versionHeader string) Options {
	o := Options{versionHeader: strings.ToLower(strings.TrimSpace(versionHeader))}
	if len(ignoreHeaders) > 0 {
		o.ignored = make(map[string]struct{}, len(ignoreHeaders))
		for _, h := range ignoreHeaders {
			h = strings.ToLower(strings.TrimSpace(h))
			if h != "" {
				o.ignored[h] = struct{}{}
			}
		}
	}
	return o
}

func (o Options) isIgnored(name string) bool {
	if o.ignored == nil {
		return false
	}
	_, ok := o.ignored[name]
	return ok
}

// VersionHeader returns the lower-cased override header name, or "" when no
// override is configured.
func (o Options) VersionHeader() string { return o.versionHeader }
