// Package ja4h derives the JA4H client fingerprint from the structural and
// header-level properties of an HTTP request. The fingerprint clusters
// requests from the same client software across IPs and sessions without
// touching TLS handshake data.
package ja4h

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidInput is returned when the View is malformed (empty method).
// A garbage fingerprint is worse than none for downstream consumers.
var ErrInvalidInput = errors.New("ja4h: invalid request view")

// Fingerprint holds both renderings of one computation. Compact substitutes
// truncated digests for the three variable-length lists; Raw keeps the
// literal lists. Both derive from the same canonical snapshot.
type Fingerprint struct {
	Compact string
	Raw     string
}

// emptyDigest is the fixed sentinel for digesting an empty input. It is an
// explicit short-circuit, not the hash of "".
const emptyDigest = "000000000000"

// components is the canonical snapshot both output forms are assembled from.
type components struct {
	method      string
	version     string
	cookieFlag  string
	refererFlag string
	count       string
	lang        string
	headerNames string
	cookieNames string
	cookiePairs string
}

// Compute derives the fingerprint pair for one request. It is a pure
// function of its inputs: no shared state, safe for concurrent use.
func Compute(v View, o Options) (Fingerprint, error) {
	if v.Method == "" {
		return Fingerprint{}, ErrInvalidInput
	}

	cookieVal, hasCookie := v.Headers["cookie"]
	_, hasReferer := v.Headers["referer"]

	c := components{
		method:      methodCode(v.Method),
		version:     versionCode(v, o),
		cookieFlag:  flag(hasCookie, "c"),
		refererFlag: flag(hasReferer, "r"),
	}

	names := surviving(v.Headers, o)
	sort.Strings(names)
	c.count = countCode(len(names))
	c.headerNames = strings.Join(names, ",")

	lang, hasLang := v.Headers["accept-language"]
	c.lang = langPrefix(lang, hasLang)

	if hasCookie {
		c.cookieNames, c.cookiePairs = parseCookies(cookieVal)
	}

	return Fingerprint{Compact: assembleCompact(c), Raw: assembleRaw(c)}, nil
}

// surviving returns the lower-cased names of headers that count toward the
// fingerprint: not cookie-prefixed, not referer, not user-ignored.
func surviving(headers map[string]string, o Options) []string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		if strings.HasPrefix(name, "cookie") || name == "referer" || o.isIgnored(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func methodCode(method string) string {
	m := strings.ToLower(method)
	if len(m) > 2 {
		m = m[:2]
	}
	return m
}

// versionCode resolves the protocol version, preferring the configured
// override header when present, and maps it to its two-digit code.
func versionCode(v View, o Options) string {
	if h := o.VersionHeader(); h != "" {
		if raw, ok := v.Headers[h]; ok {
			return parseVersionOverride(raw)
		}
	}
	switch v.Version {
	case V30:
		return "30"
	case V20:
		return "20"
	case V11:
		return "11"
	default:
		return "10"
	}
}

func parseVersionOverride(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "http/3") || strings.HasPrefix(s, "3.0"):
		return "30"
	case strings.Contains(s, "http/2") || strings.HasPrefix(s, "2.0"):
		return "20"
	case strings.Contains(s, "http/1.1") || strings.HasPrefix(s, "1.1"):
		return "11"
	default:
		// Includes http/1.0, 1.0 and anything unparseable.
		return "10"
	}
}

func flag(present bool, code string) string {
	if present {
		return code
	}
	return "n"
}

func countCode(n int) string {
	if n > 99 {
		n = 99
	}
	return strconv.Itoa(n)
}

// langPrefix shapes the accept-language value: strip non-alphanumerics,
// lower-case, take the first four characters, left-pad with '0'. An absent
// header yields the fixed sentinel "0000".
func langPrefix(value string, present bool) string {
	if !present {
		return "0000"
	}
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == 4 {
				return b.String()
			}
		}
	}
	return strings.Repeat("0", 4-b.Len()) + b.String()
}

// parseCookies splits a raw Cookie header into the sorted, comma-joined
// name list and name=value pair list. Segments without a name are skipped.
func parseCookies(raw string) (names, pairs string) {
	var nameList, pairList []string
	for _, seg := range strings.Split(raw, ";") {
		seg = strings.TrimLeft(seg, " \t")
		name, value := seg, ""
		if i := strings.IndexByte(seg, '='); i >= 0 {
			name, value = seg[:i], seg[i+1:]
		}
		if strings.TrimSpace(name) == "" {
			continue
		}
		name = strings.ToLower(name)
		nameList = append(nameList, name)
		pairList = append(pairList, name+"="+value)
	}
	sort.Strings(nameList)
	sort.Strings(pairList)
	return strings.Join(nameList, ","), strings.Join(pairList, ",")
}

// digest compacts an arbitrary string to the first 12 hex characters of its
// SHA-256. Empty input short-circuits to the sentinel; the real hash of ""
// would differ.
func digest(s string) string {
	if s == "" {
		return emptyDigest
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// assembleCompact joins the fixed-width fields without separators and the
// three digests with underscores.
func assembleCompact(c components) string {
	return c.method + c.version + c.cookieFlag + c.refererFlag + c.count + c.lang +
		"_" + digest(c.headerNames) +
		"_" + digest(c.cookieNames) +
		"_" + digest(c.cookiePairs)
}

// assembleRaw underscores every field and keeps the literal lists.
func assembleRaw(c components) string {
	return strings.Join([]string{
		c.method, c.version, c.cookieFlag, c.refererFlag, c.count, c.lang,
		c.headerNames, c.cookieNames, c.cookiePairs,
	}, "_")
}
