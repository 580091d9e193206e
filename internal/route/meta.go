package route

import (
	"net/http"
	"net/url"
)

// Meta describes the inbound request alongside the payload.
type Meta struct {
	Method     string            `json:"method"`
	Path       string            `json:"path"`
	Headers    map[string]string `json:"headers"`
	Query      map[string]string `json:"query,omitempty"`
	RemoteAddr string            `json:"remoteAddr,omitempty"`
}

// Header returns a header value by canonical name.
func (m Meta) Header(name string) string {
	return m.Headers[http.CanonicalHeaderKey(name)]
}

// MetaFromRequest builds Meta from an HTTP request. Only the first value of a
// repeated header or query key is kept.
func MetaFromRequest(r *http.Request) Meta {
	return Meta{
		Method:     r.Method,
		Path:       r.URL.Path,
		Headers:    flattenHeaders(r.Header),
		Query:      flattenQuery(r.URL.Query()),
		RemoteAddr: r.RemoteAddr,
	}
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[http.CanonicalHeaderKey(k)] = v[0]
		}
	}
	return out
}

func flattenQuery(q url.Values) map[string]string {
	if len(q) == 0 {
		return nil
	}
	out := make(map[string]string, len(q))
	for k, v := range q {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
