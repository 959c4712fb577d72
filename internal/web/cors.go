// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package web

import (
	"net/http"
	"slices"
)

// Header is a single HTTP response header field.
type Header struct {
	Name  string
	Value string
}

// CORS is an immutable, ordered set of Cross-Origin Resource Sharing headers
// added to every response. The zero value adds nothing.
type CORS struct {
	headers []Header
}

// NewCORS returns a CORS header set containing headers in the given order.
func NewCORS(headers ...Header) CORS {
	return CORS{headers: slices.Clone(headers)}
}

// PermissiveCORS returns the header set that lets any origin fetch files
// with GET and answer preflight requests.
func PermissiveCORS() CORS {
	return NewCORS(
		Header{"Access-Control-Allow-Origin", "*"},
		Header{"Access-Control-Allow-Methods", "GET, OPTIONS"},
		Header{"Access-Control-Allow-Headers", "X-Requested-With, Content-Type"},
	)
}

// Headers returns a copy of the header set.
func (c CORS) Headers() []Header { return slices.Clone(c.headers) }

// Apply sets every header of c on h, replacing existing values.
func (c CORS) Apply(h http.Header) {
	for _, hdr := range c.headers {
		h.Set(hdr.Name, hdr.Value)
	}
}

// Handler wraps next so that every response carries the CORS headers.
//
// The headers are placed in the header map before next runs, so they are
// part of whatever status line next writes, including errors. OPTIONS
// requests are preflights and are answered with 204 No Content without
// consulting next.
func (c CORS) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.Apply(w.Header())
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
