// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

var knownMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// CheckHTTPMethod returns the handler registered with
// [chi.Mux.MethodNotAllowed]. It answers 405 with an "Allow" header listing
// the methods the path does serve. The methods come from the leaf routes
// found by [chi.Walk], so routes inside mounted subrouters such as
// /api/kv/{key} report only their own methods. A path that serves no
// method at all yields 404.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router chi.Routes) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		served := make(map[string]bool, len(knownMethods))
		_ = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			if matchPattern(route, r.URL.Path) {
				served[method] = true
			}
			return nil
		})

		var allowed []string
		for _, method := range knownMethods {
			if served[method] {
				allowed = append(allowed, method)
			}
		}

		if len(allowed) == 0 {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Allow", strings.Join(allowed, ", "))
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// matchPattern reports whether path fits a chi route pattern. A {param}
// segment matches any non-empty segment and a trailing * matches the rest.
// Trailing slashes are ignored on both sides.
func matchPattern(pattern, path string) bool {
	pSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	segs := strings.Split(strings.Trim(path, "/"), "/")

	for i, p := range pSegs {
		if p == "*" {
			return true
		}
		if i >= len(segs) {
			return false
		}
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if p != segs[i] {
			return false
		}
	}
	return len(pSegs) == len(segs)
}
