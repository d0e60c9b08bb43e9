package http

import "net/http"

// NotFoundHandler answers paths the mux does not know with the shared
// JSON error envelope instead of the default plain-text 404.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "no such route")
	})
}
