package handlers

import "net/http"

// Root serves a static confirmation string for uptime probes.
func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("hallgate token service is running\n"))
}

// MethodNotAllowed keeps method rejections on the JSON error contract.
// Routing rejects the method before any request body is read.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, "method not allowed", http.StatusMethodNotAllowed)
}

// NotFound keeps unknown-path rejections on the JSON error contract.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, "not found", http.StatusNotFound)
}
