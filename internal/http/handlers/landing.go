package handlers

import (
	_ "embed"
	"net/http"
)

//go:embed landing.html
var landingPage []byte

// Landing serves the booking chat page at the site root.
func Landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(landingPage)
}
