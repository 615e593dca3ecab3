package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var (
	corsAllowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}
	corsAllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
)

// CORS applies the dashboard's permissive origin policy. Preflights pass
// through so the route's OPTIONS handler answers them.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     corsAllowedMethods,
		AllowedHeaders:     corsAllowedHeaders,
		AllowCredentials:   false,
		OptionsPassthrough: true,
		MaxAge:             300,
	}).Handler
}

// Preflight answers OPTIONS with an empty 200 and the permissive CORS headers,
// before any authentication runs.
func Preflight() http.HandlerFunc {
	headers := strings.Join(corsAllowedHeaders, ", ")
	methods := strings.Join(corsAllowedMethods, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusOK)
	}
}
