package rest

import (
	"net/http"
	"time"

	"github.com/rs/cors"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 30 * time.Second
)

// NewRouter - mounts the greeting, health, metrics and websocket endpoints behind CORS.
func NewRouter(allowedOrigins []string, metrics, ws http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", RootHandler)
	mux.HandleFunc("/ping", PingHandler)
	mux.Handle("/metrics", metrics)
	mux.Handle("/ws", ws)

	policy := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return policy.Handler(mux)
}

// New - returns the HTTP server for port. The caller starts and stops it.
func New(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}
