package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Config holds middleware configuration
type Config struct {
	EnableLogging bool
	EnableTracing bool
}

// DefaultConfig returns default middleware configuration
func DefaultConfig() Config {
	return Config{
		EnableLogging: true,
		EnableTracing: true,
	}
}

// Register registers all middlewares to the router
func Register(router *mux.Router, config Config) {
	// Logging middleware (first in chain)
	if config.EnableLogging {
		router.Use(LoggingMiddleware)
	}

	// Tracing middleware (second in chain)
	if config.EnableTracing {
		router.Use(func(next http.Handler) http.Handler {
			return TracingMiddleware("http-request", next)
		})
	}
}

// GetAuthMiddleware returns the auth middleware
func (config Config) GetAuthMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return AuthMiddleware()
}

// GetAdminMiddleware returns the admin middleware
func (config Config) GetAdminMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return AdminMiddleware()
}
