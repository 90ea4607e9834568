package httpapi

import (
	"net/http"

	"github.com/go-chi/cors"
)

// DefaultMaxBodyBytes bounds upload size when SetMaxBodyBytes is not called.
const DefaultMaxBodyBytes = 10 << 20

// maxBodyBytes controls the maximum allowed request body size for uploads.
var maxBodyBytes int64 = DefaultMaxBodyBytes

// SetMaxBodyBytes configures the maximum request body size (<= 0 restores the default).
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
		return
	}
	maxBodyBytes = n
}

// inferTimeout bounds how long a /model/predict request may run.
// Zero means no additional timeout beyond server/connection timeouts.
var inferTimeout = int64(0) // seconds

// SetInferTimeoutSeconds sets the predict timeout in seconds (0 disables).
func SetInferTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	inferTimeout = sec
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

func corsMiddleware() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: corsAllowedMethods,
		AllowedHeaders: corsAllowedHeaders,
		ExposedHeaders: []string{headerModel, headerWidth, headerHeight, "X-Request-Id"},
		MaxAge:         300,
	})
}
