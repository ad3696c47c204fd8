package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"marketplace-api/internal/audit"
)

// maxRawBody is how many characters of a non-JSON body make it into the log.
const maxRawBody = 1000

// AuditRequests intercepts every request under the /api namespace, captures
// method, path, query, a redacted body and the response status, and emits one
// http_request audit event after the downstream handler returns. The body
// read is non-destructive: the original bytes are handed back to the request
// before the handler runs. Interception failures fail open; the request is
// processed unlogged rather than rejected.
func AuditRequests(logger *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api") {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			var parsedObject map[string]any
			var loggedBody any
			if len(body) > 0 {
				var parsed any
				if json.Unmarshal(body, &parsed) == nil {
					if obj, ok := parsed.(map[string]any); ok {
						parsedObject = obj
						loggedBody = Redact(obj)
					} else {
						loggedBody = parsed
					}
				} else {
					loggedBody = truncate(string(body), maxRawBody)
				}
			}

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			username := r.URL.Query().Get("username")
			if username == "" && parsedObject != nil {
				if s, ok := parsedObject["username"].(string); ok && s != "" {
					username = s
				} else if s, ok := parsedObject["buyer"].(string); ok {
					username = s
				}
			}

			query := map[string]string{}
			for key, values := range r.URL.Query() {
				if len(values) > 0 {
					query[key] = values[0]
				}
			}

			logger.LogEvent("http_request", map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
				"query":  query,
				"body":   loggedBody,
				"status": wrapped.statusCode,
			}, r.RemoteAddr, username)
		})
	}
}

// Redact replaces the values of sensitive top-level keys with "REDACTED".
// Matching is case-insensitive and shallow: nested objects pass through
// untouched. The input map is not modified.
func Redact(body map[string]any) map[string]any {
	redacted := make(map[string]any, len(body))
	for key, value := range body {
		switch strings.ToLower(key) {
		case "password", "pwd", "token":
			redacted[key] = "REDACTED"
		default:
			redacted[key] = value
		}
	}
	return redacted
}

// truncate limits a string to n characters.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
