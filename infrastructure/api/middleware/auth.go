package middleware

import (
	"crypto/subtle"
	"net/http"
)

// apiKeyHeader carries the write-protection key.
const apiKeyHeader = "X-API-KEY"

// AuthConfig holds the accepted API keys. An empty key set disables
// write protection.
type AuthConfig struct {
	keys []string
}

// NewAuthConfigWithKeys creates an AuthConfig.
func NewAuthConfigWithKeys(keys []string) AuthConfig {
	ks := make([]string, len(keys))
	copy(ks, keys)
	return AuthConfig{keys: ks}
}

// Enabled reports whether any keys are configured.
func (c AuthConfig) Enabled() bool {
	return len(c.keys) > 0
}

// matches checks a presented key against the configured set in constant
// time.
func (c AuthConfig) matches(presented string) bool {
	for _, key := range c.keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(presented)) == 1 {
			return true
		}
	}
	return false
}

// WriteProtect requires a valid API key on mutating methods. Reads pass
// through unauthenticated.
func WriteProtect(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled() || isReadOnly(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			if !config.matches(r.Header.Get(apiKeyHeader)) {
				WriteError(w, r, NewAuthenticationError("missing or invalid API key"), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
