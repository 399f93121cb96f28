package chi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// publicPaths are served without an API key so probes and scrapers keep working.
var publicPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

var (
	errNoAuthHeader = errors.New("missing authorization header")
	errAuthScheme   = errors.New("authorization header must use Bearer scheme")
	errUnknownKey   = errors.New("invalid api key")
)

// BearerAuthMiddleware requires "Authorization: Bearer <key>" with one of
// apiKeys on every non-public route. Empty apiKeys disables the check.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if err := authorize(keys, r.Header.Get("Authorization")); err != nil {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authorize(keys [][]byte, header string) error {
	if header == "" {
		return errNoAuthHeader
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return errAuthScheme
	}
	// Compare against every key so timing does not reveal which one matched.
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare(k, []byte(token))
	}
	if match != 1 {
		return errUnknownKey
	}
	return nil
}
