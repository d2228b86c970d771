package httpapi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/florafolio/florafolio"
	"github.com/florafolio/florafolio/catalog"
)

// response is the uniform JSON envelope for status/message replies.
type response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// plantList normalizes a nil slice so empty results serialize as []
// rather than null.
func plantList(plants []catalog.Plant) []catalog.Plant {
	if plants == nil {
		return []catalog.Plant{}
	}
	return plants
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, response{Status: "success", Message: message})
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, response{Status: "error", Message: message})
}

// writeEngineError maps domain errors onto HTTP statuses. Unknown errors
// come out as 500 with a generic message so internals never leak.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, florafolio.ErrLoginRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many failed login attempts, try again later")
	case errors.Is(err, florafolio.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, florafolio.ErrUnauthorized), errors.Is(err, florafolio.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, florafolio.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username already exists")
	case errors.Is(err, florafolio.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, florafolio.ErrUsernamePolicy), errors.Is(err, florafolio.ErrPasswordPolicy):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, florafolio.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "plant not found")
	case errors.Is(err, catalog.ErrInvalidPlant):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// bearerToken extracts the token from the Authorization header. The second
// return is false when the header is missing or not a Bearer scheme.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// clientIP resolves the address used for login throttling. The first
// X-Forwarded-For element wins when present; otherwise the peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
