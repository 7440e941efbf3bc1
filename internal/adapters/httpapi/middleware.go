package httpapi

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"motoauto-service/internal/domain/shared"
	"motoauto-service/internal/ports/inbound"

	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "user"

// DefaultRedirect is where sign-in lands when no usable redirect was given
const DefaultRedirect = "/dashboard"

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		next.ServeHTTP(w, r)
	})
}

func makeResponseJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for the request log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Hijack lets the WebSocket upgrade pass through the request log
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rec.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func (api *API) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		api.logger.Info().
			Str("remote_addr", r.RemoteAddr).
			Str("method", r.Method).
			Str("path", r.URL.RequestURI()).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

func (api *API) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				writeError(w, r, api.logger, fmt.Errorf("panic: %v", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// SessionToken extracts the session token from the cookie or a Bearer header
func SessionToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// Identifier resolves the signed-in user of a request, for handlers where
// a session is optional
func Identifier(auth inbound.AuthService, cookieName string) func(r *http.Request) (uuid.UUID, bool) {
	return func(r *http.Request) (uuid.UUID, bool) {
		token := SessionToken(r, cookieName)
		if token == "" {
			return uuid.Nil, false
		}
		user, err := auth.Authenticate(r.Context(), token)
		if err != nil {
			return uuid.Nil, false
		}
		return user.ID, true
	}
}

func (api *API) currentUser(r *http.Request) (*shared.User, error) {
	token := SessionToken(r, api.cookieName)
	if token == "" {
		return nil, shared.ErrUnauthenticated
	}
	return api.auth.Authenticate(r.Context(), token)
}

// requireSession answers 401 JSON to requests without a valid session
func (api *API) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := api.currentUser(r)
		if err != nil {
			if !errors.Is(err, shared.ErrUnauthenticated) {
				writeError(w, r, api.logger, err)
				return
			}
			writeJSON(w, api.logger, http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

// requirePage sends visitors without a session to the login page, carrying
// the original path and query so sign-in can bring them back
func (api *API) requirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := api.currentUser(r)
		if err != nil {
			if !errors.Is(err, shared.ErrUnauthenticated) {
				writeError(w, r, api.logger, err)
				return
			}
			target := api.loginPath + "?redirect=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

func userFromContext(ctx context.Context) *shared.User {
	user, _ := ctx.Value(userContextKey).(*shared.User)
	return user
}

// SafeRedirect returns raw if it is a local absolute path, otherwise DefaultRedirect
func SafeRedirect(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return DefaultRedirect
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return DefaultRedirect
	}
	return raw
}
