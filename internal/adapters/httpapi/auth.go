package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"motoauto-service/internal/domain/shared"
	"motoauto-service/internal/ports/inbound"
)

type sessionResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Redirect  string    `json:"redirect,omitempty"`
}

type signInRequest struct {
	inbound.SignInRequest
	Redirect string `json:"redirect"`
}

// signUp handles POST /api/auth/signup
func (api *API) signUp(w http.ResponseWriter, r *http.Request) {
	var req inbound.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, api.logger, fmt.Errorf("%w: %v", shared.ErrInvalidRequest, err))
		return
	}

	session, err := api.auth.SignUp(r.Context(), req)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}

	api.setSessionCookie(w, session)
	writeJSON(w, api.logger, http.StatusCreated, sessionResponse{
		Token:     session.Token,
		UserID:    session.UserID.String(),
		ExpiresAt: session.ExpiresAt,
		Redirect:  DefaultRedirect,
	})
}

// signIn handles POST /api/auth/signin. Browser form posts are redirected to
// the requested local page; JSON clients get the target in the body.
func (api *API) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	isForm := strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
	if isForm {
		if err := r.ParseForm(); err != nil {
			writeError(w, r, api.logger, fmt.Errorf("%w: %v", shared.ErrInvalidRequest, err))
			return
		}
		req.Email = r.PostForm.Get("email")
		req.Password = r.PostForm.Get("password")
		req.Redirect = r.PostForm.Get("redirect")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, api.logger, fmt.Errorf("%w: %v", shared.ErrInvalidRequest, err))
		return
	}
	if req.Redirect == "" {
		req.Redirect = r.URL.Query().Get("redirect")
	}

	session, err := api.auth.SignIn(r.Context(), req.SignInRequest)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}

	target := SafeRedirect(req.Redirect)
	api.setSessionCookie(w, session)
	if isForm {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	writeJSON(w, api.logger, http.StatusOK, sessionResponse{
		Token:     session.Token,
		UserID:    session.UserID.String(),
		ExpiresAt: session.ExpiresAt,
		Redirect:  target,
	})
}

// signOut handles POST /api/auth/signout
func (api *API) signOut(w http.ResponseWriter, r *http.Request) {
	if err := api.auth.SignOut(r.Context(), SessionToken(r, api.cookieName)); err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     api.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   api.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) setSessionCookie(w http.ResponseWriter, session *shared.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     api.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   api.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
