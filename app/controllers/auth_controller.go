package controllers

import (
	"errors"
	"net/http"
	"time"

	"zettaboard/app/auth"
	"zettaboard/app/metrics"

	"go.uber.org/zap"
)

const (
	flowCookie = "zb_oauth"
	flowTTL    = 10 * time.Minute
)

// AuthController implements the Google sign-in redirect handler. Every
// action answers 404 when sign-in is not configured.
type AuthController struct {
	*Renderer
	metrics metrics.Recorder
	secure  bool
	ttl     time.Duration
}

func NewAuthController(rd *Renderer, rec metrics.Recorder, secureCookies bool, sessionTTL time.Duration) *AuthController {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &AuthController{Renderer: rd, metrics: rec, secure: secureCookies, ttl: sessionTTL}
}

func (ac *AuthController) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   ac.secure,
		SameSite: http.SameSiteLaxMode,
	}
	switch {
	case maxAge < 0:
		c.MaxAge = -1
	case maxAge > 0:
		c.MaxAge = int(maxAge.Seconds())
	}
	return c
}

// SignIn redirects to Google's consent screen.
func (ac *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	if !ac.AuthEnabled() {
		ac.NotFound(w, r)
		return
	}
	flow, err := ac.auth.Begin()
	if err != nil {
		ac.sendError(w, r, "Failed to start sign-in", http.StatusInternalServerError)
		return
	}
	value, err := ac.auth.EncodeFlow(flow)
	if err != nil {
		ac.sendError(w, r, "Failed to start sign-in", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, ac.cookie(flowCookie, value, flowTTL))
	http.Redirect(w, r, flow.URL, http.StatusFound)
}

// Callback finishes the sign-in and sets the session cookie.
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	if !ac.AuthEnabled() {
		ac.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	if msg := q.Get("error"); msg != "" {
		ac.log.Info("Sign-in declined", zap.String("error", msg))
		http.SetCookie(w, ac.cookie(flowCookie, "", -1))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	c, err := r.Cookie(flowCookie)
	if err != nil {
		ac.sendError(w, r, "Sign-in expired, please try again", http.StatusBadRequest)
		return
	}
	flow, err := ac.auth.DecodeFlow(c.Value)
	if err != nil {
		ac.sendError(w, r, "Sign-in expired, please try again", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, ac.cookie(flowCookie, "", -1))

	session, err := ac.auth.Complete(r.Context(), flow, q.Get("state"), q.Get("code"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidState) {
			ac.sendError(w, r, "Invalid sign-in state", http.StatusBadRequest)
			return
		}
		ac.log.Warn("Sign-in failed", zap.Error(err))
		ac.sendError(w, r, "Sign-in failed", http.StatusBadGateway)
		return
	}

	ac.metrics.SignedIn()
	http.SetCookie(w, ac.cookie(SessionCookie, session.ID, ac.ttl))
	http.Redirect(w, r, "/", http.StatusFound)
}

// SignOut deletes the session and clears the cookie.
func (ac *AuthController) SignOut(w http.ResponseWriter, r *http.Request) {
	if !ac.AuthEnabled() {
		ac.NotFound(w, r)
		return
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		if err := ac.auth.SignOut(c.Value); err != nil {
			ac.log.Warn("Failed to delete session", zap.Error(err))
		}
	}
	http.SetCookie(w, ac.cookie(SessionCookie, "", -1))

	if acceptsJSON(r) {
		ac.sendJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Session returns the signed-in user, or {} when there is none.
func (ac *AuthController) Session(w http.ResponseWriter, r *http.Request) {
	if !ac.AuthEnabled() {
		ac.NotFound(w, r)
		return
	}
	session := ac.currentSession(r)
	if session == nil {
		ac.sendJSON(w, http.StatusOK, struct{}{})
		return
	}
	ac.sendJSON(w, http.StatusOK, map[string]interface{}{
		"user":    session.User,
		"expires": session.ExpiresAt,
	})
}
