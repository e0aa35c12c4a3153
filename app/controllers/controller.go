package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"zettaboard/app/auth"
	"zettaboard/app/middleware"
	"zettaboard/app/models"
	"zettaboard/app/services"
	"zettaboard/app/views"

	"go.uber.org/zap"
)

const SessionCookie = "zb_session"

// Renderer is shared by every controller: it resolves the shell state
// (theme, signed-in user) and writes HTML or JSON.
type Renderer struct {
	templates views.Templates
	themes    *services.ThemeService
	auth      *auth.Service
	log       *zap.Logger
}

// NewRenderer builds the shared renderer. authService may be nil when
// sign-in is not configured.
func NewRenderer(templates views.Templates, themes *services.ThemeService, authService *auth.Service, log *zap.Logger) *Renderer {
	return &Renderer{templates: templates, themes: themes, auth: authService, log: log}
}

// AuthEnabled reports whether sign-in routes are live.
func (rd *Renderer) AuthEnabled() bool {
	return rd.auth != nil
}

// wantsJSON is true for /api routes and for Accept: application/json.
func wantsJSON(r *http.Request) bool {
	return middleware.IsAPI(r) || acceptsJSON(r)
}

func acceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func wantsPartial(r *http.Request) bool {
	return r.URL.Query().Get("partial") == "1"
}

// currentSession returns the live session behind the session cookie, or nil.
func (rd *Renderer) currentSession(r *http.Request) *models.Session {
	if rd.auth == nil {
		return nil
	}
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	session, err := rd.auth.Session(c.Value)
	if err != nil {
		if !errors.Is(err, auth.ErrNoSession) {
			rd.log.Warn("Failed to read session", zap.Error(err))
		}
		return nil
	}
	return session
}

func (rd *Renderer) page(r *http.Request, data any) *views.Page {
	var user *models.SessionUser
	if s := rd.currentSession(r); s != nil {
		user = &s.User
	}
	theme := rd.themes.Get(middleware.VisitorFrom(r.Context()))
	return views.NewPage(r.URL.Path, theme, user, rd.AuthEnabled(), data)
}

// render writes a full page through the layout.
func (rd *Renderer) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	rd.execute(w, r, status, name, "layout", rd.page(r, data))
}

// renderPartial writes one named block of a page, used by the list
// endpoints when the browser asks for ?partial=1.
func (rd *Renderer) renderPartial(w http.ResponseWriter, r *http.Request, name, block string, data any) {
	rd.execute(w, r, http.StatusOK, name, block, data)
}

func (rd *Renderer) execute(w http.ResponseWriter, r *http.Request, status int, name, block string, data any) {
	tpl, ok := rd.templates[name]
	if !ok {
		rd.sendError(w, r, "Template error: unknown page "+name, http.StatusInternalServerError)
		return
	}
	var buf strings.Builder
	if err := tpl.ExecuteTemplate(&buf, block, data); err != nil {
		rd.log.Error("Template error", zap.String("page", name), zap.Error(err))
		rd.sendError(w, r, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

func (rd *Renderer) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rd.log.Warn("Failed to encode response", zap.Error(err))
	}
}

func (rd *Renderer) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) {
		rd.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	if _, ok := rd.templates["error"]; !ok || strings.HasPrefix(message, "Template error") {
		http.Error(w, message, status)
		return
	}
	rd.render(w, r, status, "error", views.ErrorData{Status: status, Message: message})
}

// NotFound answers unknown routes.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.sendError(w, r, "Page not found", http.StatusNotFound)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (rd *Renderer) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	rd.sendError(w, r, "Method not allowed", http.StatusMethodNotAllowed)
}
