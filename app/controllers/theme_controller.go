package controllers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"zettaboard/app/middleware"
	"zettaboard/app/models"

	"go.uber.org/zap"
)

// ThemeController reads and stores the visitor's light/dark choice
type ThemeController struct {
	*Renderer
}

func NewThemeController(rd *Renderer) *ThemeController {
	return &ThemeController{Renderer: rd}
}

type themeBody struct {
	Theme models.Theme `json:"theme"`
}

// Show returns the current theme.
func (tc *ThemeController) Show(w http.ResponseWriter, r *http.Request) {
	theme := tc.themes.Get(middleware.VisitorFrom(r.Context()))
	tc.sendJSON(w, http.StatusOK, themeBody{Theme: theme})
}

// Toggle flips the theme. Browsers without script post the header form
// and are sent back where they came from.
func (tc *ThemeController) Toggle(w http.ResponseWriter, r *http.Request) {
	theme, err := tc.themes.Toggle(middleware.VisitorFrom(r.Context()))
	if err != nil {
		tc.log.Warn("Failed to save theme", zap.Error(err))
		tc.sendError(w, r, "Failed to save theme", http.StatusInternalServerError)
		return
	}
	if wantsJSON(r) {
		tc.sendJSON(w, http.StatusOK, themeBody{Theme: theme})
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// Update sets the theme from {"theme": "light"|"dark"}.
func (tc *ThemeController) Update(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		tc.sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.Theme != models.ThemeLight && body.Theme != models.ThemeDark {
		tc.sendError(w, r, "theme must be light or dark", http.StatusBadRequest)
		return
	}
	if err := tc.themes.Set(middleware.VisitorFrom(r.Context()), body.Theme); err != nil {
		tc.log.Warn("Failed to save theme", zap.Error(err))
		tc.sendError(w, r, "Failed to save theme", http.StatusInternalServerError)
		return
	}
	tc.sendJSON(w, http.StatusOK, body)
}

// backTo returns the same-origin path of the Referer, or "/". Paths that a
// browser would read as another origin ("//host", "/\host") fall back too.
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	p := ref.Path
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	if ref.RawQuery != "" {
		return p + "?" + ref.RawQuery
	}
	return p
}
