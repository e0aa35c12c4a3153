package controllers

import (
	"errors"
	"net/http"

	"zettaboard/app/apiclient"
	"zettaboard/app/services"
)

// HomeController renders the metrics dashboard
type HomeController struct {
	*Renderer
	dashboard *services.DashboardService
}

func NewHomeController(rd *Renderer, dashboard *services.DashboardService) *HomeController {
	return &HomeController{Renderer: rd, dashboard: dashboard}
}

func (hc *HomeController) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.URL.Query().Get("refresh") == "1" {
		ctx = apiclient.Fresh(ctx)
	}
	home := hc.dashboard.Home(ctx)

	if wantsJSON(r) {
		hc.sendJSON(w, http.StatusOK, home)
		return
	}
	hc.render(w, r, http.StatusOK, "home", home)
}

func isNotFound(err error) bool {
	var httpErr *apiclient.HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}
