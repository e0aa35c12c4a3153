package controllers

import (
	"net/http"
	"strconv"

	"zettaboard/app/apiclient"
	"zettaboard/app/listing"
	"zettaboard/app/services"

	"github.com/gorilla/mux"
)

// UserController handles the users list and its detail modal
type UserController struct {
	*Renderer
	userService *services.UserService
}

func NewUserController(rd *Renderer, userService *services.UserService) *UserController {
	return &UserController{Renderer: rd, userService: userService}
}

// Index lists users. ?user=ID opens the detail modal.
func (uc *UserController) Index(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParseUserQuery(r.URL.Query())
	if err != nil {
		uc.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if r.URL.Query().Get("refresh") == "1" {
		ctx = apiclient.Fresh(ctx)
	}
	list := uc.userService.List(ctx, q)

	switch {
	case wantsJSON(r):
		uc.sendJSON(w, http.StatusOK, list)
	case wantsPartial(r):
		uc.renderPartial(w, r, "users", "user_list", list)
	default:
		uc.render(w, r, http.StatusOK, "users", list)
	}
}

// Show returns one user as JSON; browsers are sent to the list with the
// modal open.
func (uc *UserController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		uc.sendError(w, r, "Invalid user ID", http.StatusBadRequest)
		return
	}
	if !wantsJSON(r) {
		http.Redirect(w, r, "/users?user="+strconv.Itoa(id), http.StatusSeeOther)
		return
	}

	user, err := uc.userService.Get(r.Context(), id)
	switch {
	case err != nil && isNotFound(err):
		uc.sendError(w, r, "User not found", http.StatusNotFound)
	case err != nil:
		uc.sendError(w, r, err.Error(), http.StatusBadGateway)
	case user == nil || user.ID == 0:
		uc.sendError(w, r, "User not found", http.StatusNotFound)
	default:
		uc.sendJSON(w, http.StatusOK, user)
	}
}
