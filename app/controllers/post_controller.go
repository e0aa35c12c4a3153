package controllers

import (
	"net/http"
	"strconv"

	"zettaboard/app/apiclient"
	"zettaboard/app/listing"
	"zettaboard/app/services"

	"github.com/gorilla/mux"
)

// PostController handles the posts list and post detail pages
type PostController struct {
	*Renderer
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(rd *Renderer, postService *services.PostService) *PostController {
	return &PostController{Renderer: rd, postService: postService}
}

// Index handles listing posts. ?pages=N replays the first N pages,
// ?refresh=1 bypasses the response cache and ?partial=1 renders only the
// list region.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParsePostQuery(r.URL.Query())
	if err != nil {
		pc.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if r.URL.Query().Get("refresh") == "1" {
		ctx = apiclient.Fresh(ctx)
	}
	list := pc.postService.List(ctx, q)

	switch {
	case wantsJSON(r):
		pc.sendJSON(w, http.StatusOK, list)
	case wantsPartial(r):
		pc.renderPartial(w, r, "posts", "post_list", list)
	default:
		pc.render(w, r, http.StatusOK, "posts", list)
	}
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		pc.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return
	}

	detail := pc.postService.Detail(r.Context(), id)
	status := http.StatusOK
	if detail.NotFound {
		status = http.StatusNotFound
		if detail.Err == "" {
			detail.Err = "Post not found"
		}
	}

	if wantsJSON(r) {
		pc.sendJSON(w, status, detail)
		return
	}
	pc.render(w, r, status, "post", detail)
}
