package controllers

import (
	"net/http"
	"strconv"

	"zettaboard/app/services"

	"github.com/gorilla/mux"
)

// CommentController serves the comments of a post
type CommentController struct {
	*Renderer
	postService *services.PostService
}

// NewCommentController creates a new CommentController
func NewCommentController(rd *Renderer, postService *services.PostService) *CommentController {
	return &CommentController{Renderer: rd, postService: postService}
}

// Index returns every comment of a post as JSON. Browsers are sent to the
// post page, which shows the first few.
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || postID <= 0 {
		cc.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return
	}
	if !wantsJSON(r) {
		http.Redirect(w, r, "/posts/"+strconv.Itoa(postID), http.StatusSeeOther)
		return
	}

	comments, err := cc.postService.Comments(r.Context(), postID)
	if err != nil {
		cc.sendError(w, r, services.CommentsErrorMessage, http.StatusBadGateway)
		return
	}
	cc.sendJSON(w, http.StatusOK, map[string]interface{}{
		"comments": comments,
		"total":    len(comments),
	})
}
