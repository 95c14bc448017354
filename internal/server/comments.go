package server

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/gymblog/gymblog/internal/publisher"
)

func (s server) listComments(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /posts/{id}/comments Comments ListComments
	//
	// Returns post's comments ordered by creation time.
	//
	// ---
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	// responses:
	//   '200':
	//     description: Comments
	//     schema:
	//       "$ref": "#/definitions/ListCommentsResponse"
	//   '404':
	//     description: post not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	comments, err := s.s.ListComments(r.Context(), viewer(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "failed to list comments", err)
		return
	}

	out := make([]Comment, len(comments))
	for i, v := range comments {
		out[i] = toAPIComment(v)
	}

	writeOK(w, http.StatusOK, ListCommentsResponse{Comments: out})
}

func (s server) addComment(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /posts/{id}/comments Comments AddComment
	//
	// Adds a comment to the post.
	//
	// ---
	// security:
	// - bearer: []
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/CommentRequest"
	// responses:
	//   '201':
	//     description: Comment
	//     schema:
	//       "$ref": "#/definitions/Comment"
	//   '400':
	//     description: comment is empty or too long
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := s.s.AddComment(r.Context(), viewer(r), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeServiceError(w, r, "failed to add comment", err)
		return
	}

	writeOK(w, http.StatusCreated, toAPIComment(c))
}

func (s server) getRatings(w http.ResponseWriter, r *http.Request) {
	sum, err := s.s.GetRatingSummary(r.Context(), viewer(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "failed to get ratings", err)
		return
	}

	writeOK(w, http.StatusOK, toAPIRatings(sum))
}

func (s server) ratePost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation PUT /posts/{id}/ratings Ratings RatePost
	//
	// Sets viewer's rating of the post replacing the previous one.
	//
	// ---
	// security:
	// - bearer: []
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/RateRequest"
	// responses:
	//   '200':
	//     description: Ratings
	//     schema:
	//       "$ref": "#/definitions/Ratings"
	//   '400':
	//     description: rating is out of range
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req RateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sum, err := s.s.RatePost(r.Context(), viewer(r), chi.URLParam(r, "id"), req.Rating)
	if err != nil {
		writeServiceError(w, r, "failed to rate post", err)
		return
	}

	writeOK(w, http.StatusOK, toAPIRatings(sum))
}

func (s server) toggleLike(w http.ResponseWriter, r *http.Request) {
	sum, err := s.s.ToggleLike(r.Context(), viewer(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "failed to toggle like", err)
		return
	}

	writeOK(w, http.StatusOK, toAPIRatings(sum))
}

func (s server) live(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /posts/{id}/live Posts Live
	//
	// Websocket which pushes post's events: comment.created, rating.updated, post.updated, post.deleted.
	//
	// ---
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	// - name: access_token
	//   in: query
	//   required: false
	// responses:
	//   '101':
	//     description: Switching protocols
	//   '404':
	//     description: post not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")
	if _, err := s.s.GetPost(r.Context(), viewer(r), id); err != nil {
		writeServiceError(w, r, "failed to get post", err)
		return
	}

	s.hub.ServeWS(w, r, publisher.Topic(id))
}
