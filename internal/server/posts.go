package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/rating"
	"github.com/gymblog/gymblog/internal/service"
	"github.com/gymblog/gymblog/internal/storage"
)

var errInvalidRequest = errors.New("invalid request")

func (s server) listPosts(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /posts Posts ListPosts
	//
	// Returns active posts. Authors see their own blocked posts when filtering by authorId.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: sortBy
	//   description: sets posts' field to be sorted by
	//   in: query
	//   required: false
	//   default: createdAt
	//   type: string
	//   enum: [createdAt, rating, likes]
	// - name: orderBy
	//   description: sets sort's direct
	//   in: query
	//   required: false
	//   default: desc
	//   type: string
	//   enum: [asc, desc]
	// - name: authorId
	//   description: filters posts by author
	//   in: query
	//   required: false
	// - name: q
	//   description: filters posts by title
	//   in: query
	//   required: false
	// - name: limit
	//   description: limits count of returned posts
	//   in: query
	//   required: false
	//   default: 20
	//   minimum: 1
	//   maximum: 100
	// - name: after
	//   description: sets not-including bound for list by post id
	//   in: query
	//   required: false
	// responses:
	//   '200':
	//     description: Posts
	//     schema:
	//       "$ref": "#/definitions/ListPostsResponse"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	s.writePosts(w, r)
}

func (s server) listAllPosts(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /admin/posts Admin ListAllPosts
	//
	// Returns posts of any status. Accepts parameters of ListPosts and status.
	//
	// ---
	// parameters:
	// - name: status
	//   in: query
	//   required: false
	//   type: string
	//   enum: [active, blocked]
	// responses:
	//   '200':
	//     description: Posts
	//     schema:
	//       "$ref": "#/definitions/ListPostsResponse"
	//   '403':
	//     description: forbidden
	//     schema:
	//       "$ref": "#/definitions/Error"

	s.writePosts(w, r)
}

func (s server) writePosts(w http.ResponseWriter, r *http.Request) {
	params, err := extractListParamsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	posts, err := s.s.ListPosts(r.Context(), viewer(r), params)
	if err != nil {
		writeServiceError(w, r, "failed to list posts", err)
		return
	}

	writeOK(w, http.StatusOK, ListPostsResponse{Posts: toAPIPosts(posts)})
}

func (s server) getPost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /posts/{id} Posts GetPost
	//
	// Returns post with its ratings.
	//
	// ---
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	// responses:
	//   '200':
	//     description: Post
	//     schema:
	//       "$ref": "#/definitions/Post"
	//   '404':
	//     description: post not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	p, err := s.s.GetPost(r.Context(), viewer(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "failed to get post", err)
		return
	}

	writeOK(w, http.StatusOK, toAPIPost(&p.Post, p.Summary))
}

func (s server) createPost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /posts Posts CreatePost
	//
	// Creates a post. Content is sanitized.
	//
	// ---
	// security:
	// - bearer: []
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/PostRequest"
	// responses:
	//   '201':
	//     description: Post
	//     schema:
	//       "$ref": "#/definitions/Post"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: account is blocked
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req PostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := s.s.CreatePost(r.Context(), viewer(r), service.PostParams{
		Title:       req.Title,
		ContentHTML: req.Content,
	})
	if err != nil {
		writeServiceError(w, r, "failed to create post", err)
		return
	}

	writeOK(w, http.StatusCreated, toAPIPost(p, rating.Summary{}))
}

func (s server) updatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.s.UpdatePost(r.Context(), viewer(r), id, service.PostParams{
		Title:       req.Title,
		ContentHTML: req.Content,
	}); err != nil {
		writeServiceError(w, r, "failed to update post", err)
		return
	}

	p, err := s.s.GetPost(r.Context(), viewer(r), id)
	if err != nil {
		writeServiceError(w, r, "failed to get post", err)
		return
	}

	writeOK(w, http.StatusOK, toAPIPost(&p.Post, p.Summary))
}

func (s server) deletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.s.DeletePost(r.Context(), viewer(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, "failed to delete post", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) setPostStatus(w http.ResponseWriter, r *http.Request) {
	// swagger:operation PUT /admin/posts/{id}/status Admin SetPostStatus
	//
	// Blocks or unblocks a post. Blocked posts are hidden from everyone except author and moderators.
	//
	// ---
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/StatusRequest"
	// responses:
	//   '204':
	//     description: Status is changed
	//   '404':
	//     description: post not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.s.SetPostStatus(r.Context(), viewer(r), chi.URLParam(r, "id"), entities.Status(req.Status)); err != nil {
		writeServiceError(w, r, "failed to set post status", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) importDOCX(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /posts/import Posts ImportDOCX
	//
	// Converts uploaded docx document to html for the post editor.
	//
	// ---
	// consumes:
	// - multipart/form-data
	// parameters:
	// - name: file
	//   in: formData
	//   type: file
	//   required: true
	// responses:
	//   '200':
	//     description: Converted content
	//     schema:
	//       "$ref": "#/definitions/ImportResponse"
	//   '400':
	//     description: file is not a docx document
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '413':
	//     description: file is too large
	//     schema:
	//       "$ref": "#/definitions/Error"

	f, h, ok := s.formFile(w, r)
	if !ok {
		return
	}
	defer f.Close() // nolint: errcheck

	html, err := s.s.ImportDOCX(r.Context(), f, h.Size)
	if err != nil {
		writeServiceError(w, r, "failed to import document", err)
		return
	}

	writeOK(w, http.StatusOK, ImportResponse{Content: html})
}

func (s server) attachFile(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /posts/{id}/attachment Posts AttachFile
	//
	// Uploads a file and attaches it to the post replacing the previous one.
	//
	// ---
	// consumes:
	// - multipart/form-data
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	// - name: file
	//   in: formData
	//   type: file
	//   required: true
	// responses:
	//   '200':
	//     description: Attachment
	//     schema:
	//       "$ref": "#/definitions/Attachment"
	//   '400':
	//     description: unsupported file type
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: upload failed
	//     schema:
	//       "$ref": "#/definitions/Error"

	f, h, ok := s.formFile(w, r)
	if !ok {
		return
	}
	defer f.Close() // nolint: errcheck

	a, err := s.s.AttachFile(r.Context(), viewer(r), chi.URLParam(r, "id"), service.File{
		Name:        h.Filename,
		ContentType: h.Header.Get("Content-Type"),
		Size:        h.Size,
		Body:        f,
	})
	if err != nil {
		writeServiceError(w, r, "failed to upload file", err)
		return
	}

	writeOK(w, http.StatusOK, Attachment{URL: a.URL, Name: a.Name})
}

// nolint: gocyclo
func extractListParamsFromQuery(q url.Values) (*storage.ListPostsParams, error) {
	out := storage.ListPostsParams{
		SortBy:  storage.CreatedAtSortType,
		OrderBy: storage.DescendingOrder,
		Limit:   defaultLimit,
	}

	switch q.Get("sortBy") {
	case "createdAt", "":
	case "rating":
		out.SortBy = storage.RatingSortType
	case "likes":
		out.SortBy = storage.LikesSortType
	default:
		return nil, fmt.Errorf("%w: invalid sortBy", errInvalidRequest)
	}

	orderBy := storage.OrderType(q.Get("orderBy"))
	switch orderBy {
	case storage.AscendingOrder, storage.DescendingOrder:
		out.OrderBy = orderBy
	case "":
	default:
		return nil, fmt.Errorf("%w: invalid orderBy", errInvalidRequest)
	}

	if s := q.Get("limit"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse limit", errInvalidRequest)
		}

		if v == 0 || v > maxLimit {
			return nil, fmt.Errorf("%w: limit is out of range", errInvalidRequest)
		}

		out.Limit = uint16(v)
	}

	if s := q.Get("status"); s != "" {
		status := entities.Status(s)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid status", errInvalidRequest)
		}
		out.Status = &status
	}

	if s := q.Get("authorId"); s != "" {
		out.AuthorID = &s
	}

	if s := q.Get("after"); s != "" {
		out.After = &s
	}

	out.Search = q.Get("q")

	return &out, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body is too large")
			return false
		}

		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	return true
}

// formFile returns multipart "file" field of the request.
func (s server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "file is too large")
			return nil, nil, false
		}

		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, nil, false
	}

	f, h, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return nil, nil, false
	}

	return f, h, true
}
