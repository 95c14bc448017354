package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/storage"
)

func (s server) listUsers(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /admin/users Admin ListUsers
	//
	// Returns users ordered by registration time.
	//
	// ---
	// parameters:
	// - name: role
	//   in: query
	//   required: false
	//   type: string
	//   enum: [user, moderator, admin]
	// - name: status
	//   in: query
	//   required: false
	//   type: string
	//   enum: [active, blocked]
	// - name: limit
	//   in: query
	//   required: false
	//   default: 20
	//   maximum: 100
	// - name: offset
	//   in: query
	//   required: false
	// responses:
	//   '200':
	//     description: Users
	//     schema:
	//       "$ref": "#/definitions/ListUsersResponse"
	//   '403':
	//     description: forbidden
	//     schema:
	//       "$ref": "#/definitions/Error"

	params, err := extractListUsersParamsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	users, err := s.s.ListUsers(r.Context(), viewer(r), params)
	if err != nil {
		writeServiceError(w, r, "failed to list users", err)
		return
	}

	out := make([]User, len(users))
	for i, v := range users {
		out[i] = toAPIUser(v)
	}

	writeOK(w, http.StatusOK, ListUsersResponse{Users: out})
}

func (s server) setUserRole(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.s.SetUserRole(r.Context(), viewer(r), chi.URLParam(r, "id"), entities.Role(req.Role)); err != nil {
		writeServiceError(w, r, "failed to set user role", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) setUserStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.s.SetUserStatus(r.Context(), viewer(r), chi.URLParam(r, "id"), entities.Status(req.Status)); err != nil {
		writeServiceError(w, r, "failed to set user status", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func extractListUsersParamsFromQuery(q url.Values) (*storage.ListUsersParams, error) {
	out := storage.ListUsersParams{
		Limit: defaultLimit,
	}

	if s := q.Get("role"); s != "" {
		role := entities.Role(s)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: invalid role", errInvalidRequest)
		}
		out.Role = &role
	}

	if s := q.Get("status"); s != "" {
		status := entities.Status(s)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid status", errInvalidRequest)
		}
		out.Status = &status
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

	if s := q.Get("offset"); s != "" {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse offset", errInvalidRequest)
		}
		out.Offset = uint32(v)
	}

	return &out, nil
}
