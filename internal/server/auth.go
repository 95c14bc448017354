package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gymblog/gymblog/internal/auth"
	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/inference"
	"github.com/gymblog/gymblog/internal/service"
)

// authenticate puts session into request's context when request carries a bearer token.
// Requests without token pass through anonymously.
func (s server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := s.v.Verify(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}

		u, err := s.s.EnsureUser(r.Context(), sess)
		if err != nil {
			writeInternalError(r.Context(), w, "failed to get user", err)
			return
		}
		sess.Role = u.Role

		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
	})
}

// bearerToken returns token from Authorization header or access_token query parameter.
// Browsers can not set headers for websocket handshake.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return ""
	}

	return r.URL.Query().Get("access_token")
}

func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.FromContext(r.Context()); err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireRole(roles ...entities.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := auth.FromContext(r.Context())
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			for _, v := range roles {
				if sess.Role == v {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusForbidden, service.ErrForbidden.Error())
		})
	}
}

// viewer returns id of request's user or empty string for anonymous requests.
func viewer(r *http.Request) string {
	sess, err := auth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	return sess.UserID
}

// writeServiceError maps service errors to responses. Unknown errors are logged and hidden behind msg.
func writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBlocked):
		writeError(w, http.StatusForbidden, service.ErrBlocked.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, service.ErrForbidden.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrEmailInUse):
		writeError(w, http.StatusConflict, service.ErrEmailInUse.Error())
	case errors.Is(err, service.ErrNotConfigured):
		writeError(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, inference.ErrEmptyResponse):
		writeError(w, http.StatusBadGateway, inference.ErrEmptyResponse.Error())
	default:
		writeInternalError(r.Context(), w, msg, err)
	}
}

func (s server) register(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /auth/register Auth Register
	//
	// Creates an account with email and password.
	//
	// ---
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/RegisterRequest"
	// responses:
	//   '201':
	//     description: Account is created
	//     schema:
	//       "$ref": "#/definitions/AuthResponse"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '409':
	//     description: email already in use
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '429':
	//     description: rate limit exceeded
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.s.Register(r.Context(), service.RegisterParams{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		DisplayName:     req.DisplayName,
	})
	if err != nil {
		writeServiceError(w, r, "failed to register", err)
		return
	}

	writeOK(w, http.StatusCreated, toAPIAuth(res))
}

func (s server) login(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /auth/login Auth Login
	//
	// Exchanges email and password to a bearer token.
	//
	// ---
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/LoginRequest"
	// responses:
	//   '200':
	//     description: Signed in
	//     schema:
	//       "$ref": "#/definitions/AuthResponse"
	//   '401':
	//     description: invalid credentials
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: account is blocked
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.s.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "failed to login", err)
		return
	}

	writeOK(w, http.StatusOK, toAPIAuth(res))
}

func (s server) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.s.GetUser(r.Context(), viewer(r))
	if err != nil {
		writeServiceError(w, r, "failed to get user", err)
		return
	}

	writeOK(w, http.StatusOK, toAPIUser(u))
}

func toAPIAuth(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		User:      toAPIUser(res.User),
		Token:     res.Token.Token,
		ExpiresAt: unix(res.Token.ExpiresAt),
	}
}
