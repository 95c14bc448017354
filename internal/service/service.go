// Package service contains interface for service business-logic.
package service

import (
	"context"
	"errors"
	"io"

	"github.com/gymblog/gymblog/internal/auth"
	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/geo"
	"github.com/gymblog/gymblog/internal/rating"
	"github.com/gymblog/gymblog/internal/storage"
)

//go:generate mockgen -destination=./mock/service.go -package=mock -source=service.go

var (
	// ErrInvalidRequest is wrapped by every validation error.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound is wrapped with the entity name, e.g. "post not found".
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when actor has no rights for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrBlocked is returned when a blocked user tries to sign in or write.
	ErrBlocked = errors.New("account is blocked")
	// ErrInvalidCredentials ...
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailInUse ...
	ErrEmailInUse = errors.New("email already in use")
	// ErrNotConfigured is returned when an optional collaborator is disabled.
	ErrNotConfigured = errors.New("not configured")
)

const (
	// MinPasswordLength ...
	MinPasswordLength = 6
	// MaxCommentLength is a limit of comment's content in runes.
	MaxCommentLength = 5000
	// MaxTitleLength is a limit of post's title in runes.
	MaxTitleLength = 200
	// DefaultRadiusKm is used for nearby search when radius is not set.
	DefaultRadiusKm = 5
	// MaxRadiusKm ...
	MaxRadiusKm = 50
	// ImportRadiusMeters is a radius of gyms import around the city.
	ImportRadiusMeters = 10000
)

// Service ...
type Service interface {
	Register(ctx context.Context, p RegisterParams) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// EnsureUser returns user of session creating the profile on first sign-in.
	EnsureUser(ctx context.Context, s *auth.Session) (*entities.User, error)

	GetUser(ctx context.Context, uid string) (*entities.User, error)
	ListUsers(ctx context.Context, actor string, p *storage.ListUsersParams) ([]*entities.User, error)
	SetUserRole(ctx context.Context, actor, uid string, role entities.Role) error
	SetUserStatus(ctx context.Context, actor, uid string, status entities.Status) error

	CreatePost(ctx context.Context, actor string, p PostParams) (*entities.Post, error)
	UpdatePost(ctx context.Context, actor, id string, p PostParams) (*entities.Post, error)
	GetPost(ctx context.Context, viewer, id string) (*Post, error)
	ListPosts(ctx context.Context, viewer string, p *storage.ListPostsParams) ([]*Post, error)
	DeletePost(ctx context.Context, actor, id string) error
	SetPostStatus(ctx context.Context, actor, id string, status entities.Status) error
	// ImportDOCX converts docx document to sanitized html.
	ImportDOCX(ctx context.Context, r io.ReaderAt, size int64) (string, error)
	AttachFile(ctx context.Context, actor, id string, f File) (*entities.Attachment, error)

	AddComment(ctx context.Context, actor, postID, content string) (*entities.Comment, error)
	ListComments(ctx context.Context, viewer, postID string) ([]*entities.Comment, error)

	RatePost(ctx context.Context, actor, postID string, value int) (rating.Summary, error)
	ToggleLike(ctx context.Context, actor, postID string) (rating.Summary, error)
	GetRatingSummary(ctx context.Context, viewer, postID string) (rating.Summary, error)

	ListGyms(ctx context.Context, p ListGymsParams) ([]geo.GymDistance, error)
	GymTypes(ctx context.Context) ([]string, error)
	GetGym(ctx context.Context, id string) (*entities.Gym, error)
	ImportGyms(ctx context.Context, actor string, p ImportGymsParams) (*ImportResult, error)

	Chat(ctx context.Context, actor, text string) (string, error)
}

// RegisterParams ...
type RegisterParams struct {
	Email           string
	Password        string
	PasswordConfirm string
	DisplayName     string
}

// AuthResult ...
type AuthResult struct {
	User  *entities.User
	Token auth.Token
}

// PostParams ...
type PostParams struct {
	Title       string
	ContentHTML string
}

// Post is a post with its rating summary as seen by viewer.
type Post struct {
	entities.Post
	rating.Summary
}

// File is an uploaded file.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ListGymsParams ...
type ListGymsParams struct {
	Query string
	Type  string
	City  string
	// Origin enables nearby search within RadiusKm.
	Origin   *geo.Point
	RadiusKm float64
}

// ImportGymsParams ...
type ImportGymsParams struct {
	City string
	Lat  float64
	Lng  float64
	// RadiusMeters defaults to ImportRadiusMeters.
	RadiusMeters int
}

// ImportResult ...
type ImportResult struct {
	Fetched  int
	Inserted int
	Skipped  int
}
