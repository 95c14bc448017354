// Package storage contains a storage interface.
package storage

import (
	"context"
	"fmt"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/rating"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

// ErrNotFound ...
var ErrNotFound = fmt.Errorf("not found")

// ErrAlreadyExists ...
var ErrAlreadyExists = fmt.Errorf("already exists")

// Storage provides methods for interacting with database.
type Storage interface {
	// InTx runs f within one transaction. Nested calls join the outer transaction.
	InTx(ctx context.Context, f func(s Storage) error) error
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u *entities.User) error
	GetUser(ctx context.Context, uid string) (*entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	ListUsers(ctx context.Context, p *ListUsersParams) ([]*entities.User, error)
	SetUserRole(ctx context.Context, uid string, role entities.Role) error
	SetUserStatus(ctx context.Context, uid string, status entities.Status) error

	CreatePost(ctx context.Context, p *entities.Post) error
	GetPost(ctx context.Context, id string) (*entities.Post, error)
	UpdatePost(ctx context.Context, p *entities.Post) error
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, p *ListPostsParams) ([]*Post, error)
	SetPostStatus(ctx context.Context, id string, status entities.Status) error
	SetAttachment(ctx context.Context, id string, a *entities.Attachment) error

	CreateComment(ctx context.Context, c *entities.Comment) error
	ListComments(ctx context.Context, postID string) ([]*entities.Comment, error)

	// LockRatings returns post's aggregate and locks it until the end of transaction.
	// It should be called within InTx.
	LockRatings(ctx context.Context, postID string) (*rating.Aggregate, error)
	GetRatings(ctx context.Context, postID string) (*rating.Aggregate, error)
	SaveRatings(ctx context.Context, postID string, a *rating.Aggregate) error
	// GetLikes returns set of ids liked by likedBy.
	GetLikes(ctx context.Context, likedBy string, id ...string) (map[string]bool, error)

	// CreateGyms inserts gyms skipping ones with already known normalized address.
	CreateGyms(ctx context.Context, gyms []*entities.Gym) (int, error)
	GetGym(ctx context.Context, id string) (*entities.Gym, error)
	ListGyms(ctx context.Context, p *ListGymsParams) ([]*entities.Gym, error)
	// GymAddresses returns normalized addresses of all gyms.
	GymAddresses(ctx context.Context) (map[string]struct{}, error)
}

// SortType ...
type SortType string

const (
	// CreatedAtSortType ...
	CreatedAtSortType SortType = "created_at"
	// RatingSortType ...
	RatingSortType SortType = "rating"
	// LikesSortType ...
	LikesSortType SortType = "likes"
)

// OrderType ...
type OrderType string

const (
	// AscendingOrder ...
	AscendingOrder OrderType = "asc"
	// DescendingOrder ...
	DescendingOrder OrderType = "desc"
)

// ListPostsParams ...
type ListPostsParams struct {
	SortBy   SortType
	OrderBy  OrderType
	Limit    uint16
	AuthorID *string
	Status   *entities.Status
	// Search filters posts by case-insensitive substring of title.
	Search string
	// After is a not-including bound for list by post id.
	After *string
}

// ListUsersParams ...
type ListUsersParams struct {
	Role   *entities.Role
	Status *entities.Status
	Limit  uint16
	Offset uint32
}

// ListGymsParams ...
type ListGymsParams struct {
	City string
	Type string
}

// Stats is a post's rating summary.
type Stats struct {
	AverageRating float64
	TotalRatings  int
	LikesCount    int
}

// Post ...
type Post struct {
	entities.Post
	Stats
}
