package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/geo"
	"github.com/gymblog/gymblog/internal/rating"
	"github.com/gymblog/gymblog/internal/service"
)

const maxLimit = 100
const defaultLimit = 20

// Error ...
// swagger:model
type Error struct {
	Error string `json:"error"`
}

// RegisterRequest ...
// swagger:model
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	DisplayName     string `json:"displayName"`
}

// LoginRequest ...
// swagger:model
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse ...
// swagger:model
type AuthResponse struct {
	User      User   `json:"user"`
	Token     string `json:"token"`
	ExpiresAt uint64 `json:"expiresAt"`
}

// User ...
// swagger:model
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	CreatedAt   uint64 `json:"createdAt"`
}

// ListUsersResponse ...
// swagger:model
type ListUsersResponse struct {
	Users []User `json:"users"`
}

// PostRequest ...
// swagger:model
type PostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Post ...
// swagger:model
type Post struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	Author          string  `json:"author"`
	AuthorID        string  `json:"authorId"`
	Status          string  `json:"status"`
	FileURL         string  `json:"fileUrl,omitempty"`
	FileName        string  `json:"fileName,omitempty"`
	IsFileUploading bool    `json:"isFileUploading"`
	FileError       string  `json:"fileError,omitempty"`
	AverageRating   float64 `json:"averageRating"`
	TotalRatings    int     `json:"totalRatings"`
	LikesCount      int     `json:"likesCount"`
	LikedByViewer   bool    `json:"likedByViewer"`
	ViewerRating    int     `json:"viewerRating,omitempty"`
	CreatedAt       uint64  `json:"createdAt"`
	UpdatedAt       uint64  `json:"updatedAt"`
}

// ListPostsResponse ...
// swagger:model
type ListPostsResponse struct {
	Posts []Post `json:"posts"`
}

// ImportResponse is a html converted from uploaded document.
// swagger:model
type ImportResponse struct {
	Content string `json:"content"`
}

// Attachment ...
// swagger:model
type Attachment struct {
	URL  string `json:"fileUrl"`
	Name string `json:"fileName"`
}

// StatusRequest ...
// swagger:model
type StatusRequest struct {
	Status string `json:"status"`
}

// RoleRequest ...
// swagger:model
type RoleRequest struct {
	Role string `json:"role"`
}

// CommentRequest ...
// swagger:model
type CommentRequest struct {
	Content string `json:"content"`
}

// Comment ...
// swagger:model
type Comment struct {
	ID         string `json:"id"`
	PostID     string `json:"postId"`
	Content    string `json:"content"`
	Author     string `json:"author"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	CreatedAt  uint64 `json:"createdAt"`
}

// ListCommentsResponse ...
// swagger:model
type ListCommentsResponse struct {
	Comments []Comment `json:"comments"`
}

// RateRequest ...
// swagger:model
type RateRequest struct {
	Rating int `json:"rating"`
}

// Ratings ...
// swagger:model
type Ratings struct {
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
	LikesCount    int     `json:"likesCount"`
	LikedByViewer bool    `json:"likedByViewer"`
	ViewerRating  int     `json:"viewerRating,omitempty"`
}

// Location ...
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Gym ...
// swagger:model
type Gym struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Type         string    `json:"type"`
	Description  string    `json:"description,omitempty"`
	Address      string    `json:"address,omitempty"`
	Location     *Location `json:"location,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Website      string    `json:"website,omitempty"`
	Hours        string    `json:"hours,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Rating       float64   `json:"rating"`
	ReviewsCount int       `json:"reviewsCount"`
	// DistanceKm is set for nearby search only.
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

// ListGymsResponse ...
// swagger:model
type ListGymsResponse struct {
	Gyms []Gym `json:"gyms"`
	// Nearby is true when gyms were found around the requested location.
	Nearby bool `json:"nearby"`
}

// GymTypesResponse ...
// swagger:model
type GymTypesResponse struct {
	Types []string `json:"types"`
}

// ImportGymsRequest ...
// swagger:model
type ImportGymsRequest struct {
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// ImportGymsResponse ...
// swagger:model
type ImportGymsResponse struct {
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// ChatRequest ...
// swagger:model
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse ...
// swagger:model
type ChatResponse struct {
	Reply string `json:"reply"`
}

func writeOK(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeOK(w, status, Error{Error: msg})
}

// writeInternalError logs err and responds with msg only.
func writeInternalError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	log.WithField("request_id", middleware.GetReqID(ctx)).WithError(err).Error(msg)
	writeError(w, http.StatusInternalServerError, msg)
}

func unix(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(t.Unix())
}

func toAPIUser(u *entities.User) User {
	return User{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Role:        string(u.Role),
		Status:      string(u.Status),
		CreatedAt:   unix(u.CreatedAt),
	}
}

func toAPIPost(p *entities.Post, s rating.Summary) Post {
	out := Post{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.ContentHTML,
		Author:        p.Author,
		AuthorID:      p.AuthorID,
		Status:        string(p.Status),
		AverageRating: s.AverageRating,
		TotalRatings:  s.TotalRatings,
		LikesCount:    s.LikesCount,
		LikedByViewer: s.Liked,
		ViewerRating:  s.ViewerRating,
		CreatedAt:     unix(p.CreatedAt),
		UpdatedAt:     unix(p.UpdatedAt),
	}

	if a := p.Attachment; a != nil {
		out.FileURL = a.URL
		out.FileName = a.Name
		out.IsFileUploading = a.Uploading
		out.FileError = a.Error
	}

	return out
}

func toAPIPosts(posts []*service.Post) []Post {
	out := make([]Post, len(posts))
	for i, v := range posts {
		out[i] = toAPIPost(&v.Post, v.Summary)
	}
	return out
}

func toAPIComment(c *entities.Comment) Comment {
	return Comment{
		ID:         c.ID,
		PostID:     c.PostID,
		Content:    c.Content,
		Author:     c.Author,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		CreatedAt:  unix(c.CreatedAt),
	}
}

func toAPIRatings(s rating.Summary) Ratings {
	return Ratings{
		AverageRating: s.AverageRating,
		TotalRatings:  s.TotalRatings,
		LikesCount:    s.LikesCount,
		LikedByViewer: s.Liked,
		ViewerRating:  s.ViewerRating,
	}
}

func toAPIGym(g *entities.Gym) Gym {
	out := Gym{
		ID:           g.ID,
		Name:         g.Name,
		City:         g.City,
		Type:         g.Type,
		Description:  g.Description,
		Address:      g.Address,
		Phone:        g.Phone,
		Website:      g.Website,
		Hours:        g.Hours,
		ImageURL:     g.ImageURL,
		Rating:       g.Rating,
		ReviewsCount: g.ReviewsCount,
	}

	if g.Location != nil {
		out.Location = &Location{Lat: g.Location.Lat, Lng: g.Location.Lng}
	}

	return out
}

func toAPIGyms(gyms []geo.GymDistance, withDistance bool) []Gym {
	out := make([]Gym, len(gyms))
	for i := range gyms {
		out[i] = toAPIGym(gyms[i].Gym)
		if withDistance {
			d := gyms[i].DistanceKm
			out[i].DistanceKm = &d
		}
	}
	return out
}
