// Package publisher contains interface of domain events publisher.
package publisher

//go:generate mockgen -destination=./mock/publisher.go -package=mock -source=publisher.go

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// EventType ...
type EventType string

const (
	// CommentCreated is published with the created comment as payload.
	CommentCreated EventType = "comment.created"
	// RatingUpdated is published with the post's rating summary as payload.
	RatingUpdated EventType = "rating.updated"
	// PostUpdated is published with the updated post as payload.
	PostUpdated EventType = "post.updated"
	// PostDeleted has no payload.
	PostDeleted EventType = "post.deleted"
)

// Event is a change of a post's state.
type Event struct {
	Type      EventType       `json:"type"`
	PostID    string          `json:"postId"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewEvent creates an event with JSON encoded payload.
func NewEvent(typ EventType, postID string, payload interface{}) (Event, error) {
	e := Event{
		Type:      typ,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	}

	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("failed to marshal payload: %w", err)
		}
		e.Payload = b
	}

	return e, nil
}

// Topic returns real-time topic name of post.
func Topic(postID string) string {
	return "post:" + postID
}

// Publisher publishes events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Comment is a payload of CommentCreated.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Rating is a payload of RatingUpdated.
type Rating struct {
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
	LikesCount    int     `json:"likesCount"`
}

// Post is a payload of PostUpdated.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	FileURL   string    `json:"fileUrl,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
