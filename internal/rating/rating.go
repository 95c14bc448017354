// Package rating contains per-post star rating and like aggregation.
package rating

import (
	"errors"
	"strconv"
	"time"
)

const (
	// MinRating ...
	MinRating = 1
	// MaxRating ...
	MaxRating = 5
)

// ErrInvalidRating is returned when rating is out of [MinRating, MaxRating].
var ErrInvalidRating = errors.New("rating should be between 1 and 5")

// Vote is a single user's star rating.
type Vote struct {
	UserID    string
	Rating    int
	Timestamp time.Time
}

// Aggregate is the state of post's ratings: every vote, the running average and the set of likes.
// One vote per user, last vote wins.
type Aggregate struct {
	Votes         []Vote
	AverageRating float64
	TotalRatings  int
	Likes         map[string]struct{}
}

// Summary is the aggregate as seen by one viewer.
type Summary struct {
	AverageRating float64
	TotalRatings  int
	LikesCount    int
	Liked         bool
	// ViewerRating is 0 if viewer has not rated.
	ViewerRating int
}

// New returns empty aggregate.
func New() *Aggregate {
	return &Aggregate{
		Votes: []Vote{},
		Likes: map[string]struct{}{},
	}
}

// Rate records user's rating and recalculates the running average.
func (a *Aggregate) Rate(userID string, rating int, ts time.Time) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}

	if a.TotalRatings == 0 && len(a.Votes) == 0 {
		a.Votes = append(a.Votes, Vote{UserID: userID, Rating: rating, Timestamp: ts})
		a.AverageRating = float64(rating)
		a.TotalRatings = 1
		return nil
	}

	if i := a.voteIndex(userID); i >= 0 {
		old := a.Votes[i].Rating
		a.Votes[i].Rating = rating
		a.Votes[i].Timestamp = ts
		a.AverageRating = (a.AverageRating*float64(a.TotalRatings) - float64(old) + float64(rating)) /
			float64(a.TotalRatings)
		return nil
	}

	a.Votes = append(a.Votes, Vote{UserID: userID, Rating: rating, Timestamp: ts})
	total := a.TotalRatings + 1
	a.AverageRating = (a.AverageRating*float64(a.TotalRatings) + float64(rating)) / float64(total)
	a.TotalRatings = total

	return nil
}

// ToggleLike removes user's like if it exists or adds it otherwise.
// It returns true if the post is liked by user after the call.
func (a *Aggregate) ToggleLike(userID string) bool {
	if a.Likes == nil {
		a.Likes = map[string]struct{}{}
	}

	if _, ok := a.Likes[userID]; ok {
		delete(a.Likes, userID)
		return false
	}

	a.Likes[userID] = struct{}{}
	return true
}

// HasLiked ...
func (a *Aggregate) HasLiked(userID string) bool {
	_, ok := a.Likes[userID]
	return ok
}

// Summary returns the aggregate from viewer's point of view. Empty viewerID means anonymous viewer.
func (a *Aggregate) Summary(viewerID string) Summary {
	s := Summary{
		AverageRating: a.AverageRating,
		TotalRatings:  a.TotalRatings,
		LikesCount:    len(a.Likes),
	}

	if viewerID == "" {
		return s
	}

	s.Liked = a.HasLiked(viewerID)
	if i := a.voteIndex(viewerID); i >= 0 {
		s.ViewerRating = a.Votes[i].Rating
	}

	return s
}

func (a *Aggregate) voteIndex(userID string) int {
	for i := range a.Votes {
		if a.Votes[i].UserID == userID {
			return i
		}
	}
	return -1
}

// FormatAverage renders the average with one decimal place.
func FormatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
