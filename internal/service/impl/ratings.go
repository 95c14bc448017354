package impl

import (
	"context"
	"errors"
	"fmt"

	"github.com/gymblog/gymblog/internal/publisher"
	"github.com/gymblog/gymblog/internal/rating"
	"github.com/gymblog/gymblog/internal/storage"
)

func (s *srv) RatePost(ctx context.Context, actor, postID string, value int) (rating.Summary, error) {
	if value < rating.MinRating || value > rating.MaxRating {
		return rating.Summary{}, invalid("rating should be between %d and %d", rating.MinRating, rating.MaxRating)
	}

	return s.updateRatings(ctx, actor, postID, func(a *rating.Aggregate) error {
		return a.Rate(actor, value, s.now())
	})
}

func (s *srv) ToggleLike(ctx context.Context, actor, postID string) (rating.Summary, error) {
	return s.updateRatings(ctx, actor, postID, func(a *rating.Aggregate) error {
		a.ToggleLike(actor)
		return nil
	})
}

// updateRatings applies f to the locked aggregate so concurrent votes do not overwrite each other.
func (s *srv) updateRatings(ctx context.Context, actor, postID string, f func(a *rating.Aggregate) error) (rating.Summary, error) {
	if _, err := s.activeActor(ctx, actor); err != nil {
		return rating.Summary{}, err
	}

	if _, err := s.visiblePost(ctx, actor, postID); err != nil {
		return rating.Summary{}, err
	}

	var a *rating.Aggregate
	if err := s.s.InTx(ctx, func(tx storage.Storage) error {
		var err error
		if a, err = tx.LockRatings(ctx, postID); err != nil {
			return err
		}

		if err := f(a); err != nil {
			return err
		}

		return tx.SaveRatings(ctx, postID, a)
	}); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return rating.Summary{}, notFound("post")
		case errors.Is(err, rating.ErrInvalidRating):
			return rating.Summary{}, invalid("%s", err)
		}
		return rating.Summary{}, fmt.Errorf("failed to update ratings: %w", err)
	}

	sum := a.Summary(actor)
	s.publish(ctx, publisher.RatingUpdated, postID, publisher.Rating{
		AverageRating: sum.AverageRating,
		TotalRatings:  sum.TotalRatings,
		LikesCount:    sum.LikesCount,
	})

	return sum, nil
}

func (s *srv) GetRatingSummary(ctx context.Context, viewer, postID string) (rating.Summary, error) {
	if _, err := s.visiblePost(ctx, viewer, postID); err != nil {
		return rating.Summary{}, err
	}

	a, err := s.s.GetRatings(ctx, postID)
	if err != nil {
		return rating.Summary{}, fmt.Errorf("failed to get ratings: %w", err)
	}

	return a.Summary(viewer), nil
}
