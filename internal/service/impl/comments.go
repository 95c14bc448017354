package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/publisher"
	"github.com/gymblog/gymblog/internal/service"
	"github.com/gymblog/gymblog/internal/storage"
)

func (s *srv) AddComment(ctx context.Context, actor, postID, text string) (*entities.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("comment is empty")
	}
	if tooLong(text, service.MaxCommentLength) {
		return nil, invalid("comment should be at most %d characters", service.MaxCommentLength)
	}

	u, err := s.activeActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	if _, err := s.visiblePost(ctx, actor, postID); err != nil {
		return nil, err
	}

	name := u.DisplayName
	if name == "" {
		name = defaultDisplayName(u.Email)
	}

	c := &entities.Comment{
		ID:         uuid.New().String(),
		PostID:     postID,
		Content:    text,
		Author:     u.Email,
		AuthorID:   u.UID,
		AuthorName: name,
		CreatedAt:  s.now(),
	}

	if err := s.s.CreateComment(ctx, c); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("post")
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.publish(ctx, publisher.CommentCreated, postID, publisher.Comment{
		ID:         c.ID,
		PostID:     c.PostID,
		Content:    c.Content,
		Author:     c.Author,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		CreatedAt:  c.CreatedAt,
	})

	return c, nil
}

func (s *srv) ListComments(ctx context.Context, viewer, postID string) ([]*entities.Comment, error) {
	if _, err := s.visiblePost(ctx, viewer, postID); err != nil {
		return nil, err
	}

	comments, err := s.s.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}
