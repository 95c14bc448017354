package impl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/gymblog/gymblog/internal/content"
	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/publisher"
	"github.com/gymblog/gymblog/internal/rating"
	"github.com/gymblog/gymblog/internal/service"
	"github.com/gymblog/gymblog/internal/storage"
)

// nolint:gochecknoglobals
var attachmentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".txt":  "text/plain",
}

func (s *srv) validatePost(p service.PostParams) (service.PostParams, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return p, invalid("title is required")
	}
	if tooLong(p.Title, service.MaxTitleLength) {
		return p, invalid("title should be at most %d characters", service.MaxTitleLength)
	}

	html := content.Sanitize(p.ContentHTML)
	if strings.TrimSpace(content.Excerpt(html, 0)) == "" {
		return p, invalid("content is required")
	}
	p.ContentHTML = html

	return p, nil
}

func (s *srv) CreatePost(ctx context.Context, actor string, p service.PostParams) (*entities.Post, error) {
	p, err := s.validatePost(p)
	if err != nil {
		return nil, err
	}

	u, err := s.activeActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &entities.Post{
		ID:          uuid.New().String(),
		Title:       p.Title,
		ContentHTML: p.ContentHTML,
		Author:      u.Email,
		AuthorID:    u.UID,
		Status:      entities.ActiveStatus,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.s.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

func (s *srv) UpdatePost(ctx context.Context, actor, id string, p service.PostParams) (*entities.Post, error) {
	p, err := s.validatePost(p)
	if err != nil {
		return nil, err
	}

	if _, err := s.activeActor(ctx, actor); err != nil {
		return nil, err
	}

	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != actor {
		return nil, service.ErrForbidden
	}

	post.Title = p.Title
	post.ContentHTML = p.ContentHTML
	post.UpdatedAt = s.now()

	if err := s.s.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("post")
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.publish(ctx, publisher.PostUpdated, post.ID, toPostPayload(post))

	return post, nil
}

func (s *srv) getPost(ctx context.Context, id string) (*entities.Post, error) {
	p, err := s.s.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("post")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return p, nil
}

// visiblePost returns post if viewer can see it. Blocked posts are visible to author and moderators only.
func (s *srv) visiblePost(ctx context.Context, viewer, id string) (*entities.Post, error) {
	p, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Status != entities.BlockedStatus || (viewer != "" && p.AuthorID == viewer) {
		return p, nil
	}

	ok, err := s.canModerate(ctx, viewer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("post")
	}

	return p, nil
}

func (s *srv) canModerate(ctx context.Context, viewer string) (bool, error) {
	if viewer == "" {
		return false, nil
	}

	u, err := s.actor(ctx, viewer)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			return false, nil
		}
		return false, err
	}

	return u.Status == entities.ActiveStatus && u.Role.CanModerate(), nil
}

func (s *srv) GetPost(ctx context.Context, viewer, id string) (*service.Post, error) {
	p, err := s.visiblePost(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	a, err := s.s.GetRatings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}

	return &service.Post{
		Post:    *p,
		Summary: a.Summary(viewer),
	}, nil
}

func (s *srv) ListPosts(ctx context.Context, viewer string, p *storage.ListPostsParams) ([]*service.Post, error) {
	params := *p

	ownPosts := viewer != "" && params.AuthorID != nil && *params.AuthorID == viewer
	if params.Status == nil || *params.Status != entities.ActiveStatus {
		if !ownPosts {
			ok, err := s.canModerate(ctx, viewer)
			if err != nil {
				return nil, err
			}
			if !ok {
				active := entities.ActiveStatus
				params.Status = &active
			}
		}
	}

	posts, err := s.s.ListPosts(ctx, &params)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	liked := map[string]bool{}
	if viewer != "" && len(posts) > 0 {
		ids := make([]string, len(posts))
		for i, v := range posts {
			ids[i] = v.ID
		}

		if liked, err = s.s.GetLikes(ctx, viewer, ids...); err != nil {
			return nil, fmt.Errorf("failed to get likes: %w", err)
		}
	}

	out := make([]*service.Post, len(posts))
	for i, v := range posts {
		out[i] = &service.Post{
			Post: v.Post,
			Summary: rating.Summary{
				AverageRating: v.AverageRating,
				TotalRatings:  v.TotalRatings,
				LikesCount:    v.LikesCount,
				Liked:         liked[v.ID],
			},
		}
	}

	return out, nil
}

func (s *srv) DeletePost(ctx context.Context, actor, id string) error {
	u, err := s.activeActor(ctx, actor)
	if err != nil {
		return err
	}

	p, err := s.getPost(ctx, id)
	if err != nil {
		return err
	}

	if p.AuthorID != u.UID && !u.Role.CanModerate() {
		return service.ErrForbidden
	}

	if err := s.s.DeletePost(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("post")
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if p.Attachment != nil && p.Attachment.Ref != "" {
		s.deleteFile(ctx, p.Attachment.Ref)
	}

	log.WithField("post", id).WithField("by", actor).Info("post deleted")
	s.publish(ctx, publisher.PostDeleted, id, nil)

	return nil
}

func (s *srv) SetPostStatus(ctx context.Context, actor, id string, status entities.Status) error {
	if !status.Valid() {
		return invalid("unknown status %q", status)
	}

	if _, err := s.requireRole(ctx, actor, entities.ModeratorRole, entities.AdminRole); err != nil {
		return err
	}

	if err := s.s.SetPostStatus(ctx, id, status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("post")
		}
		return fmt.Errorf("failed to set post status: %w", err)
	}

	log.WithField("post", id).WithField("status", status).WithField("by", actor).Info("post status changed")

	if p, err := s.getPost(ctx, id); err == nil {
		s.publish(ctx, publisher.PostUpdated, id, toPostPayload(p))
	}

	return nil
}

func (s *srv) ImportDOCX(_ context.Context, r io.ReaderAt, size int64) (string, error) {
	if size <= 0 {
		return "", invalid("file is empty")
	}
	if s.cfg.MaxUploadSize > 0 && size > s.cfg.MaxUploadSize {
		return "", invalid("file is too large")
	}

	html, err := content.DOCXToHTML(r, size)
	if err != nil {
		if errors.Is(err, content.ErrNotDOCX) {
			return "", invalid("file is not a docx document")
		}
		if errors.Is(err, content.ErrTooLarge) {
			return "", invalid("document is too large")
		}
		return "", fmt.Errorf("failed to convert docx: %w", err)
	}

	return content.Sanitize(html), nil
}

// AttachFile stores f and records it as the post's attachment. Previous attachment is removed.
func (s *srv) AttachFile(ctx context.Context, actor, id string, f service.File) (*entities.Attachment, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(f.Name), "\\", "/"))
	ct, ok := attachmentTypes[strings.ToLower(path.Ext(name))]
	switch {
	case name == "" || name == "." || name == "/":
		return nil, invalid("file name is required")
	case f.Size <= 0:
		return nil, invalid("file is empty")
	case s.cfg.MaxUploadSize > 0 && f.Size > s.cfg.MaxUploadSize:
		return nil, invalid("file is too large")
	case !ok:
		return nil, invalid("file type is not allowed")
	}

	if s.files == nil {
		return nil, fmt.Errorf("file storage is %w", service.ErrNotConfigured)
	}

	if _, err := s.activeActor(ctx, actor); err != nil {
		return nil, err
	}

	p, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.AuthorID != actor {
		return nil, service.ErrForbidden
	}

	if err := s.s.SetAttachment(ctx, id, &entities.Attachment{Name: name, Uploading: true}); err != nil {
		return nil, fmt.Errorf("failed to mark upload: %w", err)
	}

	key := fmt.Sprintf("posts/%s/%s%s", id, uuid.New().String(), strings.ToLower(path.Ext(name)))

	url, err := s.files.Put(ctx, key, ct, f.Body)
	if err != nil {
		a := &entities.Attachment{Name: name, Error: "failed to upload file"}
		if err := s.s.SetAttachment(context.Background(), id, a); err != nil {
			log.WithError(err).WithField("post", id).Error("failed to record upload error")
		}
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	a := &entities.Attachment{URL: url, Name: name, Ref: key}
	if err := s.s.SetAttachment(ctx, id, a); err != nil {
		s.deleteFile(context.Background(), key)
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}

	if p.Attachment != nil && p.Attachment.Ref != "" && p.Attachment.Ref != key {
		s.deleteFile(ctx, p.Attachment.Ref)
	}

	p.Attachment = a
	s.publish(ctx, publisher.PostUpdated, id, toPostPayload(p))

	return a, nil
}

func (s *srv) deleteFile(ctx context.Context, key string) {
	if s.files == nil {
		return
	}

	if err := s.files.Delete(ctx, key); err != nil {
		log.WithError(err).WithField("key", key).Error("failed to delete file")
	}
}

func toPostPayload(p *entities.Post) publisher.Post {
	out := publisher.Post{
		ID:        p.ID,
		Title:     p.Title,
		Status:    string(p.Status),
		UpdatedAt: p.UpdatedAt,
	}
	if p.Attachment != nil {
		out.FileURL = p.Attachment.URL
	}

	return out
}
