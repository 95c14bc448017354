package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/storage"
)

// export is a Firebase JSON export. Every collection is keyed by document id.
type export struct {
	Users       map[string]user       `json:"users"`
	Posts       map[string]post       `json:"posts"`
	Comments    map[string]comment    `json:"comments"`
	PostRatings map[string]postRating `json:"postRatings"`
	Gyms        map[string]gym        `json:"gyms"`
}

type user struct {
	Email       string             `json:"email"`
	DisplayName string             `json:"displayName"`
	PhotoURL    string             `json:"photoURL"`
	Role        string             `json:"role"`
	Status      string             `json:"status"`
	CreatedAt   entities.Timestamp `json:"createdAt"`
}

type post struct {
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Author    string             `json:"author"`
	AuthorID  string             `json:"authorId"`
	Status    string             `json:"status"`
	FileURL   string             `json:"fileUrl"`
	FileName  string             `json:"fileName"`
	CreatedAt entities.Timestamp `json:"createdAt"`
	UpdatedAt entities.Timestamp `json:"updatedAt"`
}

type comment struct {
	PostID     string             `json:"postId"`
	Content    string             `json:"content"`
	Author     string             `json:"author"`
	AuthorID   string             `json:"authorId"`
	AuthorName string             `json:"authorName"`
	CreatedAt  entities.Timestamp `json:"createdAt"`
}

type vote struct {
	UserID    string             `json:"userId"`
	Rating    int                `json:"rating"`
	Timestamp entities.Timestamp `json:"timestamp"`
}

type postRating struct {
	Ratings []vote   `json:"ratings"`
	LikedBy []string `json:"likedBy"`
}

type location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type gym struct {
	Name         string             `json:"name"`
	City         string             `json:"city"`
	Type         string             `json:"type"`
	Description  string             `json:"description"`
	Address      string             `json:"address"`
	Location     *location          `json:"location"`
	Phone        string             `json:"phone"`
	Website      string             `json:"website"`
	Hours        string             `json:"hours"`
	ImageURL     string             `json:"imageUrl"`
	Rating       float64            `json:"rating"`
	ReviewsCount int                `json:"reviewsCount"`
	CreatedAt    entities.Timestamp `json:"createdAt"`
}

type result struct {
	Users    int
	Posts    int
	Comments int
	Ratings  int
	Gyms     int
}

// placeholderDomain is used for authors which have no profile in export.
const placeholderDomain = "imported.invalid"

// importExport writes export through s in one transaction.
// Records which already exist are skipped, so import can be repeated.
func importExport(ctx context.Context, s storage.Storage, e *export, now time.Time) (*result, error) {
	var res result

	err := s.InTx(ctx, func(s storage.Storage) error {
		var err error

		if res.Users, err = importUsers(ctx, s, e, now); err != nil {
			return err
		}
		if res.Posts, err = importPosts(ctx, s, e, now); err != nil {
			return err
		}
		if res.Comments, err = importComments(ctx, s, e, now); err != nil {
			return err
		}
		if res.Ratings, err = importRatings(ctx, s, e, now); err != nil {
			return err
		}
		if res.Gyms, err = importGyms(ctx, s, e, now); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orNow(ts entities.Timestamp, now time.Time) time.Time {
	if ts.IsZero() {
		return now
	}
	return ts.Time()
}

func importUsers(ctx context.Context, s storage.Storage, e *export, now time.Time) (int, error) {
	users := make(map[string]*entities.User, len(e.Users))

	for _, uid := range sortedKeys(e.Users) {
		v := e.Users[uid]

		role := entities.Role(v.Role)
		if !role.Valid() {
			role = entities.UserRole
		}
		status := entities.Status(v.Status)
		if !status.Valid() {
			status = entities.ActiveStatus
		}

		users[uid] = &entities.User{
			UID:         uid,
			Email:       strings.TrimSpace(v.Email),
			DisplayName: v.DisplayName,
			PhotoURL:    v.PhotoURL,
			Role:        role,
			Status:      status,
			CreatedAt:   orNow(v.CreatedAt, now),
		}
	}

	// posts reference their authors
	for _, id := range sortedKeys(e.Posts) {
		p := e.Posts[id]
		if p.AuthorID == "" {
			continue
		}
		if _, ok := users[p.AuthorID]; ok {
			continue
		}

		users[p.AuthorID] = &entities.User{
			UID:       p.AuthorID,
			Email:     strings.TrimSpace(p.Author),
			Role:      entities.UserRole,
			Status:    entities.ActiveStatus,
			CreatedAt: orNow(p.CreatedAt, now),
		}
	}

	uids := make([]string, 0, len(users))
	for k := range users {
		uids = append(uids, k)
	}
	sort.Strings(uids)

	n := 0
	for _, uid := range uids {
		u := users[uid]

		if _, err := s.GetUser(ctx, uid); err == nil {
			continue
		} else if !errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("failed to get user %s: %w", uid, err)
		}

		if u.Email != "" {
			if _, err := s.GetUserByEmail(ctx, u.Email); err == nil {
				logrus.WithField("uid", uid).Warnf("email %s is taken, placeholder is used", u.Email)
				u.Email = ""
			} else if !errors.Is(err, storage.ErrNotFound) {
				return 0, fmt.Errorf("failed to get user by email: %w", err)
			}
		}
		if u.Email == "" {
			u.Email = fmt.Sprintf("%s@%s", uid, placeholderDomain)
		}
		if u.DisplayName == "" {
			u.DisplayName = strings.SplitN(u.Email, "@", 2)[0]
		}

		if err := s.CreateUser(ctx, u); err != nil {
			return 0, fmt.Errorf("failed to create user %s: %w", uid, err)
		}
		n++
	}

	return n, nil
}

func importPosts(ctx context.Context, s storage.Storage, e *export, now time.Time) (int, error) {
	n := 0
	for _, id := range sortedKeys(e.Posts) {
		v := e.Posts[id]

		if v.AuthorID == "" {
			logrus.WithField("id", id).Warn("post has no author, skipped")
			continue
		}

		if _, err := s.GetPost(ctx, id); err == nil {
			continue
		} else if !errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("failed to get post %s: %w", id, err)
		}

		status := entities.Status(v.Status)
		if !status.Valid() {
			status = entities.ActiveStatus
		}

		p := &entities.Post{
			ID:          id,
			Title:       v.Title,
			ContentHTML: v.Content,
			Author:      v.Author,
			AuthorID:    v.AuthorID,
			Status:      status,
			CreatedAt:   orNow(v.CreatedAt, now),
		}
		p.UpdatedAt = orNow(v.UpdatedAt, p.CreatedAt)

		if v.FileURL != "" {
			p.Attachment = &entities.Attachment{URL: v.FileURL, Name: v.FileName}
		}

		if err := s.CreatePost(ctx, p); err != nil {
			return 0, fmt.Errorf("failed to create post %s: %w", id, err)
		}
		n++
	}

	return n, nil
}

func importComments(ctx context.Context, s storage.Storage, e *export, now time.Time) (int, error) {
	existing := map[string]map[string]struct{}{}

	n := 0
	for _, id := range sortedKeys(e.Comments) {
		v := e.Comments[id]

		known, ok := existing[v.PostID]
		if !ok {
			comments, err := s.ListComments(ctx, v.PostID)
			if err != nil {
				return 0, fmt.Errorf("failed to list comments: %w", err)
			}

			known = make(map[string]struct{}, len(comments))
			for _, c := range comments {
				known[c.ID] = struct{}{}
			}
			existing[v.PostID] = known
		}

		if _, ok := known[id]; ok {
			continue
		}

		if _, err := s.GetPost(ctx, v.PostID); errors.Is(err, storage.ErrNotFound) {
			logrus.WithField("id", id).Warnf("comment of unknown post %s, skipped", v.PostID)
			continue
		} else if err != nil {
			return 0, fmt.Errorf("failed to get post: %w", err)
		}

		if err := s.CreateComment(ctx, &entities.Comment{
			ID:         id,
			PostID:     v.PostID,
			Content:    v.Content,
			Author:     v.Author,
			AuthorID:   v.AuthorID,
			AuthorName: v.AuthorName,
			CreatedAt:  orNow(v.CreatedAt, now),
		}); err != nil {
			return 0, fmt.Errorf("failed to create comment %s: %w", id, err)
		}
		known[id] = struct{}{}
		n++
	}

	return n, nil
}

// importRatings rebuilds aggregates from votes, stored averages are ignored.
func importRatings(ctx context.Context, s storage.Storage, e *export, now time.Time) (int, error) {
	n := 0
	for _, postID := range sortedKeys(e.PostRatings) {
		v := e.PostRatings[postID]

		if _, err := s.GetPost(ctx, postID); errors.Is(err, storage.ErrNotFound) {
			logrus.WithField("post", postID).Warn("ratings of unknown post, skipped")
			continue
		} else if err != nil {
			return 0, fmt.Errorf("failed to get post: %w", err)
		}

		a, err := s.LockRatings(ctx, postID)
		if err != nil {
			return 0, fmt.Errorf("failed to lock ratings: %w", err)
		}

		for _, r := range v.Ratings {
			if err := a.Rate(r.UserID, r.Rating, orNow(r.Timestamp, now)); err != nil {
				logrus.WithField("post", postID).WithError(err).Warnf("invalid vote of %s, skipped", r.UserID)
			}
		}
		for _, uid := range v.LikedBy {
			if !a.HasLiked(uid) {
				a.ToggleLike(uid)
			}
		}

		if err := s.SaveRatings(ctx, postID, a); err != nil {
			return 0, fmt.Errorf("failed to save ratings: %w", err)
		}
		n++
	}

	return n, nil
}

func importGyms(ctx context.Context, s storage.Storage, e *export, now time.Time) (int, error) {
	gyms := make([]*entities.Gym, 0, len(e.Gyms))

	for _, id := range sortedKeys(e.Gyms) {
		v := e.Gyms[id]

		g := &entities.Gym{
			ID:           id,
			Name:         v.Name,
			City:         v.City,
			Type:         v.Type,
			Description:  v.Description,
			Address:      v.Address,
			Phone:        v.Phone,
			Website:      v.Website,
			Hours:        v.Hours,
			ImageURL:     v.ImageURL,
			Rating:       v.Rating,
			ReviewsCount: v.ReviewsCount,
			CreatedAt:    orNow(v.CreatedAt, now),
			UpdatedAt:    now,
		}
		if v.Location != nil {
			g.Location = &entities.Location{Lat: v.Location.Lat, Lng: v.Location.Lng}
		}

		gyms = append(gyms, g)
	}

	if len(gyms) == 0 {
		return 0, nil
	}

	n, err := s.CreateGyms(ctx, gyms)
	if err != nil {
		return 0, fmt.Errorf("failed to create gyms: %w", err)
	}

	return n, nil
}
