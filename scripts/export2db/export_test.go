package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/rating"
	"github.com/gymblog/gymblog/internal/storage"
	"github.com/gymblog/gymblog/internal/storage/mock"
)

const exportJSON = `{
	"users": {
		"u1": {"email": "john@example.com", "displayName": "John", "role": "admin", "createdAt": {"_seconds": 1600000000, "_nanoseconds": 0}}
	},
	"posts": {
		"p1": {"title": "Squats", "content": "<p>deep</p>", "author": "john@example.com", "authorId": "u1", "createdAt": "2021-03-04T05:06:07Z"},
		"p2": {"title": "Bench", "content": "<p>press</p>", "author": "jane@example.com", "authorId": "u2", "fileUrl": "https://files/plan.pdf", "fileName": "plan.pdf", "createdAt": 1600000000000},
		"p3": {"title": "Orphan", "content": "<p>x</p>"}
	},
	"comments": {
		"c1": {"postId": "p1", "content": "nice", "author": "jane@example.com", "authorId": "u2", "createdAt": 1600000000000},
		"c2": {"postId": "gone", "content": "lost"}
	},
	"postRatings": {
		"p1": {"ratings": [{"userId": "u2", "rating": 4}, {"userId": "u3", "rating": 9}], "likedBy": ["u2"]}
	},
	"gyms": {
		"g1": {"name": "Iron", "city": "Lviv", "address": "Shevchenka 12", "location": {"lat": 49.84, "lng": 24.03}}
	}
}`

func TestImportExport(t *testing.T) {
	var e export
	require.NoError(t, json.Unmarshal([]byte(exportJSON), &e))

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s := mock.NewMockStorage(ctrl)

	now := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	s.EXPECT().InTx(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f func(storage.Storage) error) error {
		return f(s)
	})

	// users
	s.EXPECT().GetUser(gomock.Any(), "u1").Return(nil, storage.ErrNotFound)
	s.EXPECT().GetUserByEmail(gomock.Any(), "john@example.com").Return(nil, storage.ErrNotFound)
	s.EXPECT().CreateUser(gomock.Any(), &entities.User{
		UID:         "u1",
		Email:       "john@example.com",
		DisplayName: "John",
		Role:        entities.AdminRole,
		Status:      entities.ActiveStatus,
		CreatedAt:   time.Unix(1600000000, 0).UTC(),
	}).Return(nil)
	s.EXPECT().GetUser(gomock.Any(), "u2").Return(&entities.User{UID: "u2"}, nil)

	// posts
	s.EXPECT().GetPost(gomock.Any(), "p1").Return(nil, storage.ErrNotFound)
	s.EXPECT().CreatePost(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *entities.Post) error {
		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, entities.ActiveStatus, p.Status)
		assert.Equal(t, time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC), p.CreatedAt)
		assert.Equal(t, p.CreatedAt, p.UpdatedAt)
		assert.Nil(t, p.Attachment)
		return nil
	})
	s.EXPECT().GetPost(gomock.Any(), "p2").Return(&entities.Post{ID: "p2"}, nil)

	// comments
	s.EXPECT().ListComments(gomock.Any(), "p1").Return(nil, nil)
	s.EXPECT().GetPost(gomock.Any(), "p1").Return(&entities.Post{ID: "p1"}, nil)
	s.EXPECT().CreateComment(gomock.Any(), &entities.Comment{
		ID:        "c1",
		PostID:    "p1",
		Content:   "nice",
		Author:    "jane@example.com",
		AuthorID:  "u2",
		CreatedAt: time.Unix(1600000000, 0).UTC(),
	}).Return(nil)
	s.EXPECT().ListComments(gomock.Any(), "gone").Return(nil, nil)
	s.EXPECT().GetPost(gomock.Any(), "gone").Return(nil, storage.ErrNotFound)

	// ratings
	s.EXPECT().GetPost(gomock.Any(), "p1").Return(&entities.Post{ID: "p1"}, nil)
	s.EXPECT().LockRatings(gomock.Any(), "p1").Return(rating.New(), nil)
	s.EXPECT().SaveRatings(gomock.Any(), "p1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, a *rating.Aggregate) error {
		assert.Equal(t, 1, a.TotalRatings)
		assert.Equal(t, 4.0, a.AverageRating)
		assert.True(t, a.HasLiked("u2"))
		assert.Equal(t, now, a.Votes[0].Timestamp)
		return nil
	})

	// gyms
	s.EXPECT().CreateGyms(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, gyms []*entities.Gym) (int, error) {
		require.Len(t, gyms, 1)
		assert.Equal(t, "g1", gyms[0].ID)
		assert.Equal(t, &entities.Location{Lat: 49.84, Lng: 24.03}, gyms[0].Location)
		assert.Equal(t, now, gyms[0].CreatedAt)
		return 1, nil
	})

	res, err := importExport(ctx, s, &e, now)
	require.NoError(t, err)
	assert.Equal(t, &result{Users: 1, Posts: 1, Comments: 1, Ratings: 1, Gyms: 1}, res)
}

func TestImportUsers_Placeholder(t *testing.T) {
	e := export{
		Posts: map[string]post{
			"p": {Author: "taken@example.com", AuthorID: "x"},
		},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s := mock.NewMockStorage(ctrl)

	now := time.Unix(100, 0).UTC()

	s.EXPECT().GetUser(gomock.Any(), "x").Return(nil, storage.ErrNotFound)
	s.EXPECT().GetUserByEmail(gomock.Any(), "taken@example.com").Return(&entities.User{UID: "other"}, nil)
	s.EXPECT().CreateUser(gomock.Any(), &entities.User{
		UID:         "x",
		Email:       "x@imported.invalid",
		DisplayName: "x",
		Role:        entities.UserRole,
		Status:      entities.ActiveStatus,
		CreatedAt:   now,
	}).Return(nil)

	n, err := importUsers(context.Background(), s, &e, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestImportExport_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s := mock.NewMockStorage(ctrl)

	s.EXPECT().InTx(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f func(storage.Storage) error) error {
		return f(s)
	})
	s.EXPECT().GetUser(gomock.Any(), "u").Return(nil, assert.AnError)

	_, err := importExport(context.Background(), s, &export{Users: map[string]user{"u": {Email: "u@example.com"}}}, time.Now())
	require.ErrorIs(t, err, assert.AnError)
}
