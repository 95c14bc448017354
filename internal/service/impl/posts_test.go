package impl

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/publisher"
	"github.com/gymblog/gymblog/internal/rating"
	"github.com/gymblog/gymblog/internal/service"
	storageinterface "github.com/gymblog/gymblog/internal/storage"
)

func TestSrv_CreatePost(t *testing.T) {
	s, m := newService(t)

	m.s.EXPECT().GetUser(gomock.Any(), "u").Return(activeUser("u"), nil)
	m.s.EXPECT().CreatePost(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *entities.Post) error {
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "Leg day", p.Title)
		assert.Equal(t, "<p>squats</p>", p.ContentHTML)
		assert.Equal(t, "u@example.com", p.Author)
		assert.Equal(t, "u", p.AuthorID)
		assert.Equal(t, entities.ActiveStatus, p.Status)
		assert.Equal(t, now, p.CreatedAt)
		return nil
	})

	p, err := s.CreatePost(ctx, "u", service.PostParams{
		Title:       " Leg day ",
		ContentHTML: `<p>squats</p><script>alert(1)</script>`,
	})
	require.NoError(t, err)
	assert.Equal(t, "Leg day", p.Title)
}

func TestSrv_CreatePost_Invalid(t *testing.T) {
	tt := []struct {
		name string
		p    service.PostParams
	}{
		{name: "no title", p: service.PostParams{ContentHTML: "<p>x</p>"}},
		{name: "long title", p: service.PostParams{Title: strings.Repeat("я", service.MaxTitleLength+1), ContentHTML: "<p>x</p>"}},
		{name: "no content", p: service.PostParams{Title: "t", ContentHTML: "<p> </p>"}},
		{name: "script only", p: service.PostParams{Title: "t", ContentHTML: "<script>alert(1)</script>"}},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newService(t)

			_, err := s.CreatePost(ctx, "u", tc.p)
			require.ErrorIs(t, err, service.ErrInvalidRequest)
		})
	}
}

func TestSrv_CreatePost_Blocked(t *testing.T) {
	s, m := newService(t)

	m.s.EXPECT().GetUser(gomock.Any(), "u").Return(newUser("u", entities.UserRole, entities.BlockedStatus), nil)

	_, err := s.CreatePost(ctx, "u", service.PostParams{Title: "t", ContentHTML: "<p>x</p>"})
	require.ErrorIs(t, err, service.ErrBlocked)
}

func TestSrv_UpdatePost(t *testing.T) {
	params := service.PostParams{Title: "new", ContentHTML: "<p>new</p>"}

	t.Run("success", func(t *testing.T) {
		s, m := newService(t)

		m.s.EXPECT().GetUser(gomock.Any(), "u").Return(activeUser("u"), nil)
		m.s.EXPECT().GetPost(gomock.Any(), "p").Return(newPost("p", "u", entities.ActiveStatus), nil)
		m.s.EXPECT().UpdatePost(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *entities.Post) error {
			assert.Equal(t, "new", p.Title)
			assert.Equal(t, "<p>new</p>", p.ContentHTML)
			return nil
		})
		expectEvent(t, m, publisher.PostUpdated, "p")

		p, err := s.UpdatePost(ctx, "u", "p", params)
		require.NoError(t, err)
		assert.Equal(t, "new", p.Title)
	})

	t.Run("not author", func(t *testing.T) {
		s, m := newService(t)

		m.s.EXPECT().GetUser(gomock.Any(), "x").Return(newUser("x", entities.AdminRole, entities.ActiveStatus), nil)
		m.s.EXPECT().GetPost(gomock.Any(), "p").Return(newPost("p", "u", entities.ActiveStatus), nil)

		_, err := s.UpdatePost(ctx, "x", "p", params)
		require.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("not found", func(t *testing.T) {
		s, m := newService(t)

		m.s.EXPECT().GetUser(gomock.Any(), "u").Return(activeUser("u"), nil)
		m.s.EXPECT().GetPost(gomock.Any(), "p").Return(nil, errNotFound)

		_, err := s.UpdatePost(ctx, "u", "p", params)
		require.ErrorIs(t, err, service.ErrNotFound)
		assert.Equal(t, "post not found", err.Error())
	})
}

func TestSrv_GetPost(t *testing.T) {
	agg := rating.New()
	require.NoError(t, agg.Rate("v", 4, now))
	agg.ToggleLike("v")

	tt := []struct {
		name   string
		viewer string
		post   *entities.Post
		user   *entities.User
		err    error
	}{
		{name: "active anonymous", post: newPost("p", "u", entities.ActiveStatus)},
		{name: "active viewer", viewer: "v", post: newPost("p", "u", entities.ActiveStatus)},
		{name: "blocked anonymous", post: newPost("p", "u", entities.BlockedStatus), err: service.ErrNotFound},
		{name: "blocked author", viewer: "u", post: newPost("p", "u", entities.BlockedStatus)},
		{
			name:   "blocked other",
			viewer: "v",
			post:   newPost("p", "u", entities.BlockedStatus),
			user:   activeUser("v"),
			err:    service.ErrNotFound,
		},
		{
			name:   "blocked moderator",
			viewer: "v",
			post:   newPost("p", "u", entities.BlockedStatus),
			user:   newUser("v", entities.ModeratorRole, entities.ActiveStatus),
		},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			s, m := newService(t)

			m.s.EXPECT().GetPost(gomock.Any(), "p").Return(tc.post, nil)
			if tc.user != nil {
				m.s.EXPECT().GetUser(gomock.Any(), tc.viewer).Return(tc.user, nil)
			}
			if tc.err == nil {
				m.s.EXPECT().GetRatings(gomock.Any(), "p").Return(agg, nil)
			}

			p, err := s.GetPost(ctx, tc.viewer, "p")
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, *tc.post, p.Post)
			assert.Equal(t, 1, p.TotalRatings)
			assert.Equal(t, 1, p.LikesCount)
			assert.Equal(t, tc.viewer == "v", p.Liked)
			if tc.viewer == "v" {
				assert.Equal(t, 4, p.ViewerRating)
			}
		})
	}
}

func TestSrv_ListPosts(t *testing.T) {
	posts := []*storageinterface.Post{
		{Post: *newPost("1", "a", entities.ActiveStatus), Stats: storageinterface.Stats{AverageRating: 4.5, TotalRatings: 2, LikesCount: 3}},
		{Post: *newPost("2", "b", entities.ActiveStatus)},
	}
	active := entities.ActiveStatus
	blocked := entities.BlockedStatus

	t.Run("anonymous sees active only", func(t *testing.T) {
		s, m := newService(t)

		m.s.EXPECT().ListPosts(gomock.Any(), &storageinterface.ListPostsParams{Limit: 20, Status: &active}).Return(posts, nil)

		out, err := s.ListPosts(ctx, "", &storageinterface.ListPostsParams{Limit: 20, Status: &blocked})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, 4.5, out[0].AverageRating)
		assert.Equal(t, 3, out[0].LikesCount)
		assert.False(t, out[0].Liked)
	})

	t.Run("viewer gets liked flags", func(t *testing.T) {
		s, m := newService(t)

		m.s.EXPECT().GetUser(gomock.Any(), "v").Return(activeUser("v"), nil)
		m.s.EXPECT().ListPosts(gomock.Any(), &storageinterface.ListPostsParams{Limit: 20, Status: &active}).Return(posts, nil)
		m.s.EXPECT().GetLikes(gomock.Any(), "v", "1", "2").Return(map[string]bool{"2": true}, nil)

		out, err := s.ListPosts(ctx, "v", &storageinterface.ListPostsParams{Limit: 20})
		require.NoError(t, err)
		assert.False(t, out[0].Liked)
		assert.True(t, out[1].Liked)
	})

	t.Run("moderator sees everything", func(t *testing.T) {
		s, m := newService(t)

		m.s.EXPECT().GetUser(gomock.Any(), "m").Return(newUser("m", entities.ModeratorRole, entities.ActiveStatus), nil)
		m.s.EXPECT().ListPosts(gomock.Any(), &storageinterface.ListPostsParams{Limit: 20}).Return(nil, nil)

		out, err := s.ListPosts(ctx, "m", &storageinterface.ListPostsParams{Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("author sees own blocked", func(t *testing.T) {
		s, m := newService(t)

		author := "a"
		p := &storageinterface.ListPostsParams{Limit: 20, AuthorID: &author, Status: &blocked}
		m.s.EXPECT().ListPosts(gomock.Any(), p).Return(nil, nil)

		_, err := s.ListPosts(ctx, "a", p)
		require.NoError(t, err)
	})
}

func TestSrv_DeletePost(t *testing.T) {
	t.Run("moderator", func(t *testing.T) {
		s, m := newService(t)

		p := newPost("p", "u", entities.ActiveStatus)
		p.Attachment = &entities.Attachment{URL: "http://x/f.pdf", Name: "f.pdf", Ref: "posts/p/f.pdf"}

		m.s.EXPECT().GetUser(gomock.Any(), "m").Return(newUser("m", entities.ModeratorRole, entities.ActiveStatus), nil)
		m.s.EXPECT().GetPost(gomock.Any(), "p").Return(p, nil)
		m.s.EXPECT().DeletePost(gomock.Any(), "p").Return(nil)
		m.files.EXPECT().Delete(gomock.Any(), "posts/p/f.pdf").Return(nil)
		expectEvent(t, m, publisher.PostDeleted, "p")

		require.NoError(t, s.DeletePost(ctx, "m", "p"))
	})

	t.Run("author", func(t *testing.T) {
		s, m := newService(t)

		m.s.EXPECT().GetUser(gomock.Any(), "u").Return(activeUser("u"), nil)
		m.s.EXPECT().GetPost(gomock.Any(), "p").Return(newPost("p", "u", entities.ActiveStatus), nil)
		m.s.EXPECT().DeletePost(gomock.Any(), "p").Return(nil)
		expectEvent(t, m, publisher.PostDeleted, "p")

		require.NoError(t, s.DeletePost(ctx, "u", "p"))
	})

	t.Run("other user", func(t *testing.T) {
		s, m := newService(t)

		m.s.EXPECT().GetUser(gomock.Any(), "x").Return(activeUser("x"), nil)
		m.s.EXPECT().GetPost(gomock.Any(), "p").Return(newPost("p", "u", entities.ActiveStatus), nil)

		require.ErrorIs(t, s.DeletePost(ctx, "x", "p"), service.ErrForbidden)
	})
}

func TestSrv_SetPostStatus(t *testing.T) {
	s, m := newService(t)

	m.s.EXPECT().GetUser(gomock.Any(), "m").Return(newUser("m", entities.ModeratorRole, entities.ActiveStatus), nil)
	m.s.EXPECT().SetPostStatus(gomock.Any(), "p", entities.BlockedStatus).Return(nil)
	m.s.EXPECT().GetPost(gomock.Any(), "p").Return(newPost("p", "u", entities.BlockedStatus), nil)
	expectEvent(t, m, publisher.PostUpdated, "p")

	require.NoError(t, s.SetPostStatus(ctx, "m", "p", entities.BlockedStatus))

	m.s.EXPECT().GetUser(gomock.Any(), "u").Return(activeUser("u"), nil)
	require.ErrorIs(t, s.SetPostStatus(ctx, "u", "p", entities.BlockedStatus), service.ErrForbidden)

	require.ErrorIs(t, s.SetPostStatus(ctx, "m", "p", "hidden"), service.ErrInvalidRequest)
}

func TestSrv_ImportDOCX_Invalid(t *testing.T) {
	s, _ := newService(t)

	b := []byte("not a zip")
	_, err := s.ImportDOCX(ctx, bytes.NewReader(b), int64(len(b)))
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = s.ImportDOCX(ctx, bytes.NewReader(nil), 0)
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = s.ImportDOCX(ctx, bytes.NewReader(b), 2048)
	require.ErrorIs(t, err, service.ErrInvalidRequest)
}

func TestSrv_AttachFile(t *testing.T) {
	file := func(name string, size int64) service.File {
		return service.File{Name: name, Size: size, Body: strings.NewReader("content")}
	}

	t.Run("success", func(t *testing.T) {
		s, m := newService(t)

		old := newPost("p", "u", entities.ActiveStatus)
		old.Attachment = &entities.Attachment{URL: "http://x/old.txt", Name: "old.txt", Ref: "posts/p/old.txt"}

		m.s.EXPECT().GetUser(gomock.Any(), "u").Return(activeUser("u"), nil)
		m.s.EXPECT().GetPost(gomock.Any(), "p").Return(old, nil)
		gomock.InOrder(
			m.s.EXPECT().SetAttachment(gomock.Any(), "p", &entities.Attachment{Name: "plan.pdf", Uploading: true}).Return(nil),
			m.files.EXPECT().Put(gomock.Any(), gomock.Any(), "application/pdf", gomock.Any()).
				DoAndReturn(func(_ context.Context, key, _ string, r io.Reader) (string, error) {
					assert.True(t, strings.HasPrefix(key, "posts/p/"))
					assert.True(t, strings.HasSuffix(key, ".pdf"))
					return "http://x/" + key, nil
				}),
			m.s.EXPECT().SetAttachment(gomock.Any(), "p", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, a *entities.Attachment) error {
					assert.Equal(t, "plan.pdf", a.Name)
					assert.Equal(t, "http://x/"+a.Ref, a.URL)
					assert.False(t, a.Uploading)
					return nil
				}),
			m.files.EXPECT().Delete(gomock.Any(), "posts/p/old.txt").Return(nil),
		)
		expectEvent(t, m, publisher.PostUpdated, "p")

		a, err := s.AttachFile(ctx, "u", "p", file("C:\\docs\\plan.pdf", 7))
		require.NoError(t, err)
		assert.Equal(t, "plan.pdf", a.Name)
	})

	t.Run("upload failed", func(t *testing.T) {
		s, m := newService(t)

		m.s.EXPECT().GetUser(gomock.Any(), "u").Return(activeUser("u"), nil)
		m.s.EXPECT().GetPost(gomock.Any(), "p").Return(newPost("p", "u", entities.ActiveStatus), nil)
		m.s.EXPECT().SetAttachment(gomock.Any(), "p", &entities.Attachment{Name: "a.png", Uploading: true}).Return(nil)
		m.files.EXPECT().Put(gomock.Any(), gomock.Any(), "image/png", gomock.Any()).Return("", assert.AnError)
		m.s.EXPECT().SetAttachment(gomock.Any(), "p", &entities.Attachment{Name: "a.png", Error: "failed to upload file"}).Return(nil)

		_, err := s.AttachFile(ctx, "u", "p", file("a.png", 7))
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("not author", func(t *testing.T) {
		s, m := newService(t)

		m.s.EXPECT().GetUser(gomock.Any(), "x").Return(activeUser("x"), nil)
		m.s.EXPECT().GetPost(gomock.Any(), "p").Return(newPost("p", "u", entities.ActiveStatus), nil)

		_, err := s.AttachFile(ctx, "x", "p", file("a.png", 7))
		require.ErrorIs(t, err, service.ErrForbidden)
	})

	tt := []struct {
		name string
		f    service.File
	}{
		{name: "too large", f: file("a.pdf", 1025)},
		{name: "empty", f: file("a.pdf", 0)},
		{name: "wrong type", f: file("a.exe", 7)},
		{name: "no extension", f: file("readme", 7)},
		{name: "no name", f: file("", 7)},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newService(t)

			_, err := s.AttachFile(ctx, "u", "p", tc.f)
			require.ErrorIs(t, err, service.ErrInvalidRequest)
		})
	}
}
