package server

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/publisher"
	"github.com/gymblog/gymblog/internal/rating"
	"github.com/gymblog/gymblog/internal/service"
	"github.com/gymblog/gymblog/internal/storage"
)

func testPost(id string) *service.Post {
	return &service.Post{
		Post: entities.Post{
			ID:          id,
			Title:       "title " + id,
			ContentHTML: "<p>text</p>",
			Author:      "a@example.com",
			AuthorID:    "a",
			Status:      entities.ActiveStatus,
			CreatedAt:   time.Unix(100, 0),
			UpdatedAt:   time.Unix(200, 0),
		},
	}
}

func Test_listPosts(t *testing.T) {
	router, m := newRouter(t)

	first, second := testPost("1"), testPost("2")
	first.Summary = rating.Summary{AverageRating: 4.5, TotalRatings: 2, LikesCount: 1, Liked: true, ViewerRating: 5}
	second.Attachment = &entities.Attachment{URL: "https://files/x.pdf", Name: "x.pdf"}

	signIn(m, "u", entities.UserRole)
	m.s.EXPECT().ListPosts(gomock.Any(), "u", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, p *storage.ListPostsParams) ([]*service.Post, error) {
			assert.Equal(t, storage.RatingSortType, p.SortBy)
			assert.Equal(t, storage.AscendingOrder, p.OrderBy)
			assert.EqualValues(t, 10, p.Limit)
			assert.Equal(t, "a", *p.AuthorID)
			assert.Equal(t, "1", *p.After)
			assert.Equal(t, "squat", p.Search)
			assert.Nil(t, p.Status)
			return []*service.Post{first, second}, nil
		})

	w := do(router, http.MethodGet, "/v1/posts?sortBy=rating&orderBy=asc&limit=10&authorId=a&after=1&q=squat", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"posts":[
			{
				"id":"1",
				"title":"title 1",
				"content":"<p>text</p>",
				"author":"a@example.com",
				"authorId":"a",
				"status":"active",
				"isFileUploading":false,
				"averageRating":4.5,
				"totalRatings":2,
				"likesCount":1,
				"likedByViewer":true,
				"viewerRating":5,
				"createdAt":100,
				"updatedAt":200
			},
			{
				"id":"2",
				"title":"title 2",
				"content":"<p>text</p>",
				"author":"a@example.com",
				"authorId":"a",
				"status":"active",
				"fileUrl":"https://files/x.pdf",
				"fileName":"x.pdf",
				"isFileUploading":false,
				"averageRating":0,
				"totalRatings":0,
				"likesCount":0,
				"likedByViewer":false,
				"createdAt":100,
				"updatedAt":200
			}
		]
	}`, w.Body.String())
}

func Test_extractListParamsFromQuery(t *testing.T) {
	p, err := extractListParamsFromQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, &storage.ListPostsParams{
		SortBy:  storage.CreatedAtSortType,
		OrderBy: storage.DescendingOrder,
		Limit:   defaultLimit,
	}, p)

	p, err = extractListParamsFromQuery(url.Values{"sortBy": {"likes"}, "status": {"blocked"}})
	require.NoError(t, err)
	assert.Equal(t, storage.LikesSortType, p.SortBy)
	assert.Equal(t, entities.BlockedStatus, *p.Status)

	tt := []struct {
		query string
		err   string
	}{
		{query: "sortBy=pdv", err: "invalid request: invalid sortBy"},
		{query: "orderBy=up", err: "invalid request: invalid orderBy"},
		{query: "limit=abc", err: "invalid request: failed to parse limit"},
		{query: "limit=0", err: "invalid request: limit is out of range"},
		{query: "limit=101", err: "invalid request: limit is out of range"},
		{query: "status=deleted", err: "invalid request: invalid status"},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.query, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			require.NoError(t, err)

			_, err = extractListParamsFromQuery(q)
			require.ErrorIs(t, err, errInvalidRequest)
			assert.Equal(t, tc.err, err.Error())
		})
	}
}

func Test_listPosts_BadRequest(t *testing.T) {
	router, _ := newRouter(t)

	w := do(router, http.MethodGet, "/v1/posts?limit=1000", "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request: limit is out of range"}`, w.Body.String())
}

func Test_getPost(t *testing.T) {
	router, m := newRouter(t)

	m.s.EXPECT().GetPost(gomock.Any(), "", "1").Return(testPost("1"), nil)
	m.s.EXPECT().GetPost(gomock.Any(), "", "2").Return(nil, fmt.Errorf("post %w", service.ErrNotFound))

	w := do(router, http.MethodGet, "/v1/posts/1", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"1"`)

	w = do(router, http.MethodGet, "/v1/posts/2", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"post not found"}`, w.Body.String())
}

func Test_createPost(t *testing.T) {
	router, m := newRouter(t)

	signIn(m, "a", entities.UserRole)
	m.s.EXPECT().CreatePost(gomock.Any(), "a", service.PostParams{Title: "Squats", ContentHTML: "<p>deep</p>"}).
		Return(&testPost("1").Post, nil)

	w := do(router, http.MethodPost, "/v1/posts", `{"title":"Squats","content":"<p>deep</p>"}`, true)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"authorId":"a"`)
}

func Test_updatePost(t *testing.T) {
	router, m := newRouter(t)

	signIn(m, "u", entities.UserRole)
	m.s.EXPECT().UpdatePost(gomock.Any(), "u", "1", service.PostParams{Title: "t", ContentHTML: "c"}).Return(nil, service.ErrForbidden)

	w := do(router, http.MethodPut, "/v1/posts/1", `{"title":"t","content":"c"}`, true)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func Test_deletePost(t *testing.T) {
	router, m := newRouter(t)

	signIn(m, "a", entities.UserRole)
	m.s.EXPECT().DeletePost(gomock.Any(), "a", "1").Return(nil)

	w := do(router, http.MethodDelete, "/v1/posts/1", "", true)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func multipartRequest(t *testing.T, target, name string, content []byte) *http.Request {
	var b bytes.Buffer
	mw := multipart.NewWriter(&b)

	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, target, &b)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r.Header.Set("Authorization", "Bearer token")

	return r
}

func Test_importDOCX(t *testing.T) {
	router, m := newRouter(t)

	signIn(m, "a", entities.UserRole)
	m.s.EXPECT().ImportDOCX(gomock.Any(), gomock.Any(), int64(4)).Return("<p>doc</p>", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "/v1/posts/import", "plan.docx", []byte("docx")))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"content":"<p>doc</p>"}`, w.Body.String())
}

func Test_importDOCX_NoFile(t *testing.T) {
	router, m := newRouter(t)

	signIn(m, "a", entities.UserRole)

	r := httptest.NewRequest(http.MethodPost, "/v1/posts/import", strings.NewReader("{}"))
	r.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_attachFile(t *testing.T) {
	router, m := newRouter(t)

	signIn(m, "a", entities.UserRole)
	m.s.EXPECT().AttachFile(gomock.Any(), "a", "1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, f service.File) (*entities.Attachment, error) {
			assert.Equal(t, "plan.pdf", f.Name)
			assert.EqualValues(t, 3, f.Size)
			return &entities.Attachment{URL: "https://files/plan.pdf", Name: "plan.pdf"}, nil
		})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "/v1/posts/1/attachment", "plan.pdf", []byte("pdf")))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"fileUrl":"https://files/plan.pdf","fileName":"plan.pdf"}`, w.Body.String())
}

func Test_comments(t *testing.T) {
	router, m := newRouter(t)

	c := &entities.Comment{
		ID:         "c",
		PostID:     "1",
		Content:    "nice",
		Author:     "u@example.com",
		AuthorID:   "u",
		AuthorName: "u",
		CreatedAt:  time.Unix(100, 0),
	}

	signIn(m, "u", entities.UserRole)
	m.s.EXPECT().AddComment(gomock.Any(), "u", "1", "nice").Return(c, nil)
	m.s.EXPECT().ListComments(gomock.Any(), "", "1").Return([]*entities.Comment{c}, nil)

	w := do(router, http.MethodPost, "/v1/posts/1/comments", `{"content":"nice"}`, true)
	require.Equal(t, http.StatusCreated, w.Code)

	expected := `{"id":"c","postId":"1","content":"nice","author":"u@example.com","authorId":"u","authorName":"u","createdAt":100}`
	assert.JSONEq(t, expected, w.Body.String())

	w = do(router, http.MethodGet, "/v1/posts/1/comments", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"comments":[`+expected+`]}`, w.Body.String())
}

func Test_ratings(t *testing.T) {
	router, m := newRouter(t)

	signIn(m, "u", entities.UserRole)
	m.s.EXPECT().RatePost(gomock.Any(), "u", "1", 4).
		Return(rating.Summary{AverageRating: 4, TotalRatings: 1, ViewerRating: 4}, nil)

	w := do(router, http.MethodPut, "/v1/posts/1/ratings", `{"rating":4}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"averageRating":4,"totalRatings":1,"likesCount":0,"likedByViewer":false,"viewerRating":4}`, w.Body.String())

	signIn(m, "u", entities.UserRole)
	m.s.EXPECT().ToggleLike(gomock.Any(), "u", "1").Return(rating.Summary{LikesCount: 1, Liked: true}, nil)

	w = do(router, http.MethodPost, "/v1/posts/1/likes", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"averageRating":0,"totalRatings":0,"likesCount":1,"likedByViewer":true}`, w.Body.String())

	m.s.EXPECT().GetRatingSummary(gomock.Any(), "", "1").Return(rating.Summary{LikesCount: 1}, nil)

	w = do(router, http.MethodGet, "/v1/posts/1/ratings", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"averageRating":0,"totalRatings":0,"likesCount":1,"likedByViewer":false}`, w.Body.String())
}

func Test_ratePost_Invalid(t *testing.T) {
	router, m := newRouter(t)

	signIn(m, "u", entities.UserRole)
	m.s.EXPECT().RatePost(gomock.Any(), "u", "1", 6).Return(rating.Summary{}, fmt.Errorf("%w: rating should be in [1, 5]", service.ErrInvalidRequest))

	w := do(router, http.MethodPut, "/v1/posts/1/ratings", `{"rating":6}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_live(t *testing.T) {
	router, m := newRouter(t)

	m.s.EXPECT().GetPost(gomock.Any(), "", "1").Return(testPost("1"), nil)
	m.s.EXPECT().GetPost(gomock.Any(), "", "2").Return(nil, fmt.Errorf("post %w", service.ErrNotFound))

	ts := httptest.NewServer(router)
	defer ts.Close()

	w := do(router, http.MethodGet, "/v1/posts/2/live", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/v1/posts/1/live", nil)
	require.NoError(t, err)
	defer conn.Close() // nolint: errcheck

	topic := publisher.Topic("1")
	require.Eventually(t, func() bool {
		return m.hub.Subscribers(topic) == 1
	}, time.Second, 10*time.Millisecond)

	e, err := publisher.NewEvent(publisher.RatingUpdated, "1", publisher.Rating{LikesCount: 1})
	require.NoError(t, err)
	require.NoError(t, publisher.Deliver(m.hub, e))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"type":"rating.updated"`)
	assert.Contains(t, string(msg), `"postId":"1"`)
}
