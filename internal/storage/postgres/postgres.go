// Package postgres is implementation of storage interface.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/rating"
	"github.com/gymblog/gymblog/internal/storage"
)

var log = logrus.WithField("layer", "storage").WithField("package", "postgres")

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

type pg struct {
	ext sqlx.ExtContext
}

type userDTO struct {
	UID          string    `db:"uid"`
	Email        string    `db:"email"`
	DisplayName  string    `db:"display_name"`
	PhotoURL     string    `db:"photo_url"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

type postDTO struct {
	ID            string    `db:"id"`
	Title         string    `db:"title"`
	ContentHTML   string    `db:"content_html"`
	Author        string    `db:"author"`
	AuthorID      string    `db:"author_id"`
	Status        string    `db:"status"`
	FileURL       string    `db:"file_url"`
	FileName      string    `db:"file_name"`
	FileRef       string    `db:"file_ref"`
	FileUploading bool      `db:"file_uploading"`
	FileError     string    `db:"file_error"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type postStatsDTO struct {
	postDTO
	AverageRating float64 `db:"average_rating"`
	TotalRatings  int     `db:"total_ratings"`
	LikesCount    int     `db:"likes_count"`
}

type commentDTO struct {
	ID         string    `db:"id"`
	PostID     string    `db:"post_id"`
	Content    string    `db:"content"`
	Author     string    `db:"author"`
	AuthorID   string    `db:"author_id"`
	AuthorName string    `db:"author_name"`
	CreatedAt  time.Time `db:"created_at"`
}

type ratingDTO struct {
	AverageRating float64 `db:"average_rating"`
	TotalRatings  int     `db:"total_ratings"`
}

type voteDTO struct {
	UserID  string    `db:"user_id"`
	Rating  int       `db:"rating"`
	RatedAt time.Time `db:"rated_at"`
}

type gymDTO struct {
	ID                string          `db:"id"`
	Name              string          `db:"name"`
	City              string          `db:"city"`
	Type              string          `db:"type"`
	Description       string          `db:"description"`
	Address           string          `db:"address"`
	NormalizedAddress string          `db:"normalized_address"`
	Lat               sql.NullFloat64 `db:"lat"`
	Lng               sql.NullFloat64 `db:"lng"`
	Phone             string          `db:"phone"`
	Website           string          `db:"website"`
	Hours             string          `db:"hours"`
	ImageURL          string          `db:"image_url"`
	Rating            float64         `db:"rating"`
	ReviewsCount      int             `db:"reviews_count"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// New creates new instance of pg.
func New(db *sql.DB) storage.Storage {
	return pg{
		ext: sqlx.NewDb(db, "postgres"),
	}
}

func (s pg) InTx(ctx context.Context, f func(s storage.Storage) error) error {
	db, ok := s.ext.(*sqlx.DB)
	if !ok {
		return f(s)
	}

	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to create tx: %w", err)
	}

	if err := f(pg{ext: tx}); err != nil {
		if err := tx.Rollback(); err != nil {
			log.WithError(err).Error("failed to rollback tx")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}

	return nil
}

func (s pg) Ping(ctx context.Context) error {
	if db, ok := s.ext.(*sqlx.DB); ok {
		return db.PingContext(ctx)
	}

	if _, err := s.ext.ExecContext(ctx, `SELECT 1`); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) CreateUser(ctx context.Context, u *entities.User) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO "user"(uid, email, display_name, photo_url, password_hash, role, status, created_at)
			VALUES(:uid, :email, :display_name, :photo_url, :password_hash, :role, :status, :created_at)
		`, toUserDTO(u),
	); err != nil {
		if isViolation(err, uniqueViolation) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) GetUser(ctx context.Context, uid string) (*entities.User, error) {
	return s.getUser(ctx, `WHERE uid = $1`, uid)
}

func (s pg) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return s.getUser(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (s pg) getUser(ctx context.Context, where string, arg interface{}) (*entities.User, error) {
	var u userDTO

	if err := sqlx.GetContext(ctx, s.ext, &u, `
			SELECT uid, email, display_name, photo_url, password_hash, role, status, created_at
			FROM "user" `+where,
		arg,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return u.toEntity(), nil
}

func (s pg) ListUsers(ctx context.Context, p *storage.ListUsersParams) ([]*entities.User, error) {
	var q queryBuilder

	if p.Role != nil {
		q.where("role = " + q.arg(string(*p.Role)))
	}
	if p.Status != nil {
		q.where("status = " + q.arg(string(*p.Status)))
	}

	query := `
			SELECT uid, email, display_name, photo_url, password_hash, role, status, created_at
			FROM "user"` + q.whereClause() + `
			ORDER BY created_at DESC, uid`
	if p.Limit > 0 {
		query += " LIMIT " + q.arg(p.Limit)
	}
	if p.Offset > 0 {
		query += " OFFSET " + q.arg(p.Offset)
	}

	var users []*userDTO
	if err := sqlx.SelectContext(ctx, s.ext, &users, query, q.args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.User, len(users))
	for i, v := range users {
		out[i] = v.toEntity()
	}

	return out, nil
}

func (s pg) SetUserRole(ctx context.Context, uid string, role entities.Role) error {
	return s.execOne(ctx, `UPDATE "user" SET role=$2 WHERE uid=$1`, uid, string(role))
}

func (s pg) SetUserStatus(ctx context.Context, uid string, status entities.Status) error {
	return s.execOne(ctx, `UPDATE "user" SET status=$2 WHERE uid=$1`, uid, string(status))
}

func (s pg) CreatePost(ctx context.Context, p *entities.Post) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO post(id, title, content_html, author, author_id, status,
				file_url, file_name, file_ref, file_uploading, file_error, created_at, updated_at)
			VALUES(:id, :title, :content_html, :author, :author_id, :status,
				:file_url, :file_name, :file_ref, :file_uploading, :file_error, :created_at, :updated_at)
		`, toPostDTO(p),
	); err != nil {
		switch {
		case isViolation(err, foreignKeyViolation):
			return storage.ErrNotFound
		case isViolation(err, uniqueViolation):
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) GetPost(ctx context.Context, id string) (*entities.Post, error) {
	var p postDTO

	if err := sqlx.GetContext(ctx, s.ext, &p, `
			SELECT id, title, content_html, author, author_id, status,
				file_url, file_name, file_ref, file_uploading, file_error, created_at, updated_at
			FROM post
			WHERE id = $1
		`,
		id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return p.toEntity(), nil
}

func (s pg) UpdatePost(ctx context.Context, p *entities.Post) error {
	return s.execOne(ctx,
		`UPDATE post SET title=$2, content_html=$3, updated_at=$4 WHERE id=$1`,
		p.ID, p.Title, p.ContentHTML, p.UpdatedAt.UTC(),
	)
}

func (s pg) DeletePost(ctx context.Context, id string) error {
	return s.execOne(ctx, `DELETE FROM post WHERE id=$1`, id)
}

func (s pg) SetPostStatus(ctx context.Context, id string, status entities.Status) error {
	return s.execOne(ctx, `UPDATE post SET status=$2 WHERE id=$1`, id, string(status))
}

func (s pg) SetAttachment(ctx context.Context, id string, a *entities.Attachment) error {
	if a == nil {
		a = &entities.Attachment{}
	}

	return s.execOne(ctx,
		`UPDATE post SET file_url=$2, file_name=$3, file_ref=$4, file_uploading=$5, file_error=$6 WHERE id=$1`,
		id, a.URL, a.Name, a.Ref, a.Uploading, a.Error,
	)
}

// nolint:gocyclo
func (s pg) ListPosts(ctx context.Context, p *storage.ListPostsParams) ([]*storage.Post, error) {
	var q queryBuilder

	if p.AuthorID != nil {
		q.where("post.author_id = " + q.arg(*p.AuthorID))
	}
	if p.Status != nil {
		q.where("post.status = " + q.arg(string(*p.Status)))
	}
	if p.Search != "" {
		q.where("post.title ILIKE '%' || " + q.arg(escapeLike(p.Search)) + " || '%'")
	}

	column, err := sortColumn(p.SortBy)
	if err != nil {
		return nil, err
	}

	order, cmp := "DESC", "<"
	if p.OrderBy == storage.AscendingOrder {
		order, cmp = "ASC", ">"
	}

	query := `
			WITH ranked AS (
				SELECT post.id, post.title, post.content_html, post.author, post.author_id, post.status,
					post.file_url, post.file_name, post.file_ref, post.file_uploading, post.file_error,
					post.created_at, post.updated_at,
					COALESCE(r.average_rating, 0) AS average_rating,
					COALESCE(r.total_ratings, 0) AS total_ratings,
					(SELECT COUNT(*) FROM post_like l WHERE l.post_id = post.id) AS likes_count
				FROM post
				LEFT JOIN post_rating r ON r.post_id = post.id` + q.whereClause() + `
			)
			SELECT * FROM ranked`

	if p.After != nil {
		query += fmt.Sprintf(` WHERE (%[1]s, id) %[2]s (SELECT %[1]s, id FROM ranked WHERE id = %[3]s)`,
			column, cmp, q.arg(*p.After))
	}

	query += fmt.Sprintf(` ORDER BY %[1]s %[2]s, id %[2]s`, column, order)

	if p.Limit > 0 {
		query += " LIMIT " + q.arg(p.Limit)
	}

	var posts []*postStatsDTO
	if err := sqlx.SelectContext(ctx, s.ext, &posts, query, q.args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*storage.Post, len(posts))
	for i, v := range posts {
		out[i] = &storage.Post{
			Post: *v.toEntity(),
			Stats: storage.Stats{
				AverageRating: v.AverageRating,
				TotalRatings:  v.TotalRatings,
				LikesCount:    v.LikesCount,
			},
		}
	}

	return out, nil
}

func (s pg) CreateComment(ctx context.Context, c *entities.Comment) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO comment(id, post_id, content, author, author_id, author_name, created_at)
			VALUES(:id, :post_id, :content, :author, :author_id, :author_name, :created_at)
		`, commentDTO{
			ID:         c.ID,
			PostID:     c.PostID,
			Content:    c.Content,
			Author:     c.Author,
			AuthorID:   c.AuthorID,
			AuthorName: c.AuthorName,
			CreatedAt:  c.CreatedAt.UTC(),
		},
	); err != nil {
		if isViolation(err, foreignKeyViolation) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) ListComments(ctx context.Context, postID string) ([]*entities.Comment, error) {
	var comments []*commentDTO

	if err := sqlx.SelectContext(ctx, s.ext, &comments, `
			SELECT id, post_id, content, author, author_id, author_name, created_at
			FROM comment
			WHERE post_id = $1
			ORDER BY created_at, id
		`, postID,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.Comment, len(comments))
	for i, v := range comments {
		out[i] = &entities.Comment{
			ID:         v.ID,
			PostID:     v.PostID,
			Content:    v.Content,
			Author:     v.Author,
			AuthorID:   v.AuthorID,
			AuthorName: v.AuthorName,
			CreatedAt:  v.CreatedAt,
		}
	}

	return out, nil
}

func (s pg) LockRatings(ctx context.Context, postID string) (*rating.Aggregate, error) {
	if _, err := s.ext.ExecContext(ctx,
		`INSERT INTO post_rating(post_id) VALUES($1) ON CONFLICT DO NOTHING`, postID,
	); err != nil {
		if isViolation(err, foreignKeyViolation) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to exec: %w", err)
	}

	return s.getRatings(ctx, postID, true)
}

// GetRatings returns empty aggregate for post without votes and likes.
func (s pg) GetRatings(ctx context.Context, postID string) (*rating.Aggregate, error) {
	return s.getRatings(ctx, postID, false)
}

func (s pg) getRatings(ctx context.Context, postID string, lock bool) (*rating.Aggregate, error) {
	query := `SELECT average_rating, total_ratings FROM post_rating WHERE post_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var r ratingDTO
	if err := sqlx.GetContext(ctx, s.ext, &r, query, postID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query rating: %w", err)
	}

	var votes []*voteDTO
	if err := sqlx.SelectContext(ctx, s.ext, &votes,
		`SELECT user_id, rating, rated_at FROM post_rating_vote WHERE post_id = $1 ORDER BY seq`, postID,
	); err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}

	var likes []string
	if err := sqlx.SelectContext(ctx, s.ext, &likes,
		`SELECT user_id FROM post_like WHERE post_id = $1`, postID,
	); err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}

	a := rating.New()
	a.AverageRating = r.AverageRating
	a.TotalRatings = r.TotalRatings
	for _, v := range votes {
		a.Votes = append(a.Votes, rating.Vote{UserID: v.UserID, Rating: v.Rating, Timestamp: v.RatedAt})
	}
	for _, v := range likes {
		a.Likes[v] = struct{}{}
	}

	return a, nil
}

func (s pg) SaveRatings(ctx context.Context, postID string, a *rating.Aggregate) error {
	if _, err := s.ext.ExecContext(ctx, `
			INSERT INTO post_rating(post_id, average_rating, total_ratings) VALUES($1, $2, $3)
			ON CONFLICT(post_id) DO UPDATE SET
				average_rating=excluded.average_rating, total_ratings=excluded.total_ratings`,
		postID, a.AverageRating, a.TotalRatings,
	); err != nil {
		if isViolation(err, foreignKeyViolation) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to save rating: %w", err)
	}

	for i, v := range a.Votes {
		if _, err := s.ext.ExecContext(ctx, `
				INSERT INTO post_rating_vote(post_id, user_id, rating, seq, rated_at) VALUES($1, $2, $3, $4, $5)
				ON CONFLICT(post_id, user_id) DO UPDATE SET
					rating=excluded.rating, seq=excluded.seq, rated_at=excluded.rated_at`,
			postID, v.UserID, v.Rating, i, v.Timestamp.UTC(),
		); err != nil {
			return fmt.Errorf("failed to save vote: %w", err)
		}
	}

	likes := make([]string, 0, len(a.Likes))
	for k := range a.Likes {
		likes = append(likes, k)
	}
	sort.Strings(likes)

	if _, err := s.ext.ExecContext(ctx,
		`DELETE FROM post_like WHERE post_id = $1 AND NOT (user_id = ANY($2))`, postID, pq.Array(likes),
	); err != nil {
		return fmt.Errorf("failed to delete likes: %w", err)
	}

	if _, err := s.ext.ExecContext(ctx, `
			INSERT INTO post_like(post_id, user_id) SELECT $1, unnest($2::text[])
			ON CONFLICT DO NOTHING`, postID, pq.Array(likes),
	); err != nil {
		return fmt.Errorf("failed to save likes: %w", err)
	}

	return nil
}

func (s pg) GetLikes(ctx context.Context, likedBy string, id ...string) (map[string]bool, error) {
	out := make(map[string]bool, len(id))
	if len(id) == 0 {
		return out, nil
	}

	var liked []string
	if err := sqlx.SelectContext(ctx, s.ext, &liked,
		`SELECT post_id FROM post_like WHERE user_id = $1 AND post_id = ANY($2)`, likedBy, pq.Array(id),
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	for _, v := range liked {
		out[v] = true
	}

	return out, nil
}

func (s pg) CreateGyms(ctx context.Context, gyms []*entities.Gym) (int, error) {
	var inserted int

	for _, g := range gyms {
		res, err := sqlx.NamedExecContext(ctx, s.ext,
			`
				INSERT INTO gym(id, name, city, type, description, address, normalized_address, lat, lng,
					phone, website, hours, image_url, rating, reviews_count, created_at, updated_at)
				VALUES(:id, :name, :city, :type, :description, :address, :normalized_address, :lat, :lng,
					:phone, :website, :hours, :image_url, :rating, :reviews_count, :created_at, :updated_at)
				ON CONFLICT DO NOTHING
			`, toGymDTO(g),
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to exec: %w", err)
		}

		if c, _ := res.RowsAffected(); c > 0 {
			inserted += int(c)
		}
	}

	return inserted, nil
}

func (s pg) GetGym(ctx context.Context, id string) (*entities.Gym, error) {
	var g gymDTO

	if err := sqlx.GetContext(ctx, s.ext, &g, `
			SELECT id, name, city, type, description, address, normalized_address, lat, lng,
				phone, website, hours, image_url, rating, reviews_count, created_at, updated_at
			FROM gym
			WHERE id = $1
		`, id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return g.toEntity(), nil
}

func (s pg) ListGyms(ctx context.Context, p *storage.ListGymsParams) ([]*entities.Gym, error) {
	var q queryBuilder

	if p.City != "" {
		q.where("lower(city) = lower(" + q.arg(p.City) + ")")
	}
	if p.Type != "" {
		q.where("type = " + q.arg(p.Type))
	}

	var gyms []*gymDTO
	if err := sqlx.SelectContext(ctx, s.ext, &gyms, `
			SELECT id, name, city, type, description, address, normalized_address, lat, lng,
				phone, website, hours, image_url, rating, reviews_count, created_at, updated_at
			FROM gym`+q.whereClause()+`
			ORDER BY name, id`, q.args...,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.Gym, len(gyms))
	for i, v := range gyms {
		out[i] = v.toEntity()
	}

	return out, nil
}

func (s pg) GymAddresses(ctx context.Context) (map[string]struct{}, error) {
	var addresses []string

	if err := sqlx.SelectContext(ctx, s.ext, &addresses,
		`SELECT normalized_address FROM gym WHERE normalized_address <> ''`,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make(map[string]struct{}, len(addresses))
	for _, v := range addresses {
		out[v] = struct{}{}
	}

	return out, nil
}

func (s pg) execOne(ctx context.Context, query string, args ...interface{}) error {
	res, err := s.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	if c, _ := res.RowsAffected(); c == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func isViolation(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

func sortColumn(t storage.SortType) (string, error) {
	switch t {
	case storage.CreatedAtSortType, "":
		return "created_at", nil
	case storage.RatingSortType:
		return "average_rating", nil
	case storage.LikesSortType:
		return "likes_count", nil
	default:
		return "", fmt.Errorf("unknown sort type %s", t)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type queryBuilder struct {
	conditions []string
	args       []interface{}
}

func (q *queryBuilder) arg(v interface{}) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *queryBuilder) where(cond string) {
	q.conditions = append(q.conditions, cond)
}

func (q *queryBuilder) whereClause() string {
	if len(q.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conditions, " AND ")
}

func toUserDTO(u *entities.User) userDTO {
	return userDTO{
		UID:          u.UID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PhotoURL:     u.PhotoURL,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func (u userDTO) toEntity() *entities.User {
	return &entities.User{
		UID:          u.UID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PhotoURL:     u.PhotoURL,
		PasswordHash: u.PasswordHash,
		Role:         entities.Role(u.Role),
		Status:       entities.Status(u.Status),
		CreatedAt:    u.CreatedAt,
	}
}

func toPostDTO(p *entities.Post) postDTO {
	out := postDTO{
		ID:          p.ID,
		Title:       p.Title,
		ContentHTML: p.ContentHTML,
		Author:      p.Author,
		AuthorID:    p.AuthorID,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}

	if a := p.Attachment; a != nil {
		out.FileURL = a.URL
		out.FileName = a.Name
		out.FileRef = a.Ref
		out.FileUploading = a.Uploading
		out.FileError = a.Error
	}

	return out
}

func (p postDTO) toEntity() *entities.Post {
	out := &entities.Post{
		ID:          p.ID,
		Title:       p.Title,
		ContentHTML: p.ContentHTML,
		Author:      p.Author,
		AuthorID:    p.AuthorID,
		Status:      entities.Status(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if p.FileURL != "" || p.FileName != "" || p.FileUploading || p.FileError != "" {
		out.Attachment = &entities.Attachment{
			URL:       p.FileURL,
			Name:      p.FileName,
			Ref:       p.FileRef,
			Uploading: p.FileUploading,
			Error:     p.FileError,
		}
	}

	return out
}

func toGymDTO(g *entities.Gym) gymDTO {
	out := gymDTO{
		ID:                g.ID,
		Name:              g.Name,
		City:              g.City,
		Type:              g.Type,
		Description:       g.Description,
		Address:           g.Address,
		NormalizedAddress: entities.NormalizeAddress(g.Address),
		Phone:             g.Phone,
		Website:           g.Website,
		Hours:             g.Hours,
		ImageURL:          g.ImageURL,
		Rating:            g.Rating,
		ReviewsCount:      g.ReviewsCount,
		CreatedAt:         g.CreatedAt.UTC(),
		UpdatedAt:         g.UpdatedAt.UTC(),
	}

	if g.Location != nil {
		out.Lat = sql.NullFloat64{Float64: g.Location.Lat, Valid: true}
		out.Lng = sql.NullFloat64{Float64: g.Location.Lng, Valid: true}
	}

	return out
}

func (g gymDTO) toEntity() *entities.Gym {
	out := &entities.Gym{
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
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}

	if g.Lat.Valid && g.Lng.Valid {
		out.Location = &entities.Location{Lat: g.Lat.Float64, Lng: g.Lng.Float64}
	}

	return out
}
