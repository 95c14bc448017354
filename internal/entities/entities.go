// Package entities contains main entities of service.
package entities

import (
	"strings"
	"time"
	"unicode"
)

// Role is a user's permission level.
type Role string

const (
	// UserRole ...
	UserRole Role = "user"
	// ModeratorRole ...
	ModeratorRole Role = "moderator"
	// AdminRole ...
	AdminRole Role = "admin"
)

// Valid returns true if r is a known role.
func (r Role) Valid() bool {
	switch r {
	case UserRole, ModeratorRole, AdminRole:
		return true
	}
	return false
}

// CanModerate returns true for roles which are allowed to block and delete someone else's posts.
func (r Role) CanModerate() bool {
	return r == ModeratorRole || r == AdminRole
}

// Status is a moderation status of users and posts.
type Status string

const (
	// ActiveStatus ...
	ActiveStatus Status = "active"
	// BlockedStatus ...
	BlockedStatus Status = "blocked"
)

// Valid returns true if s is a known status.
func (s Status) Valid() bool {
	return s == ActiveStatus || s == BlockedStatus
}

// User ...
type User struct {
	UID          string
	Email        string
	DisplayName  string
	PhotoURL     string
	PasswordHash string
	Role         Role
	Status       Status
	CreatedAt    time.Time
}

// Post ...
type Post struct {
	ID          string
	Title       string
	ContentHTML string
	Author      string // author's email
	AuthorID    string
	Status      Status
	Attachment  *Attachment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Attachment describes a file attached to a post.
// Uploading is true between the start of an upload and its completion or failure.
type Attachment struct {
	URL       string
	Name      string
	Ref       string
	Uploading bool
	Error     string
}

// Comment ...
type Comment struct {
	ID         string
	PostID     string
	Content    string
	Author     string
	AuthorID   string
	AuthorName string
	CreatedAt  time.Time
}

// Location is a geographic coordinate in degrees.
type Location struct {
	Lat float64
	Lng float64
}

// Gym ...
type Gym struct {
	ID           string
	Name         string
	City         string
	Type         string
	Description  string
	Address      string
	Location     *Location
	Phone        string
	Website      string
	Hours        string
	ImageURL     string
	Rating       float64
	ReviewsCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeAddress lower-cases s, drops punctuation and collapses whitespace,
// so "Shevchenka St., 12" and "shevchenka st 12" compare equal.
func NormalizeAddress(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}

	return b.String()
}
