// Package impl is implementation of service interface.
package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/gymblog/gymblog/internal/auth"
	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/filestore"
	"github.com/gymblog/gymblog/internal/inference"
	"github.com/gymblog/gymblog/internal/overpass"
	"github.com/gymblog/gymblog/internal/publisher"
	"github.com/gymblog/gymblog/internal/service"
	"github.com/gymblog/gymblog/internal/storage"
)

var log = logrus.WithField("layer", "service").WithField("package", "impl")

// Config ...
type Config struct {
	BcryptCost    int
	MaxUploadSize int64
}

// Dependencies are collaborators of service. Files, Publisher, Overpass and Inference are optional.
type Dependencies struct {
	Storage   storage.Storage
	Issuer    *auth.Issuer
	Files     filestore.Store
	Publisher publisher.Publisher
	Overpass  overpass.Fetcher
	Inference inference.Generator
}

type srv struct {
	s      storage.Storage
	issuer *auth.Issuer
	files  filestore.Store
	pub    publisher.Publisher
	gyms   overpass.Fetcher
	gen    inference.Generator
	cfg    Config
	now    func() time.Time
}

// New creates new instance of service.
func New(d Dependencies, cfg Config) service.Service {
	return &srv{
		s:      d.Storage,
		issuer: d.Issuer,
		files:  d.Files,
		pub:    d.Publisher,
		gyms:   d.Overpass,
		gen:    d.Inference,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", service.ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, service.ErrNotFound)
}

func tooLong(s string, n int) bool {
	return utf8.RuneCountInString(s) > n
}

// actor returns user acting in the request.
func (s *srv) actor(ctx context.Context, uid string) (*entities.User, error) {
	if uid == "" {
		return nil, service.ErrForbidden
	}

	u, err := s.s.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, service.ErrForbidden
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// activeActor is actor who is allowed to write.
func (s *srv) activeActor(ctx context.Context, uid string) (*entities.User, error) {
	u, err := s.actor(ctx, uid)
	if err != nil {
		return nil, err
	}

	if u.Status == entities.BlockedStatus {
		return nil, service.ErrBlocked
	}

	return u, nil
}

func (s *srv) requireRole(ctx context.Context, uid string, roles ...entities.Role) (*entities.User, error) {
	u, err := s.activeActor(ctx, uid)
	if err != nil {
		return nil, err
	}

	for _, r := range roles {
		if u.Role == r {
			return u, nil
		}
	}

	return nil, service.ErrForbidden
}

// publish sends event after the change has been committed. Failures are only logged.
func (s *srv) publish(ctx context.Context, typ publisher.EventType, postID string, payload interface{}) {
	if s.pub == nil {
		return
	}

	e, err := publisher.NewEvent(typ, postID, payload)
	if err != nil {
		log.WithError(err).WithField("type", typ).Error("failed to create event")
		return
	}

	if err := s.pub.Publish(ctx, e); err != nil {
		log.WithError(err).WithField("type", typ).WithField("post", postID).Error("failed to publish event")
	}
}

func normalizeEmail(s string) string {
	return strings.TrimSpace(s)
}
