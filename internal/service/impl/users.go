package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gymblog/gymblog/internal/auth"
	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/service"
	"github.com/gymblog/gymblog/internal/storage"
)

func (s *srv) Register(ctx context.Context, p service.RegisterParams) (*service.AuthResult, error) {
	email := normalizeEmail(p.Email)
	switch {
	case email == "" || p.Password == "":
		return nil, invalid("email and password are required")
	case !strings.Contains(email, "@"):
		return nil, invalid("email is invalid")
	case len(p.Password) < service.MinPasswordLength:
		return nil, invalid("password should be at least %d characters", service.MinPasswordLength)
	case p.Password != p.PasswordConfirm:
		return nil, invalid("passwords do not match")
	}

	if _, err := s.s.GetUserByEmail(ctx, email); err == nil {
		return nil, service.ErrEmailInUse
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := auth.HashPassword(p.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(p.DisplayName)
	if name == "" {
		name = defaultDisplayName(email)
	}

	u := &entities.User{
		UID:          uuid.New().String(),
		Email:        email,
		DisplayName:  name,
		PasswordHash: hash,
		Role:         entities.UserRole,
		Status:       entities.ActiveStatus,
		CreatedAt:    s.now(),
	}

	if err := s.s.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, service.ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authResult(u)
}

func (s *srv) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}

	u, err := s.s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, service.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if u.PasswordHash == "" || !auth.VerifyPassword(u.PasswordHash, password) {
		return nil, service.ErrInvalidCredentials
	}

	if u.Status == entities.BlockedStatus {
		return nil, service.ErrBlocked
	}

	return s.authResult(u)
}

func (s *srv) authResult(u *entities.User) (*service.AuthResult, error) {
	t, err := s.issuer.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &service.AuthResult{
		User:  u,
		Token: t,
	}, nil
}

func (s *srv) EnsureUser(ctx context.Context, sess *auth.Session) (*entities.User, error) {
	u, err := s.s.GetUser(ctx, sess.UserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u = &entities.User{
		UID:         sess.UserID,
		Email:       sess.Email,
		DisplayName: defaultDisplayName(sess.Email),
		Role:        entities.UserRole,
		Status:      entities.ActiveStatus,
		CreatedAt:   s.now(),
	}

	if err := s.s.CreateUser(ctx, u); err != nil {
		if !errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		// created by concurrent request
		if u, err = s.s.GetUser(ctx, sess.UserID); err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
	}

	log.WithField("uid", u.UID).Info("user profile created")

	return u, nil
}

func (s *srv) GetUser(ctx context.Context, uid string) (*entities.User, error) {
	u, err := s.s.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (s *srv) ListUsers(ctx context.Context, actor string, p *storage.ListUsersParams) ([]*entities.User, error) {
	if _, err := s.requireRole(ctx, actor, entities.AdminRole); err != nil {
		return nil, err
	}

	users, err := s.s.ListUsers(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (s *srv) SetUserRole(ctx context.Context, actor, uid string, role entities.Role) error {
	if !role.Valid() {
		return invalid("unknown role %q", role)
	}

	if _, err := s.requireRole(ctx, actor, entities.AdminRole); err != nil {
		return err
	}

	if actor == uid && role != entities.AdminRole {
		return fmt.Errorf("%w: admin can not demote themselves", service.ErrForbidden)
	}

	if err := s.s.SetUserRole(ctx, uid, role); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("user")
		}
		return fmt.Errorf("failed to set user role: %w", err)
	}

	log.WithField("uid", uid).WithField("role", role).WithField("by", actor).Info("user role changed")

	return nil
}

func (s *srv) SetUserStatus(ctx context.Context, actor, uid string, status entities.Status) error {
	if !status.Valid() {
		return invalid("unknown status %q", status)
	}

	if _, err := s.requireRole(ctx, actor, entities.AdminRole); err != nil {
		return err
	}

	if actor == uid && status == entities.BlockedStatus {
		return fmt.Errorf("%w: admin can not block themselves", service.ErrForbidden)
	}

	if err := s.s.SetUserStatus(ctx, uid, status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("user")
		}
		return fmt.Errorf("failed to set user status: %w", err)
	}

	log.WithField("uid", uid).WithField("status", status).WithField("by", actor).Info("user status changed")

	return nil
}

// defaultDisplayName is the local part of email.
func defaultDisplayName(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
