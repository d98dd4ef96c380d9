package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// UserService exposes account operations gated by the authorization policy.
// Every operation receives the request's principal and consults the policy
// functions before touching the store.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// Profile returns the caller's own record.
func (s *UserService) Profile(ctx context.Context, principal *domain.Principal) (*domain.User, error) {
	return s.get(ctx, principal.ID)
}

// Get returns a user record; callers may read themselves, admins anyone.
func (s *UserService) Get(ctx context.Context, principal *domain.Principal, userID int64) (*domain.User, error) {
	if !auth.RequireSelfOrAdmin(principal, userID) {
		return nil, apperrors.NewForbidden("cannot access another user's account")
	}
	return s.get(ctx, userID)
}

// Update changes username and email; callers may update themselves, admins anyone.
func (s *UserService) Update(ctx context.Context, principal *domain.Principal, userID int64, username, email string) (*domain.User, error) {
	if !auth.RequireSelfOrAdmin(principal, userID) {
		return nil, apperrors.NewForbidden("cannot modify another user's account")
	}

	user, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Username = username
	user.Email = email
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user. Admin only, and an admin can never delete their own
// account through this path.
func (s *UserService) Delete(ctx context.Context, principal *domain.Principal, userID int64) error {
	if !auth.RequireRole(principal, domain.RoleAdmin) {
		return apperrors.NewForbidden("admin role required")
	}
	if !auth.ForbidSelfDeletion(principal, userID) {
		return apperrors.NewForbidden("cannot delete your own account")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserDeleted,
			UserID:    userID,
			Timestamp: time.Now(),
			Payload:   events.UserDeletedPayload{DeletedBy: principal.ID},
		})
	}
	return nil
}

// List returns all users. Admin only.
func (s *UserService) List(ctx context.Context, principal *domain.Principal, limit, offset int) ([]*domain.User, error) {
	if !auth.RequireRole(principal, domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, limit, offset)
}

// ChangeRole assigns a new role to a user. Admin only.
func (s *UserService) ChangeRole(ctx context.Context, principal *domain.Principal, userID int64, role domain.Role) (*domain.User, error) {
	if !auth.RequireRole(principal, domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}

	user, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) get(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}
