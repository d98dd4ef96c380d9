package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/persistence"
	"github.com/spec-kit/order-service/internal/repository"
	"github.com/spec-kit/order-service/internal/worker"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users         repository.UserRepository
	tokens        *auth.TokenService
	hashes        *worker.HashPool
	redis         *persistence.Redis
	dispatcher    events.Dispatcher
	bcryptCost    int
	attemptLimit  int
	attemptWindow time.Duration
}

// AuthDependencies bundles collaborators for the auth service. HashPool and
// Redis are optional; hashing falls back inline and the login counter is
// skipped when they are absent.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenService
	HashPool   *worker.HashPool
	Redis      *persistence.Redis
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:         deps.UserRepo,
		tokens:        deps.Tokens,
		hashes:        deps.HashPool,
		redis:         deps.Redis,
		dispatcher:    deps.Dispatcher,
		bcryptCost:    cfg.BcryptCost,
		attemptLimit:  cfg.LoginAttemptLimit,
		attemptWindow: cfg.LoginAttemptWindow(),
	}
}

// Register creates a new customer account and issues its first token.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := s.hashPassword(ctx, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.issueToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	return user, token, expiresAt, nil
}

// Login authenticates by email and password and issues a token. Failures are
// indistinguishable to the caller whether the account exists or not.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if err := s.checkLoginAttempts(ctx, email); err != nil {
		return nil, "", time.Time{}, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.recordLoginFailure(ctx, email)
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !ok {
		s.recordLoginFailure(ctx, email)
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	s.clearLoginFailures(ctx, email)

	token, expiresAt, err := s.issueToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, nil)
	return user, token, expiresAt, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, time.Time, error) {
	extra := map[string]any{"role": string(user.Role)}
	return s.tokens.Issue(user.ID, extra, s.tokens.DefaultTTL())
}

func (s *AuthService) hashPassword(ctx context.Context, password string) (string, error) {
	if s.hashes != nil {
		return s.hashes.Hash(ctx, password)
	}
	return auth.HashPassword(password, s.bcryptCost)
}

// The login counter is best effort: a redis outage must never lock everyone
// out, and must never let a request bypass password verification either.
func (s *AuthService) checkLoginAttempts(ctx context.Context, email string) error {
	if s.redis == nil || s.redis.Client == nil || s.attemptLimit <= 0 {
		return nil
	}
	count, err := s.redis.Client.Get(ctx, loginAttemptKey(email)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil
	}
	if count >= s.attemptLimit {
		return apperrors.NewTooManyRequests("too many login attempts")
	}
	return nil
}

func (s *AuthService) recordLoginFailure(ctx context.Context, email string) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	key := loginAttemptKey(email)
	if count, err := s.redis.Client.Incr(ctx, key).Result(); err == nil && count == 1 {
		s.redis.Client.Expire(ctx, key, s.attemptWindow)
	}
}

func (s *AuthService) clearLoginFailures(ctx context.Context, email string) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	s.redis.Client.Del(ctx, loginAttemptKey(email))
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID int64, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func loginAttemptKey(email string) string {
	return fmt.Sprintf("login:attempts:%s", email)
}
