package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/repository"
)

const principalKey = "auth_principal"

const bearerPrefix = "Bearer "

// Middleware verifies bearer tokens and resolves principals. It is the
// single boundary translating token and store failures into 401 responses;
// internal error detail never reaches the client.
type Middleware struct {
	tokens        *TokenService
	users         repository.UserRepository
	public        map[string]struct{}
	lookupTimeout time.Duration
	logger        *zap.Logger
}

// NewMiddleware constructs the interceptor. publicRoutes are exact paths
// that bypass authentication entirely.
func NewMiddleware(tokens *TokenService, users repository.UserRepository, publicRoutes []string, lookupTimeout time.Duration, logger *zap.Logger) *Middleware {
	public := make(map[string]struct{}, len(publicRoutes))
	for _, route := range publicRoutes {
		public[route] = struct{}{}
	}
	if lookupTimeout <= 0 {
		lookupTimeout = 5 * time.Second
	}
	return &Middleware{
		tokens:        tokens,
		users:         users,
		public:        public,
		lookupTimeout: lookupTimeout,
		logger:        logger,
	}
}

// Handle authenticates the request or short-circuits with a 401. Public
// routes pass through without touching the token service or the store.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if _, ok := m.public[c.Path()]; ok {
		return c.Next()
	}

	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return reject(c, "missing or invalid token")
	}

	claims, err := m.tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		switch {
		case errors.Is(err, ErrExpiredToken):
			return reject(c, "token has expired")
		case errors.Is(err, ErrInvalidToken):
			return reject(c, "invalid token")
		default:
			return reject(c, "token verification failed")
		}
	}

	if _, ok := claims.MapClaims["sub"]; !ok {
		return reject(c, "invalid token payload")
	}
	userID, ok := claims.SubjectID()
	if !ok {
		return reject(c, "invalid user id in token")
	}

	user, err := m.lookupPrincipal(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return reject(c, "user not found")
		}
		m.logger.Warn("principal lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return reject(c, "token verification failed")
	}

	c.Locals(principalKey, &domain.Principal{ID: user.ID, Role: user.Role})
	return c.Next()
}

// lookupPrincipal is the only blocking call on the authentication path; it is
// bounded so a slow store cannot hold the request, and any failure other than
// a definitive miss is treated as the store being unavailable (fail closed).
func (m *Middleware) lookupPrincipal(ctx context.Context, userID int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, m.lookupTimeout)
	defer cancel()

	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return user, nil
}

// PrincipalFromContext retrieves the authenticated principal attached by
// Handle. The second return is false on public routes.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	principal, ok := c.Locals(principalKey).(*domain.Principal)
	return principal, ok
}

func reject(c *fiber.Ctx, detail string) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"detail": detail})
}
