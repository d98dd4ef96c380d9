package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/domain"
)

// Policy decisions are pure functions so every protected operation answers
// ownership and role questions the same way. Handlers and services turn a
// deny into a 403; denials are ordinary outcomes, not errors.

// RequireRole allows only principals holding exactly the given role.
func RequireRole(p *domain.Principal, role domain.Role) bool {
	return p != nil && p.Role == role
}

// RequireSelfOrAdmin allows admins, or the user acting on their own record.
func RequireSelfOrAdmin(p *domain.Principal, targetUserID int64) bool {
	if p == nil {
		return false
	}
	return p.IsAdmin() || p.ID == targetUserID
}

// RequireOwnerOrAdmin allows admins, or the owner of the resource.
func RequireOwnerOrAdmin(p *domain.Principal, resourceOwnerID int64) bool {
	if p == nil {
		return false
	}
	return p.IsAdmin() || p.ID == resourceOwnerID
}

// ForbidSelfDeletion denies a principal deleting their own account through
// the admin-only delete path.
func ForbidSelfDeletion(p *domain.Principal, targetUserID int64) bool {
	return p != nil && p.ID != targetUserID
}

// RequireRoles is a route-level guard allowing any of the given roles.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"detail": "authentication required"})
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"detail": "insufficient role"})
		}
		return c.Next()
	}
}
