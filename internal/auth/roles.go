package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/resolvenow/complaint-service/internal/domain"
	apperrors "github.com/resolvenow/complaint-service/pkg/util/errorutil"
)

// HasRole reports whether the user holds one of the allowed roles.
// An empty allow list admits any authenticated user.
func HasRole(user *domain.User, allowed ...domain.Role) bool {
	if user == nil {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, role := range allowed {
		if user.Role == role {
			return true
		}
	}
	return false
}

// RequireRole rejects callers whose role is not in the allowed set.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if !HasRole(principal.User, allowed...) {
			return apperrors.NewUnauthorized(apperrors.ReasonRoleRequired, "insufficient role")
		}
		return c.Next()
	}
}
