package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/resolvenow/complaint-service/internal/auth"
	"github.com/resolvenow/complaint-service/internal/domain"
	apperrors "github.com/resolvenow/complaint-service/pkg/util/errorutil"
	"github.com/resolvenow/complaint-service/pkg/validator"
)

// bindBody decodes the JSON body into req and runs its validate tags.
func bindBody(c *fiber.Ctx, v validator.Validator, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if fieldErrs := v.ValidateStruct(req); fieldErrs != nil {
		details := make(map[string]any, len(fieldErrs))
		for field, msg := range fieldErrs {
			details[field] = msg
		}
		return apperrors.NewValidationError("validation failed", details)
	}
	return nil
}

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	return principal.User, nil
}
