package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolvenow/complaint-service/internal/domain"
)

func TestUnauthorizedCarriesReasonAndSentinel(t *testing.T) {
	err := NewUnauthorized(ReasonNotPending, "complaint already assigned")

	require.ErrorIs(t, err, domain.ErrUnauthorized)
	de := ToDomainError(err)
	assert.Equal(t, "UNAUTHORIZED", de.Code)
	assert.Equal(t, ReasonNotPending, de.Reason)
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
}

func TestToDomainErrorMapsSentinels(t *testing.T) {
	de := ToDomainError(fmt.Errorf("lookup: %w", domain.ErrNotFound))
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	de = ToDomainError(domain.ErrExpiredToken)
	assert.Equal(t, "EXPIRED_TOKEN", de.Code)

	de = ToDomainError(domain.ErrInvalidToken)
	assert.Equal(t, "INVALID_TOKEN", de.Code)

	de = ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
}

func TestToDomainErrorMapsFiberErrors(t *testing.T) {
	de := ToDomainError(fiber.NewError(http.StatusNotFound, "Cannot GET /nope"))
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "Cannot GET /nope", de.Message)
}

func TestInvalidTransitionDetails(t *testing.T) {
	err := NewInvalidTransition(domain.StatusAssigned, domain.StatusResolved)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	de := ToDomainError(err)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, domain.StatusAssigned, de.Details["from"])
	assert.Equal(t, domain.StatusResolved, de.Details["to"])
}

func TestNilError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
