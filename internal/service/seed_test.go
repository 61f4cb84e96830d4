package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resolvenow/complaint-service/internal/domain"
	"github.com/resolvenow/complaint-service/internal/repository"
	"github.com/resolvenow/complaint-service/internal/repository/memory"
)

func TestSeeder_LoadsDemoDataOnce(t *testing.T) {
	ctx := context.Background()
	authSvc, users := newAuthService(t)
	complaints := memory.NewComplaintStore()
	seeder := NewSeeder(authSvc, complaints, zap.NewNop())

	require.NoError(t, seeder.Run(ctx))
	require.NoError(t, seeder.Run(ctx))

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	login, err := authSvc.Authenticate(ctx, "agent@resolvenow.com", "agent123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, login.User.Role)

	list, err := complaints.List(ctx, repository.ComplaintFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.StatusPending, list[0].Status)
	assert.Equal(t, domain.StatusAssigned, list[1].Status)
	assert.True(t, list[1].IsAssignedTo(login.User.ID))
	assert.Len(t, list[1].Messages, 2)
}
