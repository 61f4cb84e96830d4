package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/resolvenow/complaint-service/internal/config"
	"github.com/resolvenow/complaint-service/internal/events"
)

func TestNotificationService_LogsAndStubsDelivery(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@resolvenow.com",
		WebhookURL: "https://hooks.example.com/complaints",
	})
	svc.RegisterHandlers()

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventComplaintCreated, ComplaintID: "c1"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventComplaintStatusChanged, ComplaintID: "c1"}))

	assert.Equal(t, 1, logs.FilterMessage("ComplaintCreated").Len())
	assert.Equal(t, 1, logs.FilterMessage("ComplaintStatusChanged").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 2, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestNotificationService_SkipsUnconfiguredChannels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventComplaintMessageAdded, ComplaintID: "c1"}))

	assert.Equal(t, 1, logs.FilterMessage("ComplaintMessageAdded").Len())
	assert.Equal(t, 0, logs.FilterMessage("sendEmailNotificationStub").Len())
}
