package worker

import (
	"go.uber.org/zap"

	"github.com/resolvenow/complaint-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to complaint events.
// A nil service disables notifications.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		logger.Info("notifications disabled")
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification handlers registered")
}
