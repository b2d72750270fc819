package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/recruitment-service/internal/service"
)

// StartNotificationWorker hooks the notification stubs onto the dispatcher.
// Delivery runs on the publishing goroutine, so there is nothing to stop.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	subscribed := notificationService.RegisterHandlers()
	names := make([]string, 0, len(subscribed))
	for _, eventType := range subscribed {
		names = append(names, string(eventType))
	}
	logger.Info("notification handlers registered", zap.Strings("events", names))
}
