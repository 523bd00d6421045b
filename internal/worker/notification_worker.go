package worker

import (
	"github.com/spec-kit/safety-roster/internal/service"
)

// StartNotificationWorker subscribes the notifier to status reports and
// returns a stop func that waits for in-flight alert deliveries.
func StartNotificationWorker(notificationService *service.NotificationService) (stop func()) {
	if notificationService == nil {
		return func() {}
	}
	notificationService.RegisterHandlers()
	return notificationService.Drain
}
