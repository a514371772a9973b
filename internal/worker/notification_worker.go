package worker

import (
	"github.com/hydrotek/service-desk/internal/service"
	"github.com/hydrotek/service-desk/internal/session"
)

// StartNotificationWorker registers event and session handlers.
func StartNotificationWorker(notificationService *service.NotificationService, sessions *session.Registry) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	notificationService.WatchSessions(sessions)
}
