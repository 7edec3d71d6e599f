package handler

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, sweepHandler *SweepHandler, notificationHandler *NotificationHandler) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/reminders/sweep", sweepHandler.HandleSweep)
		v1.POST("/notifications/:userId/messages/:messageId", notificationHandler.HandleNotificationCreated)
	}
}
