package controller

import (
	"time"

	"mls_backend/internal/service"
	"mls_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

func (ctrl *NotificationController) Send(c *gin.Context) {
	var req service.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	n, err := ctrl.NotificationService.Send(claims.Actor(), req)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, n)
}

func (ctrl *NotificationController) SendableRoles(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	util.Success(c, ctrl.NotificationService.SendableRoles(claims.Actor()))
}

func (ctrl *NotificationController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	ns, err := ctrl.NotificationService.ListVisible(claims.UserID, time.Now())
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, ns)
}

func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if err := ctrl.NotificationService.MarkRead(claims.UserID, util.ParseID(c.Param("id"))); err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, nil)
}

func (ctrl *NotificationController) UnreadCount(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	count, err := ctrl.NotificationService.UnreadCount(claims.UserID)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, gin.H{"unread": count})
}

func (ctrl *NotificationController) Deactivate(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if err := ctrl.NotificationService.Deactivate(claims.Actor(), util.ParseID(c.Param("id"))); err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, nil)
}
