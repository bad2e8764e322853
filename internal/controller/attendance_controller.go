package controller

import (
	"mls_backend/internal/model"
	"mls_backend/internal/service"
	"mls_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	AttendanceService *service.AttendanceService
}

func NewAttendanceController(attendanceService *service.AttendanceService) *AttendanceController {
	return &AttendanceController{AttendanceService: attendanceService}
}

type markOneRequest struct {
	StudentID uint                   `json:"studentId" binding:"required"`
	Status    model.AttendanceStatus `json:"status" binding:"required"`
}

func (ctrl *AttendanceController) MarkOne(c *gin.Context) {
	var req markOneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	rec, err := ctrl.AttendanceService.MarkOne(claims.Actor(), util.ParseID(c.Param("id")), req.StudentID, req.Status)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, rec)
}

type markBulkRequest struct {
	Items []service.BulkMarkItem `json:"items" binding:"required"`
}

func (ctrl *AttendanceController) MarkBulk(c *gin.Context) {
	var req markBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	outcomes, err := ctrl.AttendanceService.MarkBulk(claims.Actor(), util.ParseID(c.Param("id")), req.Items)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, outcomes)
}

func (ctrl *AttendanceController) MarkAllPresent(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	marked, err := ctrl.AttendanceService.AutoMarkAllPresent(claims.Actor(), util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, gin.H{"marked": marked})
}

func (ctrl *AttendanceController) LessonReport(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	report, err := ctrl.AttendanceService.LessonReport(claims.Actor(), util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, report)
}

func (ctrl *AttendanceController) AssessmentReport(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	rows, err := ctrl.AttendanceService.AssessmentReport(claims.Actor(), util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, rows)
}
