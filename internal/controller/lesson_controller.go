package controller

import (
	"mls_backend/internal/service"
	"mls_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService   *service.LessonService
	ProgressService *service.ProgressService
}

func NewLessonController(lessonService *service.LessonService, progressService *service.ProgressService) *LessonController {
	return &LessonController{LessonService: lessonService, ProgressService: progressService}
}

func (ctrl *LessonController) Create(c *gin.Context) {
	var req service.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	lesson, err := ctrl.LessonService.Create(claims.Actor(), req)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, lesson)
}

func (ctrl *LessonController) Update(c *gin.Context) {
	var req service.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	lesson, err := ctrl.LessonService.Update(claims.Actor(), util.ParseID(c.Param("id")), req)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, lesson)
}

type submitRequest struct {
	AsDraft bool `json:"asDraft"`
}

// Submit moves the lesson into PendingApproval, or back to Draft when
// asDraft is set. Resubmitting after a rejection clears the feedback.
func (ctrl *LessonController) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	lesson, err := ctrl.LessonService.Submit(claims.Actor(), util.ParseID(c.Param("id")), req.AsDraft)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	// Submit clears is_approved, which can shrink the unit's approved set.
	ctrl.ProgressService.InvalidateUnit(c.Request.Context(), lesson.UnitID)
	util.Success(c, lesson)
}

func (ctrl *LessonController) Approve(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	lesson, err := ctrl.LessonService.Approve(claims.Actor(), util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	ctrl.ProgressService.InvalidateUnit(c.Request.Context(), lesson.UnitID)
	util.Success(c, lesson)
}

type rejectRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

func (ctrl *LessonController) Reject(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "rejection feedback is required")
		return
	}
	claims := util.GetUserFromContext(c)
	lesson, err := ctrl.LessonService.Reject(claims.Actor(), util.ParseID(c.Param("id")), req.Feedback)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	ctrl.ProgressService.InvalidateUnit(c.Request.Context(), lesson.UnitID)
	util.Success(c, lesson)
}

func (ctrl *LessonController) Deactivate(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	lesson, err := ctrl.LessonService.Deactivate(claims.Actor(), util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	ctrl.ProgressService.InvalidateUnit(c.Request.Context(), lesson.UnitID)
	util.Success(c, nil)
}

func (ctrl *LessonController) ListByUnit(c *gin.Context) {
	lessons, err := ctrl.LessonService.ListByUnit(util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, lessons)
}

// StudentList returns approved lessons with the caller's completion flags.
func (ctrl *LessonController) StudentList(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	lessons, err := ctrl.LessonService.ListForStudent(claims.UserID, util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, lessons)
}

// StudentView opens lesson content; attendance is auto-marked as a side
// effect.
func (ctrl *LessonController) StudentView(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	lesson, err := ctrl.LessonService.ViewContent(claims.UserID, util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, lesson)
}

type completionRequest struct {
	Completed bool `json:"completed"`
}

func (ctrl *LessonController) ToggleCompletion(c *gin.Context) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	progress, err := ctrl.ProgressService.ToggleCompletion(c.Request.Context(), claims.Actor(), util.ParseID(c.Param("id")), req.Completed)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, progress)
}

func (ctrl *LessonController) UnitProgress(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	progress, err := ctrl.ProgressService.UnitProgress(c.Request.Context(), claims.UserID, util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, progress)
}
