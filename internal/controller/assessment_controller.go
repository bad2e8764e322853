package controller

import (
	"time"

	"mls_backend/internal/service"
	"mls_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
}

func NewAssessmentController(assessmentService *service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

func (ctrl *AssessmentController) Create(c *gin.Context) {
	var req service.AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	a, err := ctrl.AssessmentService.Create(claims.Actor(), req)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, a)
}

func (ctrl *AssessmentController) Update(c *gin.Context) {
	var req service.AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	a, err := ctrl.AssessmentService.Update(claims.Actor(), util.ParseID(c.Param("id")), req)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, a)
}

func (ctrl *AssessmentController) Delete(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if err := ctrl.AssessmentService.Delete(claims.Actor(), util.ParseID(c.Param("id"))); err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, nil)
}

func (ctrl *AssessmentController) ListByUnit(c *gin.Context) {
	as, err := ctrl.AssessmentService.ListByUnit(util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, as)
}

type saveQuestionsRequest struct {
	Questions []service.QuestionRequest `json:"questions" binding:"required"`
}

func (ctrl *AssessmentController) SaveQuestions(c *gin.Context) {
	var req saveQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	qs, err := ctrl.AssessmentService.SaveQuestions(claims.Actor(), util.ParseID(c.Param("id")), req.Questions)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, qs)
}

// StudentView returns the countdown before the scheduled time and the
// sanitized questions after it.
func (ctrl *AssessmentController) StudentView(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	view, err := ctrl.AssessmentService.StudentView(claims.Actor(), util.ParseID(c.Param("id")), time.Now())
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, view)
}

func (ctrl *AssessmentController) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	sub, err := ctrl.AssessmentService.Submit(claims.Actor(), util.ParseID(c.Param("id")), req, time.Now())
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, sub)
}

type gradeRequest struct {
	Grade    float64 `json:"grade"`
	Feedback string  `json:"feedback"`
}

func (ctrl *AssessmentController) Grade(c *gin.Context) {
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	sub, err := ctrl.AssessmentService.Grade(claims.Actor(), util.ParseID(c.Param("id")), req.Grade, req.Feedback)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, sub)
}

func (ctrl *AssessmentController) ListSubmissions(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	subs, err := ctrl.AssessmentService.ListSubmissions(claims.Actor(), util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, subs)
}

func (ctrl *AssessmentController) MySubmission(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	detail, err := ctrl.AssessmentService.MySubmission(claims.Actor(), util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, detail)
}

func (ctrl *AssessmentController) GenerateCATs(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	created, err := ctrl.AssessmentService.GenerateCATs(claims.Actor(), util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, created)
}
