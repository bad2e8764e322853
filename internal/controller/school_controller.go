package controller

import (
	"mls_backend/internal/model"
	"mls_backend/internal/service"
	"mls_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SchoolController exposes the administrative hierarchy: schools, courses,
// intakes, semesters, course groups, units and enrollment.
type SchoolController struct {
	SchoolService *service.SchoolService
}

func NewSchoolController(schoolService *service.SchoolService) *SchoolController {
	return &SchoolController{SchoolService: schoolService}
}

type schoolRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (ctrl *SchoolController) CreateSchool(c *gin.Context) {
	var req schoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	school, err := ctrl.SchoolService.CreateSchool(claims.Actor(), req.Name, req.Description)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, school)
}

func (ctrl *SchoolController) ListSchools(c *gin.Context) {
	schools, err := ctrl.SchoolService.ListSchools()
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, schools)
}

func (ctrl *SchoolController) CreateCourse(c *gin.Context) {
	var course model.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	if err := ctrl.SchoolService.CreateCourse(claims.Actor(), &course); err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, course)
}

func (ctrl *SchoolController) ListCourses(c *gin.Context) {
	courses, err := ctrl.SchoolService.ListCourses(util.ParseID(c.Query("schoolId")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, courses)
}

func (ctrl *SchoolController) CreateIntake(c *gin.Context) {
	var intake model.Intake
	if err := c.ShouldBindJSON(&intake); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	if err := ctrl.SchoolService.CreateIntake(claims.Actor(), &intake); err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, intake)
}

func (ctrl *SchoolController) ListIntakes(c *gin.Context) {
	intakes, err := ctrl.SchoolService.ListIntakes(util.ParseID(c.Query("courseId")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, intakes)
}

func (ctrl *SchoolController) CreateSemester(c *gin.Context) {
	var sem model.Semester
	if err := c.ShouldBindJSON(&sem); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	if err := ctrl.SchoolService.CreateSemester(claims.Actor(), &sem); err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, sem)
}

func (ctrl *SchoolController) CreateCourseGroup(c *gin.Context) {
	var group model.CourseGroup
	if err := c.ShouldBindJSON(&group); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	if err := ctrl.SchoolService.CreateCourseGroup(claims.Actor(), &group); err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, group)
}

func (ctrl *SchoolController) ListCourseGroups(c *gin.Context) {
	groups, err := ctrl.SchoolService.ListCourseGroups()
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, groups)
}

func (ctrl *SchoolController) CreateUnit(c *gin.Context) {
	var unit model.Unit
	if err := c.ShouldBindJSON(&unit); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	if err := ctrl.SchoolService.CreateUnit(claims.Actor(), &unit); err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, unit)
}

func (ctrl *SchoolController) ListUnits(c *gin.Context) {
	units, err := ctrl.SchoolService.ListUnits(util.ParseID(c.Query("courseGroupId")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, units)
}

func (ctrl *SchoolController) MyUnits(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	units, err := ctrl.SchoolService.ListTrainerUnits(claims.UserID)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, units)
}

type assignTrainerRequest struct {
	TrainerID uint `json:"trainerId" binding:"required"`
}

func (ctrl *SchoolController) AssignTrainer(c *gin.Context) {
	var req assignTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	unit, err := ctrl.SchoolService.AssignTrainer(claims.Actor(), util.ParseID(c.Param("id")), req.TrainerID)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, unit)
}

type enrollRequest struct {
	StudentID     uint `json:"studentId" binding:"required"`
	CourseGroupID uint `json:"courseGroupId" binding:"required"`
}

func (ctrl *SchoolController) Enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	e, err := ctrl.SchoolService.Enroll(claims.Actor(), req.StudentID, req.CourseGroupID)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, e)
}

func (ctrl *SchoolController) Roster(c *gin.Context) {
	roster, err := ctrl.SchoolService.Roster(util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, roster)
}
