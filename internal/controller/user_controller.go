package controller

import (
	"mls_backend/internal/model"
	"mls_backend/internal/service"
	"mls_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

func (ctrl *UserController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	users, err := ctrl.UserService.List(claims.Actor())
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, users)
}

func (ctrl *UserController) ListByRole(c *gin.Context) {
	role := model.UserRole(c.Param("role"))
	users, err := ctrl.UserService.ListByRole(role)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, users)
}

type activationRequest struct {
	Activated bool `json:"activated"`
}

func (ctrl *UserController) SetActivation(c *gin.Context) {
	var req activationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	user, err := ctrl.UserService.SetActivation(claims.Actor(), util.ParseID(c.Param("id")), req.Activated)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, user)
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}

func (ctrl *UserController) SetArchived(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	user, err := ctrl.UserService.SetArchived(claims.Actor(), util.ParseID(c.Param("id")), req.Archived)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, user)
}

type profileRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

func (ctrl *UserController) Update(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	user, err := ctrl.UserService.Update(claims.Actor(), util.ParseID(c.Param("id")), req.FirstName, req.LastName, req.PhoneNumber)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, user)
}
