package controller

import (
	"mls_backend/internal/service"
	"mls_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	user, err := ctrl.AuthService.Register(req)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, user)
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	result, err := ctrl.AuthService.Login(req)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, result)
}

func (ctrl *AuthController) Me(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c, "")
		return
	}
	user, err := ctrl.AuthService.Me(claims.UserID)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, user)
}
