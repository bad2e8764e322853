package controller

import (
	"mls_backend/internal/service"
	"mls_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResourceController struct {
	ResourceService *service.ResourceService
}

func NewResourceController(resourceService *service.ResourceService) *ResourceController {
	return &ResourceController{ResourceService: resourceService}
}

// Attach accepts a multipart form: metadata fields plus an optional file
// part named "file" for non-link resources.
func (ctrl *ResourceController) Attach(c *gin.Context) {
	var req service.ResourceRequest
	if err := c.ShouldBind(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	file, _ := c.FormFile("file")

	claims := util.GetUserFromContext(c)
	res, err := ctrl.ResourceService.Attach(c.Request.Context(), claims.Actor(), util.ParseID(c.Param("id")), req, file)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, res)
}

func (ctrl *ResourceController) ListForLesson(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	rs, err := ctrl.ResourceService.ListForLesson(claims.Actor(), util.ParseID(c.Param("id")))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, rs)
}

func (ctrl *ResourceController) Remove(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if err := ctrl.ResourceService.Remove(c.Request.Context(), claims.Actor(), util.ParseID(c.Param("id"))); err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, nil)
}
