package handler

import (
	"MoeMemo/config"
	"MoeMemo/dao"
	"MoeMemo/middleware"
	"MoeMemo/pkg/context"
	"MoeMemo/pkg/response"
	"MoeMemo/service"
	"MoeMemo/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	Config      *config.Config
	PageService service.IPageService
	UsersDAO    *dao.Users
}

func (ph *PageHandler) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(ph.Config.Jwt.Secret), ph.UsersDAO)

	pages := r.Group("/pages")
	pages.GET("", context.Wrap(ph.ListPublished))
	pages.GET("/all", authorize, context.Wrap(ph.ListAll)) //管理列表
	pages.GET("/:slug", context.Wrap(ph.GetBySlug))
	pages.POST("", authorize, context.Wrap(ph.Create))
	pages.PUT("/:id", authorize, context.Wrap(ph.Update))
	pages.DELETE("/:id", authorize, context.Wrap(ph.Delete))
}

func (ph *PageHandler) ListPublished(c *gin.Context) error {
	pages, err := ph.PageService.ListPublished(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, pages)
	return nil
}

func (ph *PageHandler) ListAll(c *gin.Context) error {
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	pages, err := ph.PageService.ListAll(c.Request.Context(), viewer)
	if err != nil {
		return err
	}
	response.Success(c, pages)
	return nil
}

// GetBySlug 未发布的页面对外视为不存在
func (ph *PageHandler) GetBySlug(c *gin.Context) error {
	slug := c.Param("slug")
	page, err := ph.PageService.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (ph *PageHandler) Create(c *gin.Context) error {
	var req types.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	page, err := ph.PageService.Create(c.Request.Context(), viewer, &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (ph *PageHandler) Update(c *gin.Context) error {
	pageID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req types.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	page, err := ph.PageService.Update(c.Request.Context(), viewer, pageID, &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (ph *PageHandler) Delete(c *gin.Context) error {
	pageID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	if err := ph.PageService.Delete(c.Request.Context(), viewer, pageID); err != nil {
		return err
	}
	response.Success(c, gin.H{"id": pageID})
	return nil
}
