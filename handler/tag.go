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

type TagHandler struct {
	Config      *config.Config
	TagService  service.ITagService
	NoteService service.INoteService
	UsersDAO    *dao.Users
}

func (th *TagHandler) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(th.Config.Jwt.Secret), th.UsersDAO)

	tags := r.Group("/tags")
	tags.GET("", authorize, context.Wrap(th.List)) //管理列表，带文章计数
	tags.GET("/hot", context.Wrap(th.Hot))
	tags.GET("/:id", context.Wrap(th.Get))
	tags.GET("/:id/notes", context.Wrap(th.Notes)) //标签下的已发布文章
	tags.POST("", authorize, context.Wrap(th.Create))
	tags.PUT("/:id", authorize, context.Wrap(th.Update))
	tags.DELETE("/:id", authorize, context.Wrap(th.Delete))
}

func (th *TagHandler) List(c *gin.Context) error {
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	tags, err := th.TagService.List(c.Request.Context(), viewer)
	if err != nil {
		return err
	}
	response.Success(c, tags)
	return nil
}

func (th *TagHandler) Hot(c *gin.Context) error {
	tags, err := th.TagService.Hot(c.Request.Context(), limitQuery(c))
	if err != nil {
		return err
	}
	response.Success(c, tags)
	return nil
}

func (th *TagHandler) Get(c *gin.Context) error {
	tagID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tag, err := th.TagService.Get(c.Request.Context(), tagID)
	if err != nil {
		return err
	}
	response.Success(c, tag)
	return nil
}

// Notes 标签下的已发布文章，匿名可读
func (th *TagHandler) Notes(c *gin.Context) error {
	tagID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if _, err := th.TagService.Get(c.Request.Context(), tagID); err != nil {
		return err
	}
	notes, err := th.NoteService.ByTag(c.Request.Context(), tagID)
	if err != nil {
		return err
	}
	response.Success(c, notes)
	return nil
}

func (th *TagHandler) Create(c *gin.Context) error {
	var req types.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	tag, err := th.TagService.Create(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, tag)
	return nil
}

func (th *TagHandler) Update(c *gin.Context) error {
	tagID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req types.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	tag, err := th.TagService.Update(c.Request.Context(), tagID, &req)
	if err != nil {
		return err
	}
	response.Success(c, tag)
	return nil
}

func (th *TagHandler) Delete(c *gin.Context) error {
	tagID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := th.TagService.Delete(c.Request.Context(), tagID); err != nil {
		return err
	}
	response.Success(c, gin.H{"id": tagID})
	return nil
}
