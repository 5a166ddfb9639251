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
	"strconv"

	"github.com/gin-gonic/gin"
)

type CommentsHandler struct {
	Config          *config.Config
	CommentsService service.ICommentsService
	UsersDAO        *dao.Users
}

func (ch *CommentsHandler) RegisterRouter(r gin.IRouter) {
	secret := []byte(ch.Config.Jwt.Secret)
	authorize := middleware.Auth(secret, ch.UsersDAO)
	optional := middleware.OptionalAuth(secret, ch.UsersDAO)

	comments := r.Group("/comments")
	comments.GET("/detail/:commentId", optional, context.Wrap(ch.GetDetail))
	comments.GET("/:articleId", optional, context.Wrap(ch.GetTree)) //文章评论树
	comments.POST("", authorize, context.Wrap(ch.CreateComment))
	comments.POST("/:commentId/like", authorize, context.Wrap(ch.ToggleLike)) //点赞/取消
	comments.DELETE("/:commentId", authorize, context.Wrap(ch.DeleteComment))
}

func parseID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.NewError(http.StatusBadRequest, name+"参数错误")
	}
	return id, nil
}

// GetTree 文章的嵌套评论树，匿名可读
func (ch *CommentsHandler) GetTree(c *gin.Context) error {
	articleID, err := parseID(c, "articleId")
	if err != nil {
		return err
	}
	viewer := context.OptionalIdentity(c)
	tree, err := ch.CommentsService.GetTree(c.Request.Context(), articleID, viewer)
	if err != nil {
		return err
	}
	response.Success(c, tree)
	return nil
}

// GetDetail 单条评论 + 两层内全部回复（平铺）
func (ch *CommentsHandler) GetDetail(c *gin.Context) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return err
	}
	viewer := context.OptionalIdentity(c)
	detail, err := ch.CommentsService.GetDetail(c.Request.Context(), commentID, viewer)
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

// CreateComment 发表评论或回复
func (ch *CommentsHandler) CreateComment(c *gin.Context) error {
	var req types.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	node, err := ch.CommentsService.Create(c.Request.Context(), viewer, &req)
	if err != nil {
		return err
	}
	response.Success(c, node)
	return nil
}

// ToggleLike 点赞开关
func (ch *CommentsHandler) ToggleLike(c *gin.Context) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return err
	}
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	result, err := ch.CommentsService.ToggleLike(c.Request.Context(), viewer, commentID)
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// DeleteComment 删除评论及其整棵回复子树
func (ch *CommentsHandler) DeleteComment(c *gin.Context) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return err
	}
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	if err := ch.CommentsService.Delete(c.Request.Context(), viewer, commentID); err != nil {
		return err
	}
	response.Success(c, gin.H{"id": commentID})
	return nil
}
