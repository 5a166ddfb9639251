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

type Note struct {
	Config      *config.Config
	NoteService service.INoteService
	UsersDAO    *dao.Users
}

func (n *Note) RegisterRouter(r gin.IRouter) {
	secret := []byte(n.Config.Jwt.Secret)
	authorize := middleware.Auth(secret, n.UsersDAO)
	optional := middleware.OptionalAuth(secret, n.UsersDAO)

	g := r.Group("/notes")
	g.GET("", authorize, context.Wrap(n.List)) //管理列表
	g.GET("/published", context.Wrap(n.Published))
	g.GET("/search", context.Wrap(n.Search))
	g.GET("/slides", context.Wrap(n.Slides))
	g.GET("/slides/all", authorize, context.Wrap(n.SlidesAll))
	g.GET("/recent", context.Wrap(n.Recent))
	g.GET("/popular", context.Wrap(n.Popular))
	g.GET("/stats", context.Wrap(n.Stats))
	g.GET("/:id", optional, context.Wrap(n.Get))
	g.POST("", authorize, context.Wrap(n.Create))
	g.PUT("/:id", authorize, context.Wrap(n.Update))
	g.DELETE("/:id", authorize, context.Wrap(n.Delete))
	g.POST("/:id/view", context.Wrap(n.View))
}

// limitQuery 可选的 limit 参数，缺省或非法时返回 0 交给下层取默认值
func limitQuery(c *gin.Context) int {
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return 0
}

// List 管理列表：管理员全量，其他人只看自己的
func (n *Note) List(c *gin.Context) error {
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	notes, err := n.NoteService.List(c.Request.Context(), viewer)
	if err != nil {
		return err
	}
	response.Success(c, notes)
	return nil
}

func (n *Note) Published(c *gin.Context) error {
	notes, err := n.NoteService.Published(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, notes)
	return nil
}

// Search 已发布文章的关键词/标签检索
func (n *Note) Search(c *gin.Context) error {
	notes, err := n.NoteService.Search(c.Request.Context(), c.Query("q"), c.Query("tag"))
	if err != nil {
		return err
	}
	response.Success(c, notes)
	return nil
}

func (n *Note) Slides(c *gin.Context) error {
	notes, err := n.NoteService.Slides(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, notes)
	return nil
}

func (n *Note) SlidesAll(c *gin.Context) error {
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	notes, err := n.NoteService.SlidesAll(c.Request.Context(), viewer)
	if err != nil {
		return err
	}
	response.Success(c, notes)
	return nil
}

func (n *Note) Recent(c *gin.Context) error {
	notes, err := n.NoteService.Recent(c.Request.Context(), limitQuery(c))
	if err != nil {
		return err
	}
	response.Success(c, notes)
	return nil
}

func (n *Note) Popular(c *gin.Context) error {
	notes, err := n.NoteService.Popular(c.Request.Context(), limitQuery(c))
	if err != nil {
		return err
	}
	response.Success(c, notes)
	return nil
}

// Stats 博客概览统计
func (n *Note) Stats(c *gin.Context) error {
	stats, err := n.NoteService.Stats(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, stats)
	return nil
}

// Get 单篇文章：草稿只有作者或管理员可见
func (n *Note) Get(c *gin.Context) error {
	noteID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	note, err := n.NoteService.Get(c.Request.Context(), noteID, context.OptionalIdentity(c))
	if err != nil {
		return err
	}
	response.Success(c, note)
	return nil
}

func (n *Note) Create(c *gin.Context) error {
	var req types.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	note, err := n.NoteService.Create(c.Request.Context(), viewer, &req)
	if err != nil {
		return err
	}
	response.Success(c, note)
	return nil
}

func (n *Note) Update(c *gin.Context) error {
	noteID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req types.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	if err := n.NoteService.Update(c.Request.Context(), viewer, noteID, &req); err != nil {
		return err
	}
	response.Success(c, gin.H{"id": noteID})
	return nil
}

func (n *Note) Delete(c *gin.Context) error {
	noteID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	viewer, err := context.GetIdentity(c)
	if err != nil {
		return err
	}
	if err := n.NoteService.Delete(c.Request.Context(), viewer, noteID); err != nil {
		return err
	}
	response.Success(c, gin.H{"id": noteID})
	return nil
}

// View 公开的浏览数自增
func (n *Note) View(c *gin.Context) error {
	noteID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := n.NoteService.IncrementView(c.Request.Context(), noteID); err != nil {
		return err
	}
	response.Success(c, gin.H{"id": noteID})
	return nil
}
