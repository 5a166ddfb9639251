package context

import (
	"errors"
	"net/http"

	"MoeMemo/pkg/response"
	"MoeMemo/types"

	"github.com/gin-gonic/gin"
)

const (
	CtxIdentity = "identity"
)

type HandlerFunc func(*gin.Context) error

func Wrap(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			// 业务错误
			var be *response.BizError
			if errors.As(err, &be) {
				response.Fail(c, be.Code, be.Msg)
				return
			}
			response.Fail(c, http.StatusInternalServerError, "服务器错误")
		}
	}
}

// SetIdentity 认证中间件写入请求者身份
func SetIdentity(c *gin.Context, id *types.Identity) {
	c.Set(CtxIdentity, id)
}

// GetIdentity 必须已登录，否则报错
func GetIdentity(c *gin.Context) (*types.Identity, error) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return nil, errors.New("identity 不存在")
	}

	id, ok := v.(*types.Identity)
	if !ok || id == nil {
		return nil, errors.New("identity 类型错误")
	}

	return id, nil
}

// OptionalIdentity 匿名请求返回 nil
func OptionalIdentity(c *gin.Context) *types.Identity {
	id, err := GetIdentity(c)
	if err != nil {
		return nil
	}
	return id
}
