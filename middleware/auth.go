package middleware

import (
	"net/http"
	"strings"

	"MoeMemo/dao"
	ctxpkg "MoeMemo/pkg/context"
	"MoeMemo/pkg/jwt"
	"MoeMemo/pkg/response"
	"MoeMemo/types"

	"github.com/gin-gonic/gin"
)

// identityFromToken 解析 Bearer token 并回库加载用户。
// token 合法但账号被禁用时同样视为未认证。
func identityFromToken(c *gin.Context, secret []byte, users *dao.Users) (*types.Identity, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "缺少 Authorization"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "Authorization 格式错误"
	}

	claims, err := jwt.ParseToken(secret, "access", parts[1])
	if err != nil {
		return nil, "无效的 token"
	}

	user, err := users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil || user == nil {
		return nil, "用户不存在"
	}
	if user.Status != types.UserStatusActive {
		return nil, "账号已被禁用"
	}

	return &types.Identity{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Status:   user.Status,
	}, ""
}

// Auth 强制认证，失败直接 401
func Auth(secret []byte, users *dao.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, reason := identityFromToken(c, secret, users)
		if identity == nil {
			response.Abort(c, http.StatusUnauthorized, reason)
			return
		}
		ctxpkg.SetIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth 可选认证：带合法 token 时注入身份，否则匿名放行
func OptionalAuth(secret []byte, users *dao.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, _ := identityFromToken(c, secret, users); identity != nil {
			ctxpkg.SetIdentity(c, identity)
		}
		c.Next()
	}
}
