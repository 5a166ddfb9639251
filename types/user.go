package types

// 用户角色
const (
	RoleSubscriber = "subscriber"
	RoleAdmin      = "admin"
)

// 用户状态
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Identity 认证中间件解析出的请求者身份
type Identity struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// IsAdmin 是否管理员
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// UserID 未登录时返回 0
func (i *Identity) UserID() uint64 {
	if i == nil {
		return 0
	}
	return i.ID
}
