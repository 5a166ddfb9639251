package service

import "MoeMemo/types"

// 管理视图与修改权限的统一口径：管理员全量，其余只及自身。
// 各列表/写接口一律经由这里判断，不允许散落的 role 分支。

// managementOwner 管理视图的归属过滤，返回 0 表示不过滤（管理员）
func managementOwner(viewer *types.Identity) uint64 {
	if viewer.IsAdmin() {
		return 0
	}
	return viewer.UserID()
}

// canModify 是否可修改目标资源：本人或管理员
func canModify(viewer *types.Identity, ownerID uint64) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsAdmin() || viewer.ID == ownerID
}
