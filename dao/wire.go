package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewUsers,
	NewNoteDAO,
	NewTag,
	NewNoteTag,
	NewComment,
	NewCommentLike,
	NewPageDAO,
)
