package server

import (
	"MoeMemo/handler"
)

type Handlers struct {
	Note            *handler.Note
	CommentsHandler *handler.CommentsHandler
	TagHandler      *handler.TagHandler
	PageHandler     *handler.PageHandler
}
