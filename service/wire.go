package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(NoteService), "*"),
	wire.Bind(new(INoteService), new(*NoteService)),

	wire.Struct(new(CommentsService), "*"),
	wire.Bind(new(ICommentsService), new(*CommentsService)),

	wire.Struct(new(TagService), "*"),
	wire.Bind(new(ITagService), new(*TagService)),

	wire.Struct(new(PageService), "*"),
	wire.Bind(new(IPageService), new(*PageService)),
)
