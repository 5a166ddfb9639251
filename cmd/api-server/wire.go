//go:build wireinject
// +build wireinject

package main

import (
	"MoeMemo/config"
	"MoeMemo/dao"
	"MoeMemo/handler"
	"MoeMemo/pkg/client"
	"MoeMemo/pkg/database"
	"MoeMemo/pkg/server"
	"MoeMemo/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) *server.AppProvider {
	wire.Build(

		client.NewRedisClient,
		server.NewGinEngine,
		wire.Struct(new(handler.Note), "*"),
		wire.Struct(new(handler.CommentsHandler), "*"),
		wire.Struct(new(handler.TagHandler), "*"),
		wire.Struct(new(handler.PageHandler), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),

		dao.ProviderSet,

		service.ProviderSet,
		database.NewDB,
	)
	return nil
}
