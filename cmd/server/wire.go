//go:build wireinject

package main

import (
	"cg-server/internal/domain"
	"cg-server/internal/infrastructure"
	"cg-server/internal/interfaces"
	"cg-server/internal/interfaces/httpserver/routes"

	"github.com/google/wire"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		routes.RouteProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
