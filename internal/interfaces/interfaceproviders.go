package interfaces

import (
	"github.com/google/wire"

	"cg-server/internal/interfaces/httpserver"
)

var InterfacesProvider = wire.NewSet(
	httpserver.NewHttpServer,
)
