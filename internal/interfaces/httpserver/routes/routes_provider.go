package routes

import (
	"github.com/google/wire"

	"cg-server/internal/interfaces/httpserver/handlers/authhandler"
	"cg-server/internal/interfaces/httpserver/handlers/billinghandler"
	"cg-server/internal/interfaces/httpserver/handlers/generatehandler"
	"cg-server/internal/interfaces/httpserver/handlers/keyhandler"
	"cg-server/internal/interfaces/httpserver/routes/auth"
	v1 "cg-server/internal/interfaces/httpserver/routes/v1"
)

var RouteProvider = wire.NewSet(
	// Handlers
	authhandler.NewHandler,
	billinghandler.NewHandler,
	keyhandler.NewHandler,
	generatehandler.NewHandler,

	// Routes
	auth.NewAuthRoute,
	v1.NewV1Route,
)
