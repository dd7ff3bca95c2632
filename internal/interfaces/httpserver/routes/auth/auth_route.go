package auth

import (
	"github.com/gin-gonic/gin"

	"cg-server/internal/interfaces/httpserver/handlers/authhandler"
)

// AuthRoute wires account and session endpoints.
type AuthRoute struct {
	handler *authhandler.Handler
}

func NewAuthRoute(handler *authhandler.Handler) *AuthRoute {
	return &AuthRoute{handler: handler}
}

// RegisterRouter binds public auth endpoints and the session-protected
// identity echo.
func (r *AuthRoute) RegisterRouter(public gin.IRouter, session gin.IRouter) {
	authGroup := public.Group("/auth")
	authGroup.POST("/register", r.handler.Register)
	authGroup.POST("/login", r.handler.Login)
	authGroup.POST("/refresh", r.handler.Refresh)

	session.GET("/users/me", r.handler.Me)
}
