package v1

import (
	"github.com/gin-gonic/gin"

	"cg-server/internal/interfaces/httpserver/handlers/billinghandler"
	"cg-server/internal/interfaces/httpserver/handlers/generatehandler"
	"cg-server/internal/interfaces/httpserver/handlers/keyhandler"
)

// V1Route wires the versioned API surface.
type V1Route struct {
	billingHandler  *billinghandler.Handler
	keyHandler      *keyhandler.Handler
	generateHandler *generatehandler.Handler
}

func NewV1Route(
	billingHandler *billinghandler.Handler,
	keyHandler *keyhandler.Handler,
	generateHandler *generatehandler.Handler,
) *V1Route {
	return &V1Route{
		billingHandler:  billingHandler,
		keyHandler:      keyHandler,
		generateHandler: generateHandler,
	}
}

// RegisterRouter binds session-token endpoints and machine-credential
// endpoints onto their respective groups.
func (r *V1Route) RegisterRouter(session gin.IRouter, product gin.IRouter) {
	session.POST("/v1/billing/checkout", r.billingHandler.Checkout)
	session.GET("/v1/keys/mine", r.keyHandler.Mine)

	product.POST("/generate/content", r.generateHandler.GenerateContent)
	product.POST("/blog/preview", r.generateHandler.BlogPreview)
}
