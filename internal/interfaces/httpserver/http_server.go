package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cg-server/internal/config"
	"cg-server/internal/domain/apikey"
	infraauth "cg-server/internal/infrastructure/auth"
	"cg-server/internal/interfaces/httpserver/dto"
	"cg-server/internal/interfaces/httpserver/handlers/billinghandler"
	"cg-server/internal/interfaces/httpserver/handlers/keyhandler"
	middleware "cg-server/internal/interfaces/httpserver/middlewares"
	"cg-server/internal/interfaces/httpserver/routes/auth"
	v1 "cg-server/internal/interfaces/httpserver/routes/v1"
)

type HTTPServer struct {
	engine         *gin.Engine
	authRoute      *auth.AuthRoute
	v1Route        *v1.V1Route
	billingHandler *billinghandler.Handler
	keyHandler     *keyhandler.Handler
	keys           *apikey.Service
	tokens         *infraauth.TokenManager
	config         *config.Config
	logger         zerolog.Logger
}

func NewHttpServer(
	authRoute *auth.AuthRoute,
	v1Route *v1.V1Route,
	billingHandler *billinghandler.Handler,
	keyHandler *keyhandler.Handler,
	keys *apikey.Service,
	tokens *infraauth.TokenManager,
	cfg *config.Config,
	logger zerolog.Logger,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	if err := dto.RegisterValidations(); err != nil {
		logger.Warn().Err(err).Msg("custom binding validations unavailable")
	}
	server := &HTTPServer{
		engine:         gin.New(),
		authRoute:      authRoute,
		v1Route:        v1Route,
		billingHandler: billingHandler,
		keyHandler:     keyHandler,
		keys:           keys,
		tokens:         tokens,
		config:         cfg,
		logger:         logger,
	}
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(logger))
	server.engine.Use(middleware.MetricsMiddleware())
	server.engine.Use(middleware.CORSMiddleware())

	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	server.engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	return server
}

func (s *HTTPServer) Run() error {
	// Unauthenticated surface: webhook deliveries and token verification
	root := s.engine.Group("/")
	root.POST("/webhooks/stripe", s.billingHandler.Webhook)
	root.POST("/api/key/verify", s.keyHandler.Verify)

	// Session-token surface
	session := s.engine.Group("/")
	session.Use(middleware.SessionAuthMiddleware(s.tokens, s.logger))

	// Machine-credential surface, paid plans only
	product := s.engine.Group("/v1")
	product.Use(
		middleware.APIKeyAuthMiddleware(s.keys, s.config, s.logger),
		middleware.RequireSubscriber(),
	)

	s.authRoute.RegisterRouter(root, session)
	s.v1Route.RegisterRouter(session, product)

	// Write timeouts stay unset: generation responses legitimately take
	// longer than HTTPTimeout while the upstream call runs.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.HTTPPort),
		Handler:           s.engine,
		ReadHeaderTimeout: s.config.HTTPTimeout,
		IdleTimeout:       s.config.HTTPTimeout,
	}
	return srv.ListenAndServe()
}
