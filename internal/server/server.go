package server

import (
	"log"
	"net/url"

	"grid-portal-be/internal/bootstrap"
	"grid-portal-be/internal/config"
	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/pkg/serverutils"
	ws "grid-portal-be/internal/websocket"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // CV batches can be large
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	// Public logo serving. A single 404 for both "no such client" and
	// "no logo" so existence cannot be probed here.
	app.Get("/logos/:client", func(ctx *fiber.Ctx) error {
		name := ctx.Params("client")
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
		rc, err := c.ClientService.Logo(ctx.Context(), name)
		if err != nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}
		ctx.Set(fiber.HeaderContentType, "image/png")
		return ctx.SendStream(rc)
	})

	// Live activity feed.
	app.Use("/ws", c.AuthMiddleware, func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/activity", c.AuthMiddleware, websocket.New(func(conn *websocket.Conn) {
		p, _ := conn.Locals(serverutils.PrincipalKey).(entity.Principal)
		ws.ServeWs(c.WebSocketHub, conn, p.Email)
	}))

	api := app.Group("/api")

	c.AuthController.RegisterRoutes(api, c.AuthMiddleware)
	c.ClientController.RegisterRoutes(api, c.AuthMiddleware)
	c.PositionController.RegisterRoutes(api, c.AuthMiddleware)
	c.FeedbackController.RegisterRoutes(api, c.AuthMiddleware)
	c.NotificationController.RegisterRoutes(api, c.AuthMiddleware)
}
