package http

import (
	"github.com/gofiber/fiber/v2"
)

// NewApp builds the fiber application with the global middlewares and routes.
func NewApp(name string, mw MiddlewareConfig, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		ErrorHandler:          ErrorHandler(mw.Logger),
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, mw)
	RegisterRoutes(app, routes)
	return app
}
