package accounts

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
)

// MountFiber boots the account controller on a fiber application
// through the router adapter and returns the server. Pass nil to let
// the adapter create an app with default options.
func MountFiber(app *fiber.App, opts ...AccountControllerOption) router.Server[*fiber.App] {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		if app != nil {
			return app
		}
		return router.DefaultFiberOptions(fiber.New())
	})

	RegisterAccountRoutes(srv.Router(), opts...)

	return srv
}
