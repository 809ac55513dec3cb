package http

import "github.com/labstack/echo/v4"

// Handler is what the server mounts: a group of decision-engine routes
// registered on the shared echo instance.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
