package mockd

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/danieljhkim/sidestatus/internal/daemon"
)

// Context is what every mock daemon handler receives: the echo request plus
// a logger already tagged with the request id.
type Context struct {
	echo.Context
	L *zap.Logger
}

type handlerFunc func(c Context) error

// wrap adapts h to echo, tagging L with the id set by the RequestID middleware.
func wrap(h handlerFunc, l *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h(Context{
			Context: c,
			L:       l.With(zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID))),
		})
	}
}

// Error sends the daemon's {"error": "..."} body.
func (c Context) Error(status int, message string) error {
	return c.JSON(status, daemon.ErrorResponse{Error: message})
}

func (c Context) badRequest(message string) error {
	return c.Error(http.StatusBadRequest, message)
}

func (c Context) notFound(message string) error {
	return c.Error(http.StatusNotFound, message)
}

func (c Context) ok(data any) error {
	return c.JSON(http.StatusOK, data)
}
