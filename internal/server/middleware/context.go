package middleware

import (
	"github.com/OFFIS-RIT/letternet/internal/cache"
	"github.com/OFFIS-RIT/letternet/internal/queue"
	"github.com/OFFIS-RIT/letternet/internal/records"
	"github.com/OFFIS-RIT/letternet/internal/telemetry"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type AppUser struct {
	UserID      string
	Role        string
	Permissions []string
}

// App carries the shared service state. Queue and Keyfunc are nil when no
// broker or identity provider is configured.
type App struct {
	Records *records.Store
	Cache   *cache.Cache
	Metrics *telemetry.Metrics
	Queue   queue.Channel
	Keyfunc jwt.Keyfunc

	MasterAPIKey  string
	InstanceID    string
	ParallelViews int
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
