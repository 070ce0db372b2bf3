package http

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	echo "github.com/labstack/echo/v4"

	"github.com/simako/simako-backend/internal/db"
)

const serviceName = "Simako Backend"

// healthHandler reports liveness plus a live store connectivity check. The
// ping runs under its own short timeout so a stalled store answers
// "disconnected" rather than hanging the probe.
func healthHandler(dbx *sqlx.DB, pingTimeout time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		store := "disconnected"
		if db.Ping(dbx, pingTimeout) {
			store = "connected"
		}

		return c.JSON(http.StatusOK, map[string]any{
			"status":    "ok",
			"service":   serviceName,
			"store":     store,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
