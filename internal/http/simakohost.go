package http

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/simako/simako-backend/internal/gateway"
	"github.com/simako/simako-backend/internal/metrics"
	"github.com/simako/simako-backend/internal/model"
)

func simakoStatusHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":    "ok",
			"message":   "SimakoHost integration endpoint",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

type sendSMSReq struct {
	SimID   string `json:"sim_id"  validate:"required"`
	To      string `json:"to"      validate:"required"`
	Message string `json:"message" validate:"required"`
}

// sendSMSHandler accepts an outbound send request and hands it to the gateway
// client. With the default stub that is a no-op; nothing durable is written.
func sendSMSHandler(gw gateway.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req sendSMSReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		if err := gw.Send(c.Request().Context(), req.SimID, req.To, req.Message); err != nil {
			log.Errorf("gateway send failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to queue SMS"})
		}

		metrics.OutboundQueued.Inc()

		return c.JSON(http.StatusAccepted, map[string]any{
			"status":  "ok",
			"message": "SMS queued for sending",
			"request": model.OutboundRequest{
				SimID:     req.SimID,
				To:        req.To,
				Message:   req.Message,
				Status:    "queued",
				CreatedAt: time.Now().UTC(),
			},
		})
	}
}
