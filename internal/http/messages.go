package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/simako/simako-backend/internal/model"
	"github.com/simako/simako-backend/internal/repository"
	"github.com/simako/simako-backend/internal/service/messages"
)

type receiveMessageReq struct {
	SimID     string         `json:"sim_id"  validate:"required"`
	Type      string         `json:"type"    validate:"required,oneof=sms call"`
	From      string         `json:"from"    validate:"required"`
	To        string         `json:"to"`
	Message   string         `json:"message" validate:"required"`
	Timestamp *time.Time     `json:"timestamp"`
	Metadata  model.Metadata `json:"metadata"`
}

func receiveMessageHandler(svc *messages.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req receiveMessageReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		kind, _ := model.ParseMessageKind(req.Type)

		// stored fields must equal the payload verbatim, so no trimming
		msg, err := svc.Ingest(c.Request().Context(), messages.IngestInput{
			SimID:     req.SimID,
			Kind:      kind,
			From:      req.From,
			To:        req.To,
			Body:      req.Message,
			Timestamp: req.Timestamp,
			Metadata:  req.Metadata,
		})
		if err != nil {
			if errors.Is(err, messages.ErrMetadataTooLarge) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "metadata too large"})
			}

			log.Errorf("ingest failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
		}

		return c.JSON(http.StatusCreated, map[string]any{
			"status":     "ok",
			"message_id": msg.ID,
			"received":   msg,
		})
	}
}

func listMessagesHandler(repo repository.MessagesRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := 100
		skip := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("skip"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				skip = n
			}
		}

		// filters are equality matches on the raw values; an unknown kind
		// simply matches nothing
		var f model.MessageFilter
		f.SimID = c.QueryParam("sim_id")
		f.Kind = model.MessageKind(c.QueryParam("type"))

		msgs, total, err := repo.List(c.Request().Context(), f, limit, skip)
		if err != nil {
			c.Logger().Errorf("list messages failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"messages": msgs,
			"count":    len(msgs),
			"total":    total,
		})
	}
}

func markProcessedHandler(svc *messages.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")

		msg, err := svc.MarkProcessed(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, messages.ErrNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Message not found"})
			}

			log.Errorf("mark processed failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"message": "Message marked as processed",
			"data":    msg,
		})
	}
}
