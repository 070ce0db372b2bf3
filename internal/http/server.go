package http

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/simako/simako-backend/internal/config"
	"github.com/simako/simako-backend/internal/gateway"
	"github.com/simako/simako-backend/internal/http/middleware"
	"github.com/simako/simako-backend/internal/metrics"
	"github.com/simako/simako-backend/internal/repository"
	"github.com/simako/simako-backend/internal/service/messages"
	"github.com/simako/simako-backend/internal/service/simcards"
	"github.com/simako/simako-backend/internal/validate"
	"github.com/simako/simako-backend/internal/webhook"
)

type Server struct{ e *echo.Echo }

var registerMetricsOnce sync.Once

// NewServer wires repositories, services, and routes. rds may be nil (rate
// limiting disabled).
func NewServer(cfg config.Config, dbx *sqlx.DB, rds *redis.Client) *Server {
	// repos
	messagesRepo := repository.NewMessagesRepository(dbx)
	simCardsRepo := repository.NewSimCardsRepository(dbx)

	// collaborators
	notifier := webhook.NewDispatcher(cfg.Webhooks)
	var gw gateway.Client = gateway.Stub{}
	if cfg.Gateway.BaseURL != "" {
		gw = gateway.NewHTTPClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Timeout)
	}

	// services
	messageSvc := messages.New(messagesRepo, notifier)
	simCardSvc := simcards.New(simCardsRepo)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())
	e.Validator = validate.New()
	e.HTTPErrorHandler = errorHandler

	registerMetricsOnce.Do(func() {
		metrics.MustRegister(prometheus.DefaultRegisterer)
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", healthHandler(dbx, cfg.MySQL.PingTimeout))

	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:      rds,
		DefaultRPS: cfg.RateLimit.RPS,
	})

	api := e.Group("/api", rlMW)
	api.POST("/messages", receiveMessageHandler(messageSvc))
	api.GET("/messages", listMessagesHandler(messagesRepo))
	api.PUT("/messages/:id/processed", markProcessedHandler(messageSvc))
	api.GET("/sim-cards", listSimCardsHandler(simCardsRepo))
	api.POST("/sim-cards", registerSimCardHandler(simCardSvc))
	api.GET("/simakohost/status", simakoStatusHandler())
	api.POST("/simakohost/send-sms", sendSMSHandler(gw))

	return &Server{e: e}
}

// errorHandler keeps unmatched routes and uncaught failures on the JSON
// contract without leaking internals.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	switch code {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		_ = c.JSON(http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
	default:
		_ = c.JSON(code, map[string]string{"error": http.StatusText(code)})
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
