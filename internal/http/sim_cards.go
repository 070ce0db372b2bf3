package http

import (
	"errors"
	"net/http"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/simako/simako-backend/internal/repository"
	"github.com/simako/simako-backend/internal/service/simcards"
)

type registerSimCardReq struct {
	SimID       string  `json:"sim_id"       validate:"required"`
	PhoneNumber string  `json:"phone_number" validate:"required"`
	Carrier     *string `json:"carrier"`
	IsActive    *bool   `json:"is_active"`
}

func registerSimCardHandler(svc *simcards.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req registerSimCardReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		card, err := svc.Register(c.Request().Context(), simcards.RegisterInput{
			SimID:       req.SimID,
			PhoneNumber: req.PhoneNumber,
			Carrier:     req.Carrier,
			IsActive:    req.IsActive,
		})
		if err != nil {
			if errors.Is(err, simcards.ErrAlreadyRegistered) {
				return c.JSON(http.StatusConflict, map[string]string{"error": "SIM card already registered"})
			}

			log.Errorf("sim card register failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
		}

		return c.JSON(http.StatusCreated, map[string]any{
			"status":   "ok",
			"sim_card": card,
		})
	}
}

// listSimCardsHandler returns every registered SIM. No pagination: the fleet
// of registered SIMs stays small, unlike messages.
func listSimCardsHandler(repo repository.SimCardsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		cards, err := repo.ListAll(c.Request().Context())
		if err != nil {
			c.Logger().Errorf("list sim cards failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
		}

		return c.JSON(http.StatusOK, map[string]any{"sim_cards": cards})
	}
}
