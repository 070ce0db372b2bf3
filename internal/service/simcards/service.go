package simcards

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/simako/simako-backend/internal/logger"
	"github.com/simako/simako-backend/internal/metrics"
	"github.com/simako/simako-backend/internal/model"
	"github.com/simako/simako-backend/internal/repository"
	"github.com/simako/simako-backend/internal/util"
)

var ErrAlreadyRegistered = errors.New("SIM card already registered")

// Service owns SIM card registration.
type Service struct {
	repo repository.SimCardsRepository
}

func New(repo repository.SimCardsRepository) *Service {
	return &Service{repo: repo}
}

// RegisterInput is a validated registration payload.
type RegisterInput struct {
	SimID       string
	PhoneNumber string
	Carrier     *string
	IsActive    *bool
}

// Register persists a new SIM card. Duplicate sim_id is rejected, never
// merged; the unique key on sim_id makes this atomic under concurrent
// registration.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.SimCard, error) {
	now := time.Now().UTC()

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	card := model.SimCard{
		ID:          util.NewID(),
		SimID:       in.SimID,
		PhoneNumber: in.PhoneNumber,
		Carrier:     in.Carrier,
		IsActive:    active,
		CreatedAt:   now,
		LastSeen:    now,
	}

	err := s.repo.Insert(ctx, card)
	if errors.Is(err, repository.ErrDuplicateSimID) {
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		logger.Log.Error("sim card insert failed",
			zap.String("op", "insert"), zap.String("table", "sim_cards"), zap.Error(err))
		return nil, err
	}

	metrics.SimRegistrations.Inc()
	return &card, nil
}
