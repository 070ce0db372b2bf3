package messages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/simako/simako-backend/internal/logger"
	"github.com/simako/simako-backend/internal/metrics"
	"github.com/simako/simako-backend/internal/model"
	"github.com/simako/simako-backend/internal/repository"
	"github.com/simako/simako-backend/internal/util"
)

// Bounds on the open metadata map, enforced before any write.
const (
	MaxMetadataKeys  = 16
	MaxMetadataBytes = 4096
)

var (
	ErrNotFound         = errors.New("message not found")
	ErrMetadataTooLarge = errors.New("metadata exceeds size limits")
)

// Notifier is told about every ingested message. Implementations must not
// block the ingest path.
type Notifier interface {
	MessageReceived(m model.Message)
}

// Service owns message ingestion and the processed flip.
type Service struct {
	repo     repository.MessagesRepository
	notifier Notifier
}

// New constructs the message service. notifier may be nil.
func New(repo repository.MessagesRepository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// IngestInput is a validated inbound SMS/call record.
type IngestInput struct {
	SimID     string
	Kind      model.MessageKind
	From      string
	To        string
	Body      string
	Timestamp *time.Time
	Metadata  model.Metadata
}

// Ingest assigns server-side fields, persists the record, and returns the
// stored message. One durable write; validation failures leave no state.
func (s *Service) Ingest(ctx context.Context, in IngestInput) (*model.Message, error) {
	if err := checkMetadata(in.Metadata); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ts := now
	if in.Timestamp != nil {
		ts = in.Timestamp.UTC()
	}
	meta := in.Metadata
	if meta == nil {
		meta = model.Metadata{}
	}

	msg := model.Message{
		ID:        util.NewID(),
		SimID:     in.SimID,
		Kind:      in.Kind,
		From:      in.From,
		To:        in.To,
		Body:      in.Body,
		Timestamp: ts,
		Processed: false,
		Metadata:  meta,
		CreatedAt: now,
	}

	if err := s.repo.Insert(ctx, msg); err != nil {
		logger.Log.Error("message insert failed",
			zap.String("op", "insert"), zap.String("table", "messages"), zap.Error(err))
		return nil, err
	}

	metrics.MessagesIngested.WithLabelValues(msg.Kind.String()).Inc()
	if s.notifier != nil {
		s.notifier.MessageReceived(msg)
	}

	return &msg, nil
}

// MarkProcessed flips the processed flag and stamps processed_at. Re-invoking
// on an already-processed message re-stamps processed_at.
func (s *Service) MarkProcessed(ctx context.Context, id string) (*model.Message, error) {
	at := time.Now().UTC()

	ok, err := s.repo.MarkProcessed(ctx, id, at)
	if err != nil {
		logger.Log.Error("mark processed failed",
			zap.String("op", "update"), zap.String("table", "messages"), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrNotFound
	}
	return msg, nil
}

func checkMetadata(m model.Metadata) error {
	if len(m) == 0 {
		return nil
	}
	if len(m) > MaxMetadataKeys {
		return fmt.Errorf("%w: %d keys", ErrMetadataTooLarge, len(m))
	}
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("metadata not serializable: %w", err)
	}
	if len(b) > MaxMetadataBytes {
		return fmt.Errorf("%w: %d bytes", ErrMetadataTooLarge, len(b))
	}
	return nil
}
