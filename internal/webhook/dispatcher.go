// Package webhook notifies subscriber URLs about ingested messages. Delivery
// is fire-and-forget: a failed subscriber is logged and never blocks or fails
// the ingest request.
package webhook

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/simako/simako-backend/internal/config"
	"github.com/simako/simako-backend/internal/logger"
	"github.com/simako/simako-backend/internal/model"
)

const (
	EventSMSReceived  = "sms_received"
	EventCallReceived = "call_received"
)

type payload struct {
	Event     string        `json:"event"`
	Timestamp time.Time     `json:"timestamp"`
	Data      model.Message `json:"data"`
}

type Dispatcher struct {
	client      *resty.Client
	subscribers []config.WebhookConfig
}

func NewDispatcher(subscribers []config.WebhookConfig) *Dispatcher {
	client := resty.New().
		SetTimeout(5*time.Second).
		SetHeader("Content-Type", "application/json")

	return &Dispatcher{client: client, subscribers: subscribers}
}

// MessageReceived fans the event out to every subscriber interested in it.
func (d *Dispatcher) MessageReceived(m model.Message) {
	event := EventSMSReceived
	if m.Kind == model.KindCall {
		event = EventCallReceived
	}

	for _, sub := range d.subscribers {
		if !wants(sub, event) {
			continue
		}
		go d.post(sub.URL, payload{Event: event, Timestamp: time.Now().UTC(), Data: m})
	}
}

func (d *Dispatcher) post(url string, p payload) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := d.client.R().SetContext(ctx).SetBody(p).Post(url)
	if err != nil {
		logger.Log.Warn("webhook delivery failed",
			zap.String("url", url), zap.String("event", p.Event), zap.Error(err))
		return
	}
	logger.Log.Debug("webhook delivered",
		zap.String("url", url), zap.String("event", p.Event), zap.Int("status", resp.StatusCode()))
}

func wants(sub config.WebhookConfig, event string) bool {
	if len(sub.Events) == 0 {
		return true
	}
	for _, e := range sub.Events {
		if e == event {
			return true
		}
	}
	return false
}
