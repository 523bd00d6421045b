package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/spec-kit/safety-roster/internal/config"
	"github.com/spec-kit/safety-roster/internal/domain"
	"github.com/spec-kit/safety-roster/internal/events"
)

// NotificationService logs status reports and raises alerts for serious injuries.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *retryablehttp.Client
	inflight   sync.WaitGroup
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.WebhookRetries
	client.HTTPClient.Timeout = cfg.WebhookTimeout()
	client.Logger = nil

	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     client,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventStaffStatusReported, n.handleStatusReported)
}

// Drain blocks until queued webhook deliveries finish.
func (n *NotificationService) Drain() {
	n.inflight.Wait()
}

func (n *NotificationService) handleStatusReported(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StaffStatusReportedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("StaffStatusReported",
		zap.String("staff_id", event.StaffID),
		zap.String("department", payload.Department),
		zap.String("status", string(payload.Status)))

	if payload.Status != domain.StatusSeriousInjury {
		return nil
	}
	n.logger.Warn("serious injury reported",
		zap.String("staff_id", event.StaffID),
		zap.String("name", payload.Name),
		zap.String("department", payload.Department),
		zap.String("location", payload.Location))
	n.sendWebhook(event)
	return nil
}

// sendWebhook delivers in the background so a slow endpoint never holds up a save.
func (n *NotificationService) sendWebhook(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	body, err := jsoniter.Marshal(event)
	if err != nil {
		n.logger.Error("encode webhook payload", zap.Error(err))
		return
	}

	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.cfg.WebhookTimeout()*time.Duration(n.cfg.WebhookRetries+1))
		defer cancel()

		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, body)
		if err != nil {
			n.logger.Error("build webhook request", zap.Error(err))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			n.logger.Warn("webhook delivery failed", zap.String("event_id", event.ID), zap.Error(err))
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			n.logger.Warn("webhook rejected", zap.String("event_id", event.ID), zap.Int("status", resp.StatusCode))
			return
		}
		n.logger.Debug("webhook delivered", zap.String("event_id", event.ID))
	}()
}
