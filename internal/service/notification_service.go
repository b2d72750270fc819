package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/recruitment-service/internal/config"
	"github.com/spec-kit/recruitment-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events and returns the subscribed types.
func (n *NotificationService) RegisterHandlers() []events.EventType {
	if n.dispatcher == nil {
		return nil
	}
	subscriptions := []struct {
		eventType events.EventType
		handler   events.EventHandler
	}{
		{events.EventCandidateCreated, n.handleCandidateCreated},
		{events.EventCandidateStageChanged, n.handleCandidateStageChanged},
		{events.EventCandidateStatusChanged, n.handleCandidateStatusChanged},
		{events.EventInterviewScheduled, n.handleInterviewScheduled},
		{events.EventInterviewStatusChanged, n.handleInterviewStatusChanged},
	}
	subscribed := make([]events.EventType, 0, len(subscriptions))
	for _, sub := range subscriptions {
		n.dispatcher.Subscribe(sub.eventType, sub.handler)
		subscribed = append(subscribed, sub.eventType)
	}
	return subscribed
}

func (n *NotificationService) handleCandidateCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("CandidateCreated", zap.String("candidate_id", event.CandidateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCandidateStageChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("CandidateStageChanged", zap.String("candidate_id", event.CandidateID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCandidateStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("CandidateStatusChanged", zap.String("candidate_id", event.CandidateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleInterviewScheduled(ctx context.Context, event events.Event) error {
	n.logger.Info("InterviewScheduled", zap.String("candidate_id", event.CandidateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleInterviewStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("InterviewStatusChanged", zap.String("candidate_id", event.CandidateID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("candidate_id", event.CandidateID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("candidate_id", event.CandidateID),
		zap.String("event_type", string(event.Type)))
}
