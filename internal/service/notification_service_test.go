package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/recruitment-service/internal/config"
	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/events"
)

func TestNotificationHandlersLogEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	svc := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{EmailFrom: "noreply@example.com"})
	svc.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:        events.EventCandidateStatusChanged,
		CandidateID: "c1",
		Payload: events.CandidateTransitionPayload{
			Action:    domain.ActionReject,
			OldStatus: domain.CandidateStatusInProgress,
			NewStatus: domain.CandidateStatusRejected,
		},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if got := logs.FilterMessage("CandidateStatusChanged").Len(); got != 1 {
		t.Fatalf("expected one handler log, got %d", got)
	}
	if got := logs.FilterMessage("sendEmailNotificationStub").Len(); got != 1 {
		t.Fatalf("expected email stub log, got %d", got)
	}
	if got := logs.FilterMessage("sendWebhookNotificationStub").Len(); got != 0 {
		t.Fatalf("webhook stub should stay quiet without a url, got %d", got)
	}
}

func TestNotificationServiceWithoutDispatcher(t *testing.T) {
	svc := NewNotificationService(nil, zap.NewNop(), config.NotificationConfig{})
	svc.RegisterHandlers()
}
