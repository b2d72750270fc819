package worker

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/recruitment-service/internal/config"
	"github.com/spec-kit/recruitment-service/internal/events"
	"github.com/spec-kit/recruitment-service/internal/service"
)

func TestStartNotificationWorkerLogsSubscriptions(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	svc := service.NewNotificationService(events.NewInMemoryDispatcher(logger), logger, config.NotificationConfig{})

	StartNotificationWorker(svc, logger)

	entries := logs.FilterMessage("notification handlers registered").All()
	if len(entries) != 1 {
		t.Fatalf("expected one registration entry, got %d", len(entries))
	}
	names, ok := entries[0].ContextMap()["events"].([]interface{})
	if !ok || len(names) != 5 {
		t.Fatalf("unexpected events field %v", entries[0].ContextMap()["events"])
	}
}

func TestStartNotificationWorkerNilService(t *testing.T) {
	StartNotificationWorker(nil, zap.NewNop())
}
