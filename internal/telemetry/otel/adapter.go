package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"talent-screen/backend/internal/telemetry"
	"talent-screen/backend/internal/telemetry/domain"
)

// NewEventEmitter returns an EventEmitter that sends events as OTel log records via the given LoggerProvider.
// If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger("talentscreen.telemetry")}
}

// NewEventEmitterWithLogger returns an EventEmitter over the given OTel logger. For tests.
func NewEventEmitterWithLogger(logger otellog.Logger) telemetry.EventEmitter {
	return &otelEmitter{logger: logger}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *domain.Event) error { return nil }

type otelEmitter struct {
	logger otellog.Logger
}

// Emit converts the telemetry event to an OTel log record and emits it. Best-effort; errors are logged.
func (e *otelEmitter) Emit(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	if !event.CreatedAt.IsZero() {
		rec.SetTimestamp(event.CreatedAt)
	}
	if len(event.Metadata) > 0 {
		rec.SetBody(otellog.BytesValue(event.Metadata))
	}
	if event.UserID != "" {
		rec.AddAttributes(otellog.String("user_id", event.UserID))
	}
	if event.EventType != "" {
		rec.AddAttributes(otellog.String("event_type", event.EventType))
	}
	if event.Source != "" {
		rec.AddAttributes(otellog.String("source", event.Source))
	}
	if event.IP != "" {
		rec.AddAttributes(otellog.String("ip", event.IP))
	}
	if rec.Timestamp().IsZero() {
		rec.SetTimestamp(time.Now().UTC())
	}
	e.logger.Emit(ctx, rec)
	return nil
}
