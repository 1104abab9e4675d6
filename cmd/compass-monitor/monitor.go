package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sellerkit/compass/pkg/eventbus"
	"github.com/sellerkit/compass/pkg/events"
	"github.com/sellerkit/compass/pkg/otelhelper"
	"github.com/sellerkit/compass/pkg/persistence"
	"github.com/sellerkit/compass/pkg/services"
)

// Monitor consumes execution lifecycle events and logs the affected
// composition's roll-up after every terminal transition. It gives operators
// a live view of batch progress without polling the API.
type Monitor struct {
	id          string
	eventBus    eventbus.EventBus
	composition *services.Composition
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewMonitor creates a new Monitor instance.
func NewMonitor(
	id string,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Monitor {
	return &Monitor{
		id:          id,
		eventBus:    eventBus,
		composition: services.NewComposition(persistence, eventBus),
		tracer:      tracer,
		logger:      logger.With("module", "monitor"),
	}
}

// Start registers the event handlers and blocks until the context is
// cancelled or a termination signal arrives.
func (m *Monitor) Start(ctx context.Context) error {
	mCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.registerHandlers()

	if err := m.eventBus.Subscribe(mCtx); err != nil {
		return err
	}

	m.logger.Info("Monitor started, consuming execution events")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		m.logger.Info("Received signal, shutting down", "signal", sig)
	case <-mCtx.Done():
	}

	return nil
}

func (m *Monitor) registerHandlers() {
	_ = m.eventBus.Handle(events.ExecutionStartedEvent, m.onStarted)
	_ = m.eventBus.Handle(events.ExecutionCompletedEvent, m.onCompleted)
	_ = m.eventBus.Handle(events.ExecutionFailedEvent, m.onFailed)
	_ = m.eventBus.Handle(events.CompositionDeletedEvent, m.onCompositionDeleted)
}

func (m *Monitor) onStarted(ctx context.Context, event any) error {
	started, ok := event.(*events.ExecutionStarted)
	if !ok {
		return nil
	}

	m.logger.Info("Execution started",
		"execution_id", started.ExecutionID,
		"workflow_id", started.WorkflowID)

	return nil
}

func (m *Monitor) onCompleted(ctx context.Context, event any) error {
	completed, ok := event.(*events.ExecutionCompleted)
	if !ok {
		return nil
	}

	m.logger.Info("Execution completed",
		"execution_id", completed.ExecutionID,
		"duration_ms", completed.DurationMs)

	return m.logRollup(ctx, completed.CompositionID, completed.ExecutionID)
}

func (m *Monitor) onFailed(ctx context.Context, event any) error {
	failed, ok := event.(*events.ExecutionFailed)
	if !ok {
		return nil
	}

	m.logger.Warn("Execution failed",
		"execution_id", failed.ExecutionID,
		"error", failed.Error)

	return m.logRollup(ctx, failed.CompositionID, failed.ExecutionID)
}

func (m *Monitor) onCompositionDeleted(ctx context.Context, event any) error {
	deleted, ok := event.(*events.CompositionDeleted)
	if !ok {
		return nil
	}

	m.logger.Info("Composition deleted",
		"composition_id", deleted.CompositionID,
		"orphaned_count", deleted.OrphanedCount)

	return nil
}

// logRollup recomputes and logs the composition summary after a terminal
// transition. Standalone executions have no roll-up to report.
func (m *Monitor) logRollup(ctx context.Context, compositionID *string, executionID string) error {
	if compositionID == nil {
		return nil
	}

	spanCtx, span := otelhelper.StartSpan(ctx, m.tracer, "monitor.rollup",
		attribute.String(otelhelper.CompositionIDKey, *compositionID),
		attribute.String(otelhelper.ExecutionIDKey, executionID),
	)
	defer span.End()

	summary, err := m.composition.Summarize(spanCtx, *compositionID)
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	m.logger.Info("Composition roll-up",
		"composition_id", summary.CompositionID,
		"overall_status", summary.OverallStatus,
		"total", summary.TotalExecutions,
		"completed", summary.CompletedCount,
		"failed", summary.FailedCount,
		"running", summary.RunningCount,
		"pending", summary.PendingCount)

	return nil
}
