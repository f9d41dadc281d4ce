package activity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/task-management-service/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// historySize bounds the in-memory activity feed.
const historySize = 100

// Entry is one recorded task change.
type Entry struct {
	TaskID    string    `json:"task_id"`
	Kind      string    `json:"kind"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityModule consumes task events and keeps a short feed of recent
// changes. It never writes back to the task store.
type ActivityModule struct {
	logger  types.Logger
	mu      sync.RWMutex
	entries []Entry
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)
var _ mono.HealthCheckableModule = (*ActivityModule)(nil)

func NewModule(logger types.Logger) *ActivityModule {
	return &ActivityModule{
		logger:  logger,
		entries: make([]Entry, 0, historySize),
	}
}

func (m *ActivityModule) Name() string {
	return "activity"
}

func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"TaskCreated", "TaskUpdated", "TaskDeleted"})
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.logger.Info("Task created", "task_id", event.TaskID, "title", event.Title, "status", event.Status)
	m.record(Entry{
		TaskID:    event.TaskID,
		Kind:      "created",
		Summary:   fmt.Sprintf("task '%s' created as %s", event.Title, event.Status),
		Timestamp: event.CreatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.logger.Info("Task updated", "task_id", event.TaskID, "changed", event.Changed, "status", event.Status)
	m.record(Entry{
		TaskID:    event.TaskID,
		Kind:      "updated",
		Summary:   fmt.Sprintf("task '%s' updated %v, now %s", event.Title, event.Changed, event.Status),
		Timestamp: event.UpdatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.logger.Info("Task deleted", "task_id", event.TaskID)
	m.record(Entry{
		TaskID:    event.TaskID,
		Kind:      "deleted",
		Summary:   fmt.Sprintf("task %s deleted", event.TaskID),
		Timestamp: event.DeletedAt,
	})
	return nil
}

// record appends e, dropping the oldest entry once the feed is full.
func (m *ActivityModule) record(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == historySize {
		copy(m.entries, m.entries[1:])
		m.entries = m.entries[:historySize-1]
	}
	m.entries = append(m.entries, e)
}

// recent returns the recorded entries, oldest first.
func (m *ActivityModule) recent() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

func (m *ActivityModule) Start(_ context.Context) error {
	m.logger.Info("Module started - listening for task events")
	return nil
}

func (m *ActivityModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Health reports the feed size and the most recent change.
func (m *ActivityModule) Health(_ context.Context) mono.HealthStatus {
	entries := m.recent()
	details := map[string]any{
		"recorded": len(entries),
	}
	if len(entries) > 0 {
		latest := entries[len(entries)-1]
		details["latest"] = latest.Summary
		details["latest_at"] = latest.Timestamp
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}
