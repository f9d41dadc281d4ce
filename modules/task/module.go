package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-management-service/config"
	"github.com/example/task-management-service/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// TaskModule owns the task store and exposes task use cases as
// request-reply services.
type TaskModule struct {
	cfg      *config.Config
	store    Store
	svc      *Service
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.EventBusAwareModule = (*TaskModule)(nil)

// NewModule creates a TaskModule that opens its store from cfg on Start.
func NewModule(cfg *config.Config, logger types.Logger) *TaskModule {
	return &TaskModule{
		cfg:    cfg,
		logger: logger,
	}
}

// NewModuleWithStore creates a TaskModule over an already open store.
func NewModuleWithStore(store Store, logger types.Logger) *TaskModule {
	return &TaskModule{
		store:  store,
		svc:    NewService(store),
		logger: logger,
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetEventBus receives the event bus used to publish lifecycle events.
func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// RegisterServices registers the task request-reply services.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreate, json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreate, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGet, json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGet, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceList, json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceList, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdate, json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUpdate, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceDelete, json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceDelete, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceHealth, json.Unmarshal, json.Marshal, m.checkHealth,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceHealth, err)
	}

	m.logger.Info("Registered services", "services", "services.task.{create,get,list,update,delete,health}")
	return nil
}

// Start opens the configured store unless one was injected.
func (m *TaskModule) Start(ctx context.Context) error {
	if m.store == nil {
		if m.cfg == nil {
			return fmt.Errorf("task module requires a config or a store")
		}
		store, err := openStore(ctx, m.cfg)
		if err != nil {
			return err
		}
		m.store = store
		m.svc = NewService(store)
	}

	if m.eventBus == nil {
		m.logger.Warn("eventBus not set, events will not be published")
	}
	m.logger.Info("Task module started", "driver", m.store.Driver())
	return nil
}

// Stop closes the store.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Close(); err != nil {
		return err
	}
	m.logger.Info("Task module stopped")
	return nil
}

// Health reports whether the store answers a round trip.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}
	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.store.Driver(),
		},
	}
}

func openStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	case config.DriverSQLite:
		return OpenSQLite(cfg.DBPath, cfg.DBDebug)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}
