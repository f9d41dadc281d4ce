package task

import (
	"time"

	domain "github.com/example/task-management-service/domain/task"
	"github.com/google/uuid"
)

const (
	tableName = "tasks"

	colID          = "id"
	colTitle       = "title"
	colDescription = "description"
	colStatus      = "status"
	colCreatedAt   = "created_at"
	colUpdatedAt   = "updated_at"
)

// postgresSchema creates the tasks table when it does not exist yet.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          UUID PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT,
	status      TEXT NOT NULL DEFAULT 'pending'
	            CHECK (status IN ('pending', 'in-progress', 'completed')),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ
)`

// taskRecord is the storage shape of a task row.
type taskRecord struct {
	ID          string     `gorm:"column:id;primaryKey;type:varchar(36)"`
	Title       string     `gorm:"column:title;not null"`
	Description *string    `gorm:"column:description"`
	Status      string     `gorm:"column:status;type:varchar(16);not null;default:pending"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null;default:(strftime('%Y-%m-%d %H:%M:%f','now'));autoCreateTime:false"`
	UpdatedAt   *time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

// TableName overrides the default GORM table name.
func (taskRecord) TableName() string {
	return tableName
}

func toDomain(r taskRecord) (domain.Task, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Task{}, err
	}
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return domain.Task{}, err
	}
	t := domain.Task{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Status:      status,
		CreatedAt:   r.CreatedAt.UTC(),
	}
	if r.UpdatedAt != nil {
		u := r.UpdatedAt.UTC()
		t.UpdatedAt = &u
	}
	return t, nil
}

func toRecord(t domain.Task) taskRecord {
	return taskRecord{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
