package task

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/task-management-service/domain/task"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgSelectColumns renders the id as text so it scans into taskRecord.
const pgSelectColumns = colID + "::text, " + colTitle + ", " + colDescription + ", " +
	colStatus + ", " + colCreatedAt + ", " + colUpdatedAt

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps tasks in PostgreSQL through a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	db   dbtx
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres connects to databaseURL, verifies the connection and creates
// the tasks table if needed.
func OpenPostgres(ctx context.Context, databaseURL string, maxConns int) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return NewPostgresStore(pool), nil
}

// NewPostgresStore wraps an existing pool. The tasks table must already exist.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, db: pool}
}

func (s *PostgresStore) Driver() string {
	return "postgres"
}

// Insert saves a new task; created_at comes from the column default.
func (s *PostgresStore) Insert(ctx context.Context, title string, description *string, status domain.Status) (*domain.Task, error) {
	row := s.db.QueryRow(ctx,
		"INSERT INTO "+tableName+" (id, title, description, status) VALUES ($1, $2, $3, $4) RETURNING "+pgSelectColumns,
		uuid.New().String(), title, description, string(status),
	)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// Get retrieves a task by id.
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := s.db.QueryRow(ctx,
		"SELECT "+pgSelectColumns+" FROM "+tableName+" WHERE id = $1",
		id.String(),
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return t, nil
}

// Update applies patch to the task row; absent fields keep their value.
func (s *PostgresStore) Update(ctx context.Context, id uuid.UUID, patch domain.Patch) (*domain.Task, error) {
	var status *string
	if patch.Status != nil {
		v := string(*patch.Status)
		status = &v
	}

	row := s.db.QueryRow(ctx,
		"UPDATE "+tableName+" SET title = COALESCE($2, title), status = COALESCE($3, status), updated_at = now()"+
			" WHERE id = $1 RETURNING "+pgSelectColumns,
		id.String(), patch.Title, status,
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// Delete removes a task row.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM "+tableName+" WHERE id = $1", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of tasks ordered by creation time.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+pgSelectColumns+" FROM "+tableName+" ORDER BY created_at, id LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0, limit)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Count returns the number of stored tasks.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, "SELECT count(*) FROM "+tableName).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

// WithinTx runs fn inside a transaction. pgx.BeginFunc commits on success and
// rolls back on error or panic.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Repository) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&PostgresStore{pool: s.pool, db: tx})
	})
}

// Ping runs SELECT 1 against the database.
func (s *PostgresStore) Ping(ctx context.Context) error {
	var one int
	return s.pool.QueryRow(ctx, "SELECT 1").Scan(&one)
}

// Close releases every pooled connection.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var rec taskRecord
	if err := row.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	t, err := toDomain(rec)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
