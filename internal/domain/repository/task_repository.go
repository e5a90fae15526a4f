package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/common"
	"taskboard/internal/domain/model"
)

// TaskFilter narrows List and Count to a visibility scope and an optional
// status. Zero values mean "no constraint". The filter is applied in SQL so
// that counts and page boundaries are computed against the filtered set.
type TaskFilter struct {
	OwnerID string
	Status  model.TaskStatus
}

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TaskFilter, limit, offset int) ([]model.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int, error)
}

type pgTaskRepository struct {
	db *sql.DB
}

func NewPgTaskRepository(db *sql.DB) TaskRepository {
	return &pgTaskRepository{db: db}
}

func (r *pgTaskRepository) Create(ctx context.Context, t *model.Task) error {
	query := `INSERT INTO tasks (id, title, description, status, user_id)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.Title, t.Description, t.Status, t.UserID)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	query := `
        SELECT t.id, t.title, t.description, t.status, t.user_id,
               u.name as owner_name, u.email as owner_email,
               t.created_at, t.updated_at
        FROM tasks t
        LEFT JOIN users u ON t.user_id = u.id
        WHERE t.id = $1`

	task := &model.Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.UserID,
		&task.OwnerName, &task.OwnerEmail,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTaskRepository.FindByID: %w", err)
	}
	return task, nil
}

func (r *pgTaskRepository) Update(ctx context.Context, t *model.Task) error {
	query := `UPDATE tasks SET
                title = $1, description = $2, status = $3, updated_at = CURRENT_TIMESTAMP
              WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, t.Title, t.Description, t.Status, t.ID)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Update rows affected: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete rows affected: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

// buildFilter renders filter into a WHERE clause shared by List and Count.
func buildFilter(filter TaskFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argID := 1

	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("t.user_id = $%d", argID))
		args = append(args, filter.OwnerID)
		argID++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argID))
		args = append(args, filter.Status)
		argID++
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *pgTaskRepository) List(ctx context.Context, filter TaskFilter, limit, offset int) ([]model.Task, error) {
	var query strings.Builder
	query.WriteString(`
        SELECT t.id, t.title, t.description, t.status, t.user_id,
               u.name as owner_name, u.email as owner_email,
               t.created_at, t.updated_at
        FROM tasks t
        LEFT JOIN users u ON t.user_id = u.id`)

	whereClause, args := buildFilter(filter)
	query.WriteString(whereClause)

	query.WriteString(fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository.List query: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID,
			&t.OwnerName, &t.OwnerEmail, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgTaskRepository.List scan: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTaskRepository.List rows.Err: %w", err)
	}
	return tasks, nil
}

func (r *pgTaskRepository) Count(ctx context.Context, filter TaskFilter) (int, error) {
	var query strings.Builder
	query.WriteString(`SELECT COUNT(*) FROM tasks t`)

	whereClause, args := buildFilter(filter)
	query.WriteString(whereClause)

	var total int
	if err := r.db.QueryRowContext(ctx, query.String(), args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("pgTaskRepository.Count: %w", err)
	}
	return total, nil
}
