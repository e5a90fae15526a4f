package service

import (
	"context"
	"fmt"

	"taskboard/internal/common"
	"taskboard/internal/domain/model"
	"taskboard/internal/domain/repository"

	"github.com/google/uuid"
)

type TaskService struct {
	taskRepo repository.TaskRepository
}

func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

type CreateTaskRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      model.TaskStatus `json:"status"`
}

// UpdateTaskRequest carries partial updates. A nil field means "leave as
// is"; a non-nil empty description is stored as empty. Titles may not be
// empty, so the omitted/empty distinction matters only for the description.
type UpdateTaskRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Status      *model.TaskStatus `json:"status,omitempty"`
}

// TaskPage is one page of the caller's visible tasks.
type TaskPage struct {
	Tasks       []model.Task `json:"tasks"`
	CurrentPage int          `json:"currentPage"`
	TotalPages  int          `json:"totalPages"`
	TotalTasks  int          `json:"totalTasks"`
}

// CreateTask creates a task owned by the caller. The owner is always the
// authenticated caller; any owner supplied in the request body is ignored.
func (s *TaskService) CreateTask(ctx context.Context, callerID string, req CreateTaskRequest) (*model.Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required: %w", common.ErrValidation)
	}
	status := req.Status
	if status == "" {
		status = model.StatusPending
	}
	if !model.ValidTaskStatus(status) {
		return nil, fmt.Errorf("status must be %q or %q: %w", model.StatusPending, model.StatusCompleted, common.ErrValidation)
	}

	task := &model.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		UserID:      callerID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// Re-read so the response carries timestamps and the owner projection.
	created, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created task: %w", err)
	}
	return created, nil
}

// UpdateTask applies a partial update. Existence is checked before
// ownership: a caller probing a nonexistent id gets ErrNotFound, never
// ErrForbidden, regardless of role.
func (s *TaskService) UpdateTask(ctx context.Context, callerID, callerRole, taskID string, req UpdateTaskRequest) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err // common.ErrNotFound or wrapped persistence error
	}

	if task.UserID != callerID && callerRole != model.RoleAdmin {
		return nil, fmt.Errorf("not authorized to update this task: %w", common.ErrForbidden)
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("title cannot be empty: %w", common.ErrValidation)
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		if !model.ValidTaskStatus(*req.Status) {
			return nil, fmt.Errorf("status must be %q or %q: %w", model.StatusPending, model.StatusCompleted, common.ErrValidation)
		}
		task.Status = *req.Status
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated task: %w", err)
	}
	return updated, nil
}

// DeleteTask removes a task. Only admins may delete; ownership grants no
// delete rights. The role check runs before the existence check, matching
// the admin-only route group.
func (s *TaskService) DeleteTask(ctx context.Context, callerRole, taskID string) error {
	if callerRole != model.RoleAdmin {
		return fmt.Errorf("admin role required to delete tasks: %w", common.ErrForbidden)
	}
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return err
	}
	return nil
}

// ListTasks returns one page of the tasks visible to the caller, newest
// first. Admins see every task; members see only their own. The status
// filter narrows the scope before pagination, so totals and page
// boundaries always describe the filtered set.
func (s *TaskService) ListTasks(ctx context.Context, callerID, callerRole string, page, pageSize int, status model.TaskStatus) (*TaskPage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if status != "" && !model.ValidTaskStatus(status) {
		return nil, fmt.Errorf("status must be %q or %q: %w", model.StatusPending, model.StatusCompleted, common.ErrValidation)
	}

	filter := repository.TaskFilter{Status: status}
	if callerRole != model.RoleAdmin {
		filter.OwnerID = callerID
	}

	total, err := s.taskRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	offset := (page - 1) * pageSize
	tasks, err := s.taskRepo.List(ctx, filter, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &TaskPage{
		Tasks:       tasks,
		CurrentPage: page,
		TotalPages:  (total + pageSize - 1) / pageSize,
		TotalTasks:  total,
	}, nil
}
