package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"taskboard/internal/api/middleware"
	"taskboard/internal/app/service"
	"taskboard/internal/common"
	"taskboard/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(ts *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: ts}
}

// RegisterRoutes expects the authenticator to already be mounted on r; the
// delete route additionally requires the admin role.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listTasks)          // GET /api/tasks
	r.Post("/", h.createTask)        // POST /api/tasks
	r.Put("/{taskID}", h.updateTask) // PUT /api/tasks/{id}

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Delete("/{taskID}", h.deleteTask) // DELETE /api/tasks/{id}
	})
}

func (h *TaskHandler) listTasks(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	callerRole, _ := middleware.GetUserRoleFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}
	status := model.TaskStatus(r.URL.Query().Get("status"))

	result, err := h.taskService.ListTasks(r.Context(), callerID, callerRole, page, limit, status)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *TaskHandler) createTask(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), callerID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) updateTask(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	callerRole, _ := middleware.GetUserRoleFromContext(r.Context())
	taskID := chi.URLParam(r, "taskID")

	var req service.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), callerID, callerRole, taskID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) deleteTask(w http.ResponseWriter, r *http.Request) {
	callerRole, _ := middleware.GetUserRoleFromContext(r.Context())
	taskID := chi.URLParam(r, "taskID")

	if err := h.taskService.DeleteTask(r.Context(), callerRole, taskID); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
