package mockd

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/danieljhkim/sidestatus/internal/daemon"
)

type handlers struct {
	cfg   Config
	store *Store
}

// listWorkspaces handles GET /api/v1/workspaces/
func (h *handlers) listWorkspaces(c Context) error {
	if h.cfg.FailStatus != 0 {
		c.L.Debug("injecting failure", zap.Int("status", h.cfg.FailStatus))
		return c.Error(h.cfg.FailStatus, "injected failure")
	}

	return c.ok(daemon.WorkspaceList{Workspaces: h.store.Workspaces()})
}

// createWorkspace handles POST /api/v1/workspaces
func (h *handlers) createWorkspace(c Context) error {
	var req daemon.CreateWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return c.badRequest("invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.badRequest("name is required")
	}
	if strings.TrimSpace(req.LocalRepoDir) == "" {
		return c.badRequest("localRepoDir is required")
	}

	ws, err := h.store.Create(req.Name, req.LocalRepoDir)
	if errors.Is(err, ErrAlreadyExists) {
		return c.badRequest(err.Error())
	}
	if err != nil {
		c.L.Error("failed to create workspace", zap.Error(err))
		return c.Error(http.StatusInternalServerError, "failed to create workspace")
	}

	c.L.Info("workspace created",
		zap.String("id", ws.ID),
		zap.String("local_repo_dir", ws.LocalRepoDir),
	)
	return c.ok(map[string]any{"workspace": ws})
}

// listTasks handles GET /api/v1/workspaces/:id/tasks
func (h *handlers) listTasks(c Context) error {
	var statuses []daemon.TaskStatus
	if raw := c.QueryParam("statuses"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			st, err := daemon.ParseTaskStatus(strings.TrimSpace(name))
			if err != nil {
				return c.badRequest(err.Error())
			}
			statuses = append(statuses, st)
		}
	}

	tasks, err := h.store.Tasks(c.Param("id"), statuses)
	if errors.Is(err, ErrNotFound) {
		return c.notFound(err.Error())
	}
	if err != nil {
		c.L.Error("failed to list tasks", zap.Error(err))
		return c.Error(http.StatusInternalServerError, "failed to list tasks")
	}
	return c.ok(daemon.TaskList{Tasks: tasks})
}

// createTask handles POST /api/v1/workspaces/:id/tasks
func (h *handlers) createTask(c Context) error {
	req, err := bindTaskRequest(c, false)
	if err != nil {
		return c.badRequest(err.Error())
	}

	task, err := h.store.CreateTask(c.Param("id"), req)
	if err != nil {
		return h.taskError(c, err)
	}

	c.L.Info("task created",
		zap.String("id", task.ID),
		zap.String("workspace_id", task.WorkspaceID),
	)
	return c.ok(map[string]any{"task": task})
}

// getTask handles GET /api/v1/workspaces/:id/tasks/:taskId
func (h *handlers) getTask(c Context) error {
	task, err := h.store.GetTask(c.Param("id"), c.Param("taskId"))
	if err != nil {
		return h.taskError(c, err)
	}
	return c.ok(map[string]any{"task": task})
}

// updateTask handles PUT /api/v1/workspaces/:id/tasks/:taskId
func (h *handlers) updateTask(c Context) error {
	req, err := bindTaskRequest(c, true)
	if err != nil {
		return c.badRequest(err.Error())
	}

	task, err := h.store.UpdateTask(c.Param("id"), c.Param("taskId"), req)
	if err != nil {
		return h.taskError(c, err)
	}
	return c.ok(map[string]any{"task": task})
}

// deleteTask handles DELETE /api/v1/workspaces/:id/tasks/:taskId
func (h *handlers) deleteTask(c Context) error {
	if err := h.store.DeleteTask(c.Param("id"), c.Param("taskId")); err != nil {
		return h.taskError(c, err)
	}
	return c.ok(map[string]any{})
}

// bindTaskRequest decodes and checks a task body. A full update must carry
// every field; create leaves the defaults to the store.
func bindTaskRequest(c Context, full bool) (daemon.TaskRequest, error) {
	var req daemon.TaskRequest
	if err := c.Bind(&req); err != nil {
		return req, errors.New("invalid request body")
	}
	if strings.TrimSpace(req.Description) == "" {
		return req, errors.New("description is required")
	}
	if req.Status != "" || full {
		if _, err := daemon.ParseTaskStatus(string(req.Status)); err != nil {
			return req, err
		}
	}
	if req.AgentType != "" || full {
		if _, err := daemon.ParseAgentType(string(req.AgentType)); err != nil {
			return req, err
		}
	}
	return req, nil
}

func (h *handlers) taskError(c Context, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrTaskNotFound) {
		return c.notFound(err.Error())
	}
	c.L.Error("task operation failed", zap.Error(err))
	return c.Error(http.StatusInternalServerError, "task operation failed")
}

// health handles GET /api/v1/health
func (h *handlers) health(c Context) error {
	return c.ok(map[string]string{"status": "ok"})
}
