package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/danieljhkim/sidestatus/internal/daemon"
)

const (
	defaultTaskStatus = daemon.TaskStatusToDo
	defaultAgentType  = daemon.AgentTypeLLM
	defaultFlowType   = "basic_dev"
)

// ListTasks lists the tasks of a workspace. Without an explicit workspace id
// it uses the workspace bound to the project.
func (e *Engine) ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResult, error) {
	workspaceID, err := e.workspaceID(ctx, req.WorkspaceID, req.ProjectPath, req.CWD)
	if err != nil {
		return nil, err
	}

	list, err := e.api.ListTasks(ctx, workspaceID, req.Statuses)
	if err != nil {
		return nil, wrapDaemonErr(err)
	}
	return &ListTasksResult{WorkspaceID: workspaceID, Tasks: list.Tasks}, nil
}

// CreateTask adds a task to a workspace.
func (e *Engine) CreateTask(ctx context.Context, req *CreateTaskRequest) (*daemon.Task, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: task description is required", ErrValidation)
	}

	taskReq := daemon.TaskRequest{
		Description: description,
		Status:      req.Status,
		AgentType:   req.AgentType,
		FlowType:    strings.TrimSpace(req.FlowType),
	}
	if taskReq.Status == "" {
		taskReq.Status = defaultTaskStatus
	}
	if taskReq.AgentType == "" {
		taskReq.AgentType = defaultAgentType
	}
	if taskReq.FlowType == "" {
		taskReq.FlowType = defaultFlowType
	}

	workspaceID, err := e.workspaceID(ctx, req.WorkspaceID, req.ProjectPath, req.CWD)
	if err != nil {
		return nil, err
	}

	task, err := e.api.CreateTask(ctx, workspaceID, taskReq)
	if err != nil {
		return nil, wrapDaemonErr(err)
	}

	e.logger.Info("task created",
		zap.String("id", task.ID),
		zap.String("workspace_id", workspaceID),
	)
	return task, nil
}

// GetTask fetches one task.
func (e *Engine) GetTask(ctx context.Context, ref *TaskRef) (*daemon.Task, error) {
	workspaceID, err := e.taskWorkspace(ctx, ref)
	if err != nil {
		return nil, err
	}

	task, err := e.api.GetTask(ctx, workspaceID, ref.TaskID)
	if err != nil {
		return nil, wrapDaemonErr(err)
	}
	return task, nil
}

// UpdateTask reads the task, applies the requested changes and writes the
// whole task back, since the daemon replaces every field on update.
func (e *Engine) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*daemon.Task, error) {
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return nil, fmt.Errorf("%w: task description must not be empty", ErrValidation)
	}

	workspaceID, err := e.taskWorkspace(ctx, &req.TaskRef)
	if err != nil {
		return nil, err
	}

	current, err := e.api.GetTask(ctx, workspaceID, req.TaskID)
	if err != nil {
		return nil, wrapDaemonErr(err)
	}

	taskReq := daemon.TaskRequest{
		Description: current.Description,
		Status:      current.Status,
		AgentType:   current.AgentType,
		FlowType:    current.FlowType,
	}
	if req.Description != nil {
		taskReq.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		taskReq.Status = *req.Status
	}
	if req.AgentType != nil {
		taskReq.AgentType = *req.AgentType
	}
	if req.FlowType != nil {
		taskReq.FlowType = *req.FlowType
	}

	task, err := e.api.UpdateTask(ctx, workspaceID, req.TaskID, taskReq)
	if err != nil {
		return nil, wrapDaemonErr(err)
	}

	e.logger.Info("task updated",
		zap.String("id", task.ID),
		zap.String("status", string(task.Status)),
	)
	return task, nil
}

// DeleteTask removes one task.
func (e *Engine) DeleteTask(ctx context.Context, ref *TaskRef) error {
	workspaceID, err := e.taskWorkspace(ctx, ref)
	if err != nil {
		return err
	}

	if err := e.api.DeleteTask(ctx, workspaceID, ref.TaskID); err != nil {
		return wrapDaemonErr(err)
	}

	e.logger.Info("task deleted",
		zap.String("id", ref.TaskID),
		zap.String("workspace_id", workspaceID),
	)
	return nil
}

func (e *Engine) taskWorkspace(ctx context.Context, ref *TaskRef) (string, error) {
	if strings.TrimSpace(ref.TaskID) == "" {
		return "", fmt.Errorf("%w: task id is required", ErrValidation)
	}
	return e.workspaceID(ctx, ref.WorkspaceID, ref.ProjectPath, ref.CWD)
}

// workspaceID returns explicit when set, otherwise the id of the workspace
// bound to the project.
func (e *Engine) workspaceID(ctx context.Context, explicit, projectPath, cwd string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	status := e.Status(ctx, &StatusRequest{ProjectPath: projectPath, CWD: cwd})
	switch status.Kind {
	case DaemonUnavailable:
		return "", ErrDaemonUnavailable
	case NoWorkspace:
		if status.ProjectPath == "" {
			return "", ErrNoWorkspace
		}
		return "", fmt.Errorf("%w: %s", ErrNoWorkspace, status.ProjectPath)
	}
	return status.WorkspaceID, nil
}
