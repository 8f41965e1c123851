// Package engine provides the core logic behind sidestatus commands.
//
// The engine sits between the CLI and the daemon client. Its central
// operation is Status: fetch the daemon's workspace list once, match the
// project path against it and classify the outcome. Workspace and task
// commands, and the polling Watch loop, are built on the same client.
package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/danieljhkim/sidestatus/internal/clock"
	"github.com/danieljhkim/sidestatus/internal/daemon"
	"github.com/danieljhkim/sidestatus/internal/gitx"
)

// WorkspaceFetcher fetches the daemon's workspace list.
type WorkspaceFetcher interface {
	ListWorkspaces(ctx context.Context) (*daemon.WorkspaceList, error)
}

// DaemonAPI is the part of the daemon client the engine uses.
type DaemonAPI interface {
	WorkspaceFetcher
	CreateWorkspace(ctx context.Context, req daemon.CreateWorkspaceRequest) (*daemon.Workspace, error)
	ListTasks(ctx context.Context, workspaceID string, statuses []daemon.TaskStatus) (*daemon.TaskList, error)
	CreateTask(ctx context.Context, workspaceID string, req daemon.TaskRequest) (*daemon.Task, error)
	GetTask(ctx context.Context, workspaceID, taskID string) (*daemon.Task, error)
	UpdateTask(ctx context.Context, workspaceID, taskID string, req daemon.TaskRequest) (*daemon.Task, error)
	DeleteTask(ctx context.Context, workspaceID, taskID string) error
}

// Engine orchestrates all sidestatus operations.
// It is the main API surface called by the CLI.
type Engine struct {
	api     DaemonAPI
	gitRepo gitx.GitRepo
	clock   clock.Clock
	logger  *zap.Logger
}

// New creates a new Engine with the given dependencies.
// A nil logger is replaced with a no-op logger.
func New(api DaemonAPI, gitRepo gitx.GitRepo, clk clock.Clock, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		api:     api,
		gitRepo: gitRepo,
		clock:   clk,
		logger:  logger,
	}
}

// projectPath resolves the project path for a request. An explicit path wins;
// otherwise the project root is derived from CWD. Empty means no project.
func (e *Engine) projectPath(explicit, cwd string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if cwd == "" {
		return "", nil
	}
	return gitx.ProjectRoot(e.gitRepo, cwd)
}
