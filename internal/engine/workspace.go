package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/danieljhkim/sidestatus/internal/daemon"
)

// ListWorkspaces returns every workspace the daemon knows about, in daemon order.
func (e *Engine) ListWorkspaces(ctx context.Context) (*ListWorkspacesResult, error) {
	list, err := e.api.ListWorkspaces(ctx)
	if err != nil {
		return nil, wrapDaemonErr(err)
	}
	return &ListWorkspacesResult{Workspaces: list.Workspaces}, nil
}

// CreateWorkspace registers the project directory with the daemon.
func (e *Engine) CreateWorkspace(ctx context.Context, req *CreateWorkspaceRequest) (*daemon.Workspace, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: workspace name is required", ErrValidation)
	}

	projectPath, err := e.projectPath(req.ProjectPath, req.CWD)
	if err != nil {
		return nil, fmt.Errorf("failed to determine project path: %w", err)
	}
	if projectPath == "" {
		return nil, fmt.Errorf("%w: project directory is required", ErrValidation)
	}

	ws, err := e.api.CreateWorkspace(ctx, daemon.CreateWorkspaceRequest{
		Name:         name,
		LocalRepoDir: projectPath,
	})
	if err != nil {
		return nil, wrapDaemonErr(err)
	}

	e.logger.Info("workspace created",
		zap.String("id", ws.ID),
		zap.String("local_repo_dir", ws.LocalRepoDir),
	)
	return ws, nil
}

// wrapDaemonErr marks transport-level failures with ErrDaemonUnavailable.
func wrapDaemonErr(err error) error {
	if errors.Is(err, daemon.ErrUnavailable) {
		return fmt.Errorf("%w: %w", ErrDaemonUnavailable, err)
	}
	return err
}
