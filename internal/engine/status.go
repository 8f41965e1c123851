package engine

import (
	"context"

	"go.uber.org/zap"
)

// Resolve performs one workspace status check: a single fetch followed by
// Classify. Every fetch failure collapses to DaemonUnavailable.
func Resolve(ctx context.Context, fetcher WorkspaceFetcher, projectPath string) Classification {
	c, _ := resolve(ctx, fetcher, projectPath)
	return c
}

// resolve is Resolve plus the fetch failure behind a DaemonUnavailable result.
func resolve(ctx context.Context, fetcher WorkspaceFetcher, projectPath string) (Classification, error) {
	list, err := fetcher.ListWorkspaces(ctx)
	if err != nil {
		return Classify(nil, projectPath), err
	}
	return Classify(list, projectPath), nil
}

// Status resolves the workspace status of the requested project.
// It never fails: an unreachable daemon is reported as DaemonUnavailable and
// an undeterminable project path is treated as no project.
func (e *Engine) Status(ctx context.Context, req *StatusRequest) *StatusResult {
	projectPath, err := e.projectPath(req.ProjectPath, req.CWD)
	if err != nil {
		e.logger.Debug("could not determine project path",
			zap.String("cwd", req.CWD),
			zap.Error(err),
		)
		projectPath = ""
	}

	classification, cause := resolve(ctx, e.api, projectPath)
	if cause != nil {
		e.logger.Debug("workspace list unavailable", zap.Error(cause))
	}

	e.logger.Debug("workspace status resolved",
		zap.Stringer("kind", classification.Kind),
		zap.String("workspace_id", classification.WorkspaceID),
		zap.String("project_path", projectPath),
	)

	return &StatusResult{
		Classification: classification,
		ProjectPath:    projectPath,
		CheckedAt:      e.clock.Now(),
	}
}
