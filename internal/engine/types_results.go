package engine

import (
	"time"

	"github.com/danieljhkim/sidestatus/internal/daemon"
)

// StatusResult represents the result of a status check.
type StatusResult struct {
	Classification

	// ProjectPath is the path that was matched; empty when there was no project.
	ProjectPath string `json:"projectPath"`

	// CheckedAt is when the check completed.
	CheckedAt time.Time `json:"checkedAt"`
}

// ListWorkspacesResult represents the daemon's workspaces.
type ListWorkspacesResult struct {
	Workspaces []daemon.Workspace `json:"workspaces"`
}

// ListTasksResult represents the tasks of one workspace.
type ListTasksResult struct {
	WorkspaceID string        `json:"workspaceId"`
	Tasks       []daemon.Task `json:"tasks"`
}
