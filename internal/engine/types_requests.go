package engine

import (
	"time"

	"github.com/danieljhkim/sidestatus/internal/daemon"
)

// StatusRequest represents a request for workspace status.
type StatusRequest struct {
	// ProjectPath is matched against workspace directories as-is. When empty,
	// the project path is derived from CWD.
	ProjectPath string

	// CWD is the current working directory. When both fields are empty the
	// check runs without a project path.
	CWD string
}

// CreateWorkspaceRequest represents a request to register the project with the daemon.
type CreateWorkspaceRequest struct {
	// Name is the workspace display name (required)
	Name string

	// ProjectPath is the directory to bind; derived from CWD when empty
	ProjectPath string

	// CWD is the current working directory
	CWD string
}

// ListTasksRequest represents a request to list a workspace's tasks.
type ListTasksRequest struct {
	// WorkspaceID selects the workspace; when empty the workspace found for
	// the project is used.
	WorkspaceID string

	// ProjectPath and CWD locate the project when WorkspaceID is empty.
	ProjectPath string
	CWD         string

	// Statuses filters tasks; empty means all.
	Statuses []daemon.TaskStatus
}

// TaskRef selects one task. The workspace is resolved the same way as for
// ListTasksRequest.
type TaskRef struct {
	WorkspaceID string
	ProjectPath string
	CWD         string

	// TaskID is required.
	TaskID string
}

// CreateTaskRequest represents a request to add a task to a workspace.
type CreateTaskRequest struct {
	WorkspaceID string
	ProjectPath string
	CWD         string

	// Description is required.
	Description string

	// Status, AgentType and FlowType default to to_do, llm and basic_dev.
	Status    daemon.TaskStatus
	AgentType daemon.AgentType
	FlowType  string
}

// UpdateTaskRequest changes the fields that are set and keeps the rest.
type UpdateTaskRequest struct {
	TaskRef

	Description *string
	Status      *daemon.TaskStatus
	AgentType   *daemon.AgentType
	FlowType    *string
}

// WatchRequest represents a request to poll workspace status.
type WatchRequest struct {
	StatusRequest

	// Interval between checks.
	Interval time.Duration

	// Count stops the watch after this many checks; zero means until canceled.
	Count int
}
