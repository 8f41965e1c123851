package daemon

import "fmt"

// Workspace is one workspace record as reported by the Side daemon.
//
// Timestamps are kept as the opaque strings the daemon sends.
type Workspace struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	LocalRepoDir string `json:"localRepoDir,omitempty"`
	Created      string `json:"created,omitempty"`
	Updated      string `json:"updated,omitempty"`
}

// WorkspaceList is the ordered list of workspaces returned by GET /workspaces/.
// Order is preserved exactly as the daemon returned it.
type WorkspaceList struct {
	Workspaces []Workspace `json:"workspaces"`
}

// CreateWorkspaceRequest is the body of POST /workspaces.
type CreateWorkspaceRequest struct {
	Name         string `json:"name"`
	LocalRepoDir string `json:"localRepoDir"`
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusDrafting   TaskStatus = "drafting"
	TaskStatusToDo       TaskStatus = "to_do"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusComplete   TaskStatus = "complete"
	TaskStatusCanceled   TaskStatus = "canceled"
	TaskStatusFailed     TaskStatus = "failed"
)

var taskStatuses = []TaskStatus{
	TaskStatusDrafting,
	TaskStatusToDo,
	TaskStatusBlocked,
	TaskStatusInProgress,
	TaskStatusComplete,
	TaskStatusCanceled,
	TaskStatusFailed,
}

// TaskStatuses returns every known task status in lifecycle order.
func TaskStatuses() []TaskStatus {
	out := make([]TaskStatus, len(taskStatuses))
	copy(out, taskStatuses)
	return out
}

// ParseTaskStatus validates s against the known task statuses.
func ParseTaskStatus(s string) (TaskStatus, error) {
	for _, st := range taskStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// Task is one task belonging to a workspace.
type Task struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspaceId"`
	Status      TaskStatus `json:"status"`
	AgentType   AgentType  `json:"agentType,omitempty"`
	FlowType    string     `json:"flowType,omitempty"`
	Description string     `json:"description,omitempty"`
	Created     string     `json:"createdAt,omitempty"`
	Updated     string     `json:"updatedAt,omitempty"`
}

// AgentType is who works a task.
type AgentType string

const (
	AgentTypeHuman AgentType = "human"
	AgentTypeLLM   AgentType = "llm"
	AgentTypeNone  AgentType = "none"
)

// ParseAgentType validates s against the known agent types.
func ParseAgentType(s string) (AgentType, error) {
	switch t := AgentType(s); t {
	case AgentTypeHuman, AgentTypeLLM, AgentTypeNone:
		return t, nil
	}
	return "", fmt.Errorf("unknown agent type %q", s)
}

// TaskRequest is the body of POST and PUT on a workspace's tasks.
type TaskRequest struct {
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	AgentType   AgentType  `json:"agentType"`
	FlowType    string     `json:"flowType"`
}

// TaskList is the response of GET /workspaces/{id}/tasks.
type TaskList struct {
	Tasks []Task `json:"tasks"`
}

// ErrorResponse is the error body the daemon sends with 4xx/5xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
