package daemon

import (
	"encoding/json"
	"fmt"
)

// decodeWorkspaceList decodes {"workspaces": [...]}. The field must be
// present and an array; anything else, including a bare top-level array, is
// malformed. encoding/json matches keys case-insensitively, so the older
// daemon's capitalised field names decode through the same path.
func decodeWorkspaceList(body []byte) (*WorkspaceList, error) {
	var wire struct {
		Workspaces *[]Workspace `json:"workspaces"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if wire.Workspaces == nil {
		return nil, fmt.Errorf("%w: missing workspaces field", ErrMalformedResponse)
	}

	records := *wire.Workspaces
	for i, ws := range records {
		if ws.ID == "" {
			return nil, fmt.Errorf("%w: workspace at index %d has no id", ErrMalformedResponse, i)
		}
	}
	return &WorkspaceList{Workspaces: records}, nil
}

// decodeWorkspace accepts {"workspace": {...}} or a bare workspace object.
func decodeWorkspace(body []byte) (*Workspace, error) {
	var wrapped struct {
		Workspace *Workspace `json:"workspace"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	ws := wrapped.Workspace
	if ws == nil {
		ws = &Workspace{}
		if err := json.Unmarshal(body, ws); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}
	if ws.ID == "" {
		return nil, fmt.Errorf("%w: workspace has no id", ErrMalformedResponse)
	}
	return ws, nil
}

// decodeTask accepts {"task": {...}} or a bare task object.
func decodeTask(body []byte) (*Task, error) {
	var wrapped struct {
		Task *Task `json:"task"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	task := wrapped.Task
	if task == nil {
		task = &Task{}
		if err := json.Unmarshal(body, task); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}
	if task.ID == "" {
		return nil, fmt.Errorf("%w: task has no id", ErrMalformedResponse)
	}
	return task, nil
}

func decodeTaskList(body []byte) (*TaskList, error) {
	var wire struct {
		Tasks *[]Task `json:"tasks"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if wire.Tasks == nil {
		return nil, fmt.Errorf("%w: missing tasks field", ErrMalformedResponse)
	}
	return &TaskList{Tasks: *wire.Tasks}, nil
}

// errorMessage extracts the daemon's {"error": "..."} message, if any.
func errorMessage(body []byte) string {
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.Error
}
