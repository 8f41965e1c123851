package mockd

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danieljhkim/sidestatus/internal/clock"
	"github.com/danieljhkim/sidestatus/internal/daemon"
)

var (
	ErrNotFound      = errors.New("workspace not found")
	ErrAlreadyExists = errors.New("a workspace already exists for this directory")
)

// Store holds the mock daemon's workspaces and tasks in memory.
type Store struct {
	mu         sync.RWMutex
	clock      clock.Clock
	workspaces []daemon.Workspace
	tasks      map[string][]daemon.Task
}

func NewStore(clk clock.Clock) *Store {
	return &Store{
		clock: clk,
		tasks: make(map[string][]daemon.Task),
	}
}

func (s *Store) timestamp() string {
	return s.clock.Now().UTC().Format(time.RFC3339Nano)
}

// Seed appends ws as-is, without the duplicate-directory check, so tests can
// reproduce daemons that hold several workspaces for one directory.
func (s *Store) Seed(ws daemon.Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ws.Created == "" {
		ws.Created = s.timestamp()
	}
	if ws.Updated == "" {
		ws.Updated = ws.Created
	}
	s.workspaces = append(s.workspaces, ws)
}

// Create adds a workspace with a generated id.
func (s *Store) Create(name, localRepoDir string) (daemon.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ws := range s.workspaces {
		if ws.LocalRepoDir == localRepoDir {
			return daemon.Workspace{}, ErrAlreadyExists
		}
	}

	now := s.timestamp()
	ws := daemon.Workspace{
		ID:           "ws_" + uuid.NewString(),
		Name:         name,
		LocalRepoDir: localRepoDir,
		Created:      now,
		Updated:      now,
	}
	s.workspaces = append(s.workspaces, ws)
	return ws, nil
}

// Workspaces returns a copy of all workspaces in insertion order.
func (s *Store) Workspaces() []daemon.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]daemon.Workspace, len(s.workspaces))
	copy(out, s.workspaces)
	return out
}

func (s *Store) exists(workspaceID string) bool {
	for _, ws := range s.workspaces {
		if ws.ID == workspaceID {
			return true
		}
	}
	return false
}

// ErrTaskNotFound is returned for a task id the workspace does not hold.
var ErrTaskNotFound = errors.New("task not found")

// CreateTask adds a task to an existing workspace, filling in the daemon's
// defaults for fields req leaves empty.
func (s *Store) CreateTask(workspaceID string, req daemon.TaskRequest) (daemon.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists(workspaceID) {
		return daemon.Task{}, ErrNotFound
	}
	if req.Status == "" {
		req.Status = daemon.TaskStatusToDo
	}
	if req.AgentType == "" {
		req.AgentType = daemon.AgentTypeLLM
	}
	if req.FlowType == "" {
		req.FlowType = "basic_dev"
	}

	now := s.timestamp()
	task := daemon.Task{
		ID:          "task_" + uuid.NewString(),
		WorkspaceID: workspaceID,
		Status:      req.Status,
		AgentType:   req.AgentType,
		FlowType:    req.FlowType,
		Description: req.Description,
		Created:     now,
		Updated:     now,
	}
	s.tasks[workspaceID] = append(s.tasks[workspaceID], task)
	return task, nil
}

// GetTask returns one task of a workspace.
func (s *Store) GetTask(workspaceID, taskID string) (daemon.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, err := s.taskIndex(workspaceID, taskID)
	if err != nil {
		return daemon.Task{}, err
	}
	return s.tasks[workspaceID][i], nil
}

// UpdateTask replaces the mutable fields of a task.
func (s *Store) UpdateTask(workspaceID, taskID string, req daemon.TaskRequest) (daemon.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.taskIndex(workspaceID, taskID)
	if err != nil {
		return daemon.Task{}, err
	}

	task := &s.tasks[workspaceID][i]
	task.Description = req.Description
	task.Status = req.Status
	task.AgentType = req.AgentType
	task.FlowType = req.FlowType
	task.Updated = s.timestamp()
	return *task, nil
}

// DeleteTask removes a task from its workspace.
func (s *Store) DeleteTask(workspaceID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.taskIndex(workspaceID, taskID)
	if err != nil {
		return err
	}
	tasks := s.tasks[workspaceID]
	s.tasks[workspaceID] = append(tasks[:i:i], tasks[i+1:]...)
	return nil
}

func (s *Store) taskIndex(workspaceID, taskID string) (int, error) {
	if !s.exists(workspaceID) {
		return -1, ErrNotFound
	}
	for i, task := range s.tasks[workspaceID] {
		if task.ID == taskID {
			return i, nil
		}
	}
	return -1, ErrTaskNotFound
}

// Tasks returns the workspace's tasks, keeping only the given statuses when any are set.
func (s *Store) Tasks(workspaceID string, statuses []daemon.TaskStatus) ([]daemon.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.exists(workspaceID) {
		return nil, ErrNotFound
	}

	keep := make(map[daemon.TaskStatus]bool, len(statuses))
	for _, st := range statuses {
		keep[st] = true
	}

	out := []daemon.Task{}
	for _, task := range s.tasks[workspaceID] {
		if len(keep) == 0 || keep[task.Status] {
			out = append(out, task)
		}
	}
	return out, nil
}
