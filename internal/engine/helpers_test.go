package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/danieljhkim/sidestatus/internal/clock"
	"github.com/danieljhkim/sidestatus/internal/daemon"
	"github.com/danieljhkim/sidestatus/internal/gitx"
)

var testTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// fakeAPI is a scripted daemon. listFn receives the 1-based call number.
type fakeAPI struct {
	mu sync.Mutex

	listFn    func(call int) (*daemon.WorkspaceList, error)
	listCalls int

	createReqs []daemon.CreateWorkspaceRequest
	createFn   func(req daemon.CreateWorkspaceRequest) (*daemon.Workspace, error)

	taskCalls []string
	taskStats [][]daemon.TaskStatus
	tasks     map[string][]daemon.Task
	taskErr   error

	// taskReqs records CreateTask and UpdateTask payloads in call order.
	taskReqs []daemon.TaskRequest
	deleted  []string
}

func (f *fakeAPI) ListWorkspaces(ctx context.Context) (*daemon.WorkspaceList, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", daemon.ErrUnavailable, err)
	}
	if f.listFn == nil {
		return &daemon.WorkspaceList{Workspaces: []daemon.Workspace{}}, nil
	}
	return f.listFn(call)
}

func (f *fakeAPI) CreateWorkspace(ctx context.Context, req daemon.CreateWorkspaceRequest) (*daemon.Workspace, error) {
	f.mu.Lock()
	f.createReqs = append(f.createReqs, req)
	f.mu.Unlock()

	if f.createFn != nil {
		return f.createFn(req)
	}
	return &daemon.Workspace{ID: "ws_new", Name: req.Name, LocalRepoDir: req.LocalRepoDir}, nil
}

func (f *fakeAPI) ListTasks(ctx context.Context, workspaceID string, statuses []daemon.TaskStatus) (*daemon.TaskList, error) {
	f.mu.Lock()
	f.taskCalls = append(f.taskCalls, workspaceID)
	f.taskStats = append(f.taskStats, statuses)
	f.mu.Unlock()

	if f.taskErr != nil {
		return nil, f.taskErr
	}
	return &daemon.TaskList{Tasks: f.tasks[workspaceID]}, nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, workspaceID string, req daemon.TaskRequest) (*daemon.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.taskReqs = append(f.taskReqs, req)
	if f.taskErr != nil {
		return nil, f.taskErr
	}
	task := daemon.Task{
		ID:          fmt.Sprintf("task_%d", len(f.tasks[workspaceID])+1),
		WorkspaceID: workspaceID,
		Description: req.Description,
		Status:      req.Status,
		AgentType:   req.AgentType,
		FlowType:    req.FlowType,
	}
	if f.tasks == nil {
		f.tasks = map[string][]daemon.Task{}
	}
	f.tasks[workspaceID] = append(f.tasks[workspaceID], task)
	return &task, nil
}

func (f *fakeAPI) GetTask(ctx context.Context, workspaceID, taskID string) (*daemon.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.taskErr != nil {
		return nil, f.taskErr
	}
	for _, task := range f.tasks[workspaceID] {
		if task.ID == taskID {
			return &task, nil
		}
	}
	return nil, &daemon.APIError{StatusCode: 404, Message: "task not found"}
}

func (f *fakeAPI) UpdateTask(ctx context.Context, workspaceID, taskID string, req daemon.TaskRequest) (*daemon.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.taskReqs = append(f.taskReqs, req)
	if f.taskErr != nil {
		return nil, f.taskErr
	}
	for i, task := range f.tasks[workspaceID] {
		if task.ID != taskID {
			continue
		}
		task.Description = req.Description
		task.Status = req.Status
		task.AgentType = req.AgentType
		task.FlowType = req.FlowType
		f.tasks[workspaceID][i] = task
		return &task, nil
	}
	return nil, &daemon.APIError{StatusCode: 404, Message: "task not found"}
}

func (f *fakeAPI) DeleteTask(ctx context.Context, workspaceID, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.taskErr != nil {
		return f.taskErr
	}
	f.deleted = append(f.deleted, workspaceID+"/"+taskID)
	return nil
}

func listing(workspaces ...daemon.Workspace) func(int) (*daemon.WorkspaceList, error) {
	return func(int) (*daemon.WorkspaceList, error) {
		return &daemon.WorkspaceList{Workspaces: workspaces}, nil
	}
}

func failing(err error) func(int) (*daemon.WorkspaceList, error) {
	return func(int) (*daemon.WorkspaceList, error) {
		return nil, err
	}
}

var (
	errRefused = fmt.Errorf("%w: dial tcp 127.0.0.1:8855: connect: connection refused", daemon.ErrUnavailable)
	errStatus  = fmt.Errorf("%w: %w", daemon.ErrUnavailable, &daemon.APIError{StatusCode: 500})
)

type stubGit struct {
	root string
	err  error
}

func (s stubGit) Discover(string) (string, error) {
	return s.root, s.err
}

func newTestEngine(api *fakeAPI, git gitx.GitRepo) (*Engine, *clock.FakeClock) {
	if git == nil {
		git = stubGit{err: gitx.ErrNotInRepo}
	}
	clk := clock.NewFakeClock(testTime)
	return New(api, git, clk, nil), clk
}

var errBoom = errors.New("boom")
