package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{BaseURL: server.URL + "/api/v1"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		wantURL  string
		wantFail bool
	}{
		{name: "default", baseURL: "", wantURL: DefaultBaseURL},
		{name: "trailing slash trimmed", baseURL: "http://127.0.0.1:9000/api/v1/", wantURL: "http://127.0.0.1:9000/api/v1"},
		{name: "https allowed", baseURL: "https://side.local/api/v1", wantURL: "https://side.local/api/v1"},
		{name: "unsupported scheme", baseURL: "ftp://localhost/api", wantFail: true},
		{name: "missing host", baseURL: "http:///api/v1", wantFail: true},
		{name: "unparseable", baseURL: "http://[::1", wantFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(ClientConfig{BaseURL: tt.baseURL})
			if tt.wantFail {
				if err == nil {
					t.Fatalf("NewClient(%q) expected error", tt.baseURL)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient(%q) error = %v", tt.baseURL, err)
			}
			if client.BaseURL() != tt.wantURL {
				t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), tt.wantURL)
			}
		})
	}
}

func TestClient_ListWorkspaces_Request(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		respond(http.StatusOK, `{"workspaces":[]}`)(w, r)
	})

	if _, err := client.ListWorkspaces(context.Background()); err != nil {
		t.Fatalf("ListWorkspaces() error = %v", err)
	}
	if gotMethod != http.MethodGet {
		t.Errorf("method = %s, want GET", gotMethod)
	}
	if gotPath != "/api/v1/workspaces/" {
		t.Errorf("path = %s, want /api/v1/workspaces/", gotPath)
	}
}

func TestClient_ListWorkspaces_Success(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantIDs []string
		wantDir []string
	}{
		{
			name:    "empty list",
			body:    `{"workspaces":[]}`,
			wantIDs: []string{},
		},
		{
			name: "order preserved",
			body: `{"workspaces":[
				{"id":"w2","name":"two","localRepoDir":"/b","created":"c","updated":"u"},
				{"id":"w1","name":"one","localRepoDir":"/a","created":"c","updated":"u"}
			]}`,
			wantIDs: []string{"w2", "w1"},
			wantDir: []string{"/b", "/a"},
		},
		{
			name:    "null name and missing dir tolerated",
			body:    `{"workspaces":[{"id":"w1","name":null}]}`,
			wantIDs: []string{"w1"},
			wantDir: []string{""},
		},
		{
			name:    "unknown fields ignored",
			body:    `{"workspaces":[{"id":"w1","localRepoDir":"/a","config":{"llm":{}}}],"total":1}`,
			wantIDs: []string{"w1"},
			wantDir: []string{"/a"},
		},
		{
			name:    "capitalised keys",
			body:    `{"Workspaces":[{"Id":"w1","LocalRepoDir":"/a"}]}`,
			wantIDs: []string{"w1"},
			wantDir: []string{"/a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, respond(http.StatusOK, tt.body))

			list, err := client.ListWorkspaces(context.Background())
			if err != nil {
				t.Fatalf("ListWorkspaces() error = %v", err)
			}
			if len(list.Workspaces) != len(tt.wantIDs) {
				t.Fatalf("got %d workspaces, want %d", len(list.Workspaces), len(tt.wantIDs))
			}
			for i, ws := range list.Workspaces {
				if ws.ID != tt.wantIDs[i] {
					t.Errorf("workspace[%d].ID = %q, want %q", i, ws.ID, tt.wantIDs[i])
				}
				if tt.wantDir != nil && ws.LocalRepoDir != tt.wantDir[i] {
					t.Errorf("workspace[%d].LocalRepoDir = %q, want %q", i, ws.LocalRepoDir, tt.wantDir[i])
				}
			}
		})
	}
}

func TestClient_ListWorkspaces_Unavailable(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`, wantStatus: true},
		{name: "not found", status: http.StatusNotFound, body: ``, wantStatus: true},
		{name: "created is not ok", status: http.StatusCreated, body: `{"workspaces":[]}`, wantStatus: true},
		{name: "malformed json", status: http.StatusOK, body: `{"workspaces":[`},
		{name: "empty body", status: http.StatusOK, body: ``},
		{name: "wrong field type", status: http.StatusOK, body: `{"workspaces":[{"id":42}]}`},
		{name: "workspaces not a list", status: http.StatusOK, body: `{"workspaces":"nope"}`},
		{name: "missing workspaces", status: http.StatusOK, body: `{}`},
		{name: "null workspaces", status: http.StatusOK, body: `{"workspaces":null}`},
		{name: "record without id", status: http.StatusOK, body: `{"workspaces":[{"localRepoDir":"/a"}]}`},
		{name: "bare array", status: http.StatusOK, body: `[{"id":"w1","localRepoDir":"/a"}]`},
		{name: "empty bare array", status: http.StatusOK, body: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, respond(tt.status, tt.body))

			list, err := client.ListWorkspaces(context.Background())
			if err == nil {
				t.Fatalf("ListWorkspaces() = %+v, want error", list)
			}
			if list != nil {
				t.Errorf("expected nil list on failure, got %+v", list)
			}
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("error %v does not wrap ErrUnavailable", err)
			}
			if tt.wantStatus && !errors.Is(err, ErrUnexpectedStatus) {
				t.Errorf("error %v does not wrap ErrUnexpectedStatus", err)
			}
			if !tt.wantStatus && !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("error %v does not wrap ErrMalformedResponse", err)
			}
		})
	}
}

func TestClient_ListWorkspaces_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(respond(http.StatusOK, `{"workspaces":[]}`))
	url := server.URL
	server.Close()

	client, err := NewClient(ClientConfig{BaseURL: url + "/api/v1", ConnectTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.ListWorkspaces(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ListWorkspaces() error = %v, want ErrUnavailable", err)
	}
}

func TestClient_ListWorkspaces_ContextCanceled(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, `{"workspaces":[]}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListWorkspaces(ctx)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ListWorkspaces() error = %v, want ErrUnavailable", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error %v should keep the context cause", err)
	}
}

func TestClient_CreateWorkspace(t *testing.T) {
	t.Run("sends name and dir", func(t *testing.T) {
		var got CreateWorkspaceRequest
		var gotPath, gotContentType string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotContentType = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&got)
			respond(http.StatusCreated, `{"workspace":{"id":"ws_1","name":"proj","localRepoDir":"/home/u/proj"}}`)(w, r)
		})

		ws, err := client.CreateWorkspace(context.Background(), CreateWorkspaceRequest{Name: "proj", LocalRepoDir: "/home/u/proj"})
		if err != nil {
			t.Fatalf("CreateWorkspace() error = %v", err)
		}
		if ws.ID != "ws_1" {
			t.Errorf("ID = %q, want ws_1", ws.ID)
		}
		if gotPath != "/api/v1/workspaces" {
			t.Errorf("path = %q", gotPath)
		}
		if gotContentType != "application/json" {
			t.Errorf("Content-Type = %q", gotContentType)
		}
		if got.Name != "proj" || got.LocalRepoDir != "/home/u/proj" {
			t.Errorf("request body = %+v", got)
		}
	})

	t.Run("bare workspace response", func(t *testing.T) {
		client := newTestClient(t, respond(http.StatusOK, `{"id":"ws_2","name":"proj","localRepoDir":"/p"}`))

		ws, err := client.CreateWorkspace(context.Background(), CreateWorkspaceRequest{Name: "proj", LocalRepoDir: "/p"})
		if err != nil {
			t.Fatalf("CreateWorkspace() error = %v", err)
		}
		if ws.ID != "ws_2" || ws.LocalRepoDir != "/p" {
			t.Errorf("workspace = %+v", ws)
		}
	})

	t.Run("error body surfaces", func(t *testing.T) {
		client := newTestClient(t, respond(http.StatusBadRequest, `{"error":"name is required"}`))

		_, err := client.CreateWorkspace(context.Background(), CreateWorkspaceRequest{})
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "name is required" {
			t.Errorf("APIError = %+v", apiErr)
		}
		if !strings.Contains(err.Error(), "name is required") {
			t.Errorf("Error() = %q", err.Error())
		}
		if errors.Is(err, ErrUnavailable) {
			t.Error("a daemon-side rejection must not read as unavailable")
		}
	})

	t.Run("response without id", func(t *testing.T) {
		client := newTestClient(t, respond(http.StatusOK, `{"workspace":{"name":"x"}}`))

		_, err := client.CreateWorkspace(context.Background(), CreateWorkspaceRequest{Name: "x", LocalRepoDir: "/x"})
		if !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("error = %v, want ErrMalformedResponse", err)
		}
	})
}

func TestClient_ListTasks(t *testing.T) {
	t.Run("path and status filter", func(t *testing.T) {
		var gotPath, gotStatuses string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			gotStatuses = r.URL.Query().Get("statuses")
			respond(http.StatusOK, `{"tasks":[{"id":"task_1","workspaceId":"ws 1","status":"to_do","description":"fix it"}]}`)(w, r)
		})

		list, err := client.ListTasks(context.Background(), "ws 1", []TaskStatus{TaskStatusToDo, TaskStatusInProgress})
		if err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if gotPath != "/api/v1/workspaces/ws%201/tasks" {
			t.Errorf("path = %q", gotPath)
		}
		if gotStatuses != "to_do,in_progress" {
			t.Errorf("statuses = %q", gotStatuses)
		}
		if len(list.Tasks) != 1 || list.Tasks[0].Status != TaskStatusToDo {
			t.Errorf("tasks = %+v", list.Tasks)
		}
	})

	t.Run("no filter sends no query", func(t *testing.T) {
		var rawQuery string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			rawQuery = r.URL.RawQuery
			respond(http.StatusOK, `{"tasks":[]}`)(w, r)
		})

		if _, err := client.ListTasks(context.Background(), "ws_1", nil); err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if rawQuery != "" {
			t.Errorf("query = %q, want empty", rawQuery)
		}
	})

	t.Run("empty workspace id", func(t *testing.T) {
		client := newTestClient(t, respond(http.StatusOK, `{"tasks":[]}`))
		if _, err := client.ListTasks(context.Background(), "", nil); err == nil {
			t.Fatal("expected error for empty workspace id")
		}
	})

	t.Run("not found", func(t *testing.T) {
		client := newTestClient(t, respond(http.StatusNotFound, `{"error":"workspace not found"}`))

		_, err := client.ListTasks(context.Background(), "ws_missing", nil)
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Fatalf("error = %v, want ErrUnexpectedStatus", err)
		}
	})
}

func TestParseTaskStatus(t *testing.T) {
	for _, st := range TaskStatuses() {
		got, err := ParseTaskStatus(string(st))
		if err != nil || got != st {
			t.Errorf("ParseTaskStatus(%q) = %q, %v", st, got, err)
		}
	}
	if _, err := ParseTaskStatus("done"); err == nil {
		t.Error("ParseTaskStatus(\"done\") expected error")
	}
}

func TestClient_ListWorkspaces_ConnectTimeout(t *testing.T) {
	// 192.0.2.0/24 is reserved for documentation and never routed, so the
	// dial either hangs until the connect timeout or fails at once.
	client, err := NewClient(ClientConfig{
		BaseURL:        "http://192.0.2.1:8855/api/v1",
		ConnectTimeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	start := time.Now()
	_, err = client.ListWorkspaces(context.Background())
	elapsed := time.Since(start)

	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ListWorkspaces() error = %v, want ErrUnavailable", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("ListWorkspaces() took %v, want it bounded by the 50ms connect timeout", elapsed)
	}
}

func TestClient_SlowResponseNotTimedOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		respond(http.StatusOK, `{"workspaces":[{"id":"w1","localRepoDir":"/a"}]}`)(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		BaseURL:        server.URL + "/api/v1",
		ConnectTimeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	list, err := client.ListWorkspaces(context.Background())
	if err != nil {
		t.Fatalf("ListWorkspaces() error = %v; only connecting should be bounded", err)
	}
	if len(list.Workspaces) != 1 {
		t.Errorf("got %d workspaces, want 1", len(list.Workspaces))
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := newHTTPClient(50 * time.Millisecond)
	if client.Timeout != 0 {
		t.Errorf("Timeout = %v, want no overall timeout", client.Timeout)
	}
	transport, ok := client.Transport.(*http.Transport)
	if !ok || transport.DialContext == nil {
		t.Fatalf("expected *http.Transport with a dialer, got %T", client.Transport)
	}
}

func TestClient_ResponseTooLarge(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"workspaces":[]}`)
		_, _ = w.Write(bytes.Repeat([]byte(" "), maxResponseBytes))
	})

	_, err := client.ListWorkspaces(context.Background())
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("ListWorkspaces() error = %v, want unavailable malformed response", err)
	}
}

func TestDecodeTaskList_Timestamps(t *testing.T) {
	list, err := decodeTaskList([]byte(`{"tasks":[{"id":"t1","workspaceId":"w1","status":"to_do",
		"agentType":"human","flowType":"basic_dev","description":"d",
		"createdAt":"2024-01-01","updatedAt":"2024-01-02"}]}`))
	if err != nil {
		t.Fatalf("decodeTaskList() error = %v", err)
	}
	task := list.Tasks[0]
	if task.Created != "2024-01-01" || task.Updated != "2024-01-02" {
		t.Errorf("Created/Updated = %q/%q, want 2024-01-01/2024-01-02", task.Created, task.Updated)
	}
	if task.AgentType != AgentTypeHuman || task.FlowType != "basic_dev" {
		t.Errorf("task = %+v", task)
	}
}

func TestClient_TaskCRUD(t *testing.T) {
	const taskJSON = `{"id":"task_1","workspaceId":"ws_1","status":"to_do","agentType":"llm","flowType":"basic_dev","description":"fix it","createdAt":"c","updatedAt":"u"}`

	t.Run("create posts the request", func(t *testing.T) {
		var got TaskRequest
		var gotMethod, gotPath string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotMethod, gotPath = r.Method, r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&got)
			respond(http.StatusOK, `{"task":`+taskJSON+`}`)(w, r)
		})

		req := TaskRequest{Description: "fix it", Status: TaskStatusToDo, AgentType: AgentTypeLLM, FlowType: "basic_dev"}
		task, err := client.CreateTask(context.Background(), "ws_1", req)
		if err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}
		if gotMethod != http.MethodPost || gotPath != "/api/v1/workspaces/ws_1/tasks" {
			t.Errorf("request = %s %s", gotMethod, gotPath)
		}
		if got != req {
			t.Errorf("body = %+v, want %+v", got, req)
		}
		if task.ID != "task_1" || task.Created != "c" {
			t.Errorf("task = %+v", task)
		}
	})

	t.Run("get accepts a bare task", func(t *testing.T) {
		var gotPath string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			respond(http.StatusOK, taskJSON)(w, r)
		})

		task, err := client.GetTask(context.Background(), "ws_1", "task_1")
		if err != nil {
			t.Fatalf("GetTask() error = %v", err)
		}
		if gotPath != "/api/v1/workspaces/ws_1/tasks/task_1" || task.Description != "fix it" {
			t.Errorf("path = %q, task = %+v", gotPath, task)
		}
	})

	t.Run("update puts the request", func(t *testing.T) {
		var gotMethod string
		var got TaskRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			_ = json.NewDecoder(r.Body).Decode(&got)
			respond(http.StatusOK, `{"task":`+taskJSON+`}`)(w, r)
		})

		req := TaskRequest{Description: "fix it", Status: TaskStatusComplete, AgentType: AgentTypeHuman, FlowType: "basic_dev"}
		if _, err := client.UpdateTask(context.Background(), "ws_1", "task_1", req); err != nil {
			t.Fatalf("UpdateTask() error = %v", err)
		}
		if gotMethod != http.MethodPut || got.Status != TaskStatusComplete {
			t.Errorf("method = %s, body = %+v", gotMethod, got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		var gotMethod string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			respond(http.StatusOK, `{}`)(w, r)
		})

		if err := client.DeleteTask(context.Background(), "ws_1", "task_1"); err != nil {
			t.Fatalf("DeleteTask() error = %v", err)
		}
		if gotMethod != http.MethodDelete {
			t.Errorf("method = %s", gotMethod)
		}
	})

	t.Run("delete unknown task", func(t *testing.T) {
		client := newTestClient(t, respond(http.StatusNotFound, `{"error":"task not found"}`))

		err := client.DeleteTask(context.Background(), "ws_1", "task_x")
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "task not found" {
			t.Fatalf("error = %v, want 404 APIError", err)
		}
	})

	t.Run("missing ids", func(t *testing.T) {
		client := newTestClient(t, respond(http.StatusOK, taskJSON))
		if _, err := client.GetTask(context.Background(), "ws_1", ""); err == nil {
			t.Error("expected error for empty task id")
		}
		if _, err := client.CreateTask(context.Background(), "", TaskRequest{}); err == nil {
			t.Error("expected error for empty workspace id")
		}
	})

	t.Run("response without id", func(t *testing.T) {
		client := newTestClient(t, respond(http.StatusOK, `{"task":{"description":"x"}}`))
		if _, err := client.GetTask(context.Background(), "ws_1", "task_1"); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("error = %v, want ErrMalformedResponse", err)
		}
	})

	t.Run("daemon down", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client, err := NewClient(ClientConfig{BaseURL: url + "/api/v1"})
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		if _, err := client.CreateTask(context.Background(), "ws_1", TaskRequest{}); !errors.Is(err, ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})
}

func TestParseAgentType(t *testing.T) {
	for _, s := range []string{"human", "llm", "none"} {
		if got, err := ParseAgentType(s); err != nil || string(got) != s {
			t.Errorf("ParseAgentType(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseAgentType("robot"); err == nil {
		t.Error("ParseAgentType(\"robot\") expected error")
	}
}
