package engine

import (
	"encoding/json"
	"fmt"

	"github.com/danieljhkim/sidestatus/internal/daemon"
)

// Kind is the outcome of a workspace status check.
type Kind int

const (
	// DaemonUnavailable means the workspace list could not be fetched.
	DaemonUnavailable Kind = iota

	// WorkspaceFound means a workspace is bound to the project path.
	WorkspaceFound

	// NoWorkspace means the daemon answered but no workspace matches the
	// project path, or there is no project path at all.
	NoWorkspace
)

var kindNames = map[Kind]string{
	DaemonUnavailable: "daemon_unavailable",
	WorkspaceFound:    "workspace_found",
	NoWorkspace:       "no_workspace",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalJSON encodes the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Classification is the result of matching a project path against the daemon's workspaces.
type Classification struct {
	Kind Kind `json:"kind"`

	// WorkspaceID is set only for WorkspaceFound.
	WorkspaceID string `json:"workspaceId,omitempty"`

	// Workspace is the matched record, set only for WorkspaceFound.
	Workspace *daemon.Workspace `json:"workspace,omitempty"`
}

// Classify matches projectPath against list.
//
// A nil list means the fetch failed. Matching is exact string equality on
// localRepoDir, scanning in list order; the first match wins. An empty
// projectPath never matches, and neither does a record without localRepoDir.
func Classify(list *daemon.WorkspaceList, projectPath string) Classification {
	if list == nil {
		return Classification{Kind: DaemonUnavailable}
	}
	if projectPath == "" {
		return Classification{Kind: NoWorkspace}
	}

	for i := range list.Workspaces {
		ws := list.Workspaces[i]
		if ws.LocalRepoDir != "" && ws.LocalRepoDir == projectPath {
			return Classification{Kind: WorkspaceFound, WorkspaceID: ws.ID, Workspace: &ws}
		}
	}
	return Classification{Kind: NoWorkspace}
}

// Same reports whether two classifications describe the same state.
func (c Classification) Same(other Classification) bool {
	return c.Kind == other.Kind && c.WorkspaceID == other.WorkspaceID
}
