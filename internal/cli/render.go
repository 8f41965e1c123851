package cli

import (
	"fmt"
	"io"

	"github.com/danieljhkim/sidestatus/internal/engine"
)

const (
	msgDaemonUnavailable = "Side is not running. Please run `side start`"
	msgNoWorkspace       = "No workspace set up yet"
)

// statusMessage is the one-line user-facing text for a classification.
func statusMessage(c engine.Classification) string {
	switch c.Kind {
	case engine.WorkspaceFound:
		return fmt.Sprintf("Found workspace %s", c.WorkspaceID)
	case engine.NoWorkspace:
		return msgNoWorkspace
	default:
		return msgDaemonUnavailable
	}
}

// statusExitCode maps a classification to the --exit-code process status.
func statusExitCode(c engine.Classification) int {
	switch c.Kind {
	case engine.WorkspaceFound:
		return 0
	case engine.NoWorkspace:
		return 3
	default:
		return 2
	}
}

// printStatus writes the colored status line for a result.
func printStatus(w io.Writer, c engine.Classification) {
	msg := statusMessage(c)
	switch c.Kind {
	case engine.WorkspaceFound:
		_, _ = successColor.Fprintln(w, msg)
	case engine.NoWorkspace:
		_, _ = warningColor.Fprintln(w, msg)
	default:
		_, _ = errorColor.Fprintln(w, msg)
	}
}
