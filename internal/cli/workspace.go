package cli

import (
	"github.com/spf13/cobra"
)

// workspaceCmd is the parent command for daemon workspaces.
var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "List and create daemon workspaces",
	Long:  `Inspect the workspaces known to the Side daemon, or register the project as a new one.`,
}

func init() {
	workspaceCmd.AddCommand(workspaceLsCmd)
	workspaceCmd.AddCommand(workspaceCreateCmd)
}
