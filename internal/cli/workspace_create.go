package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/sidestatus/internal/engine"
)

var workspaceCreateName string

// workspaceCreateCmd registers the project directory with the daemon.
var workspaceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a workspace for the project",
	Long: `Ask the daemon to create a workspace bound to the project directory.

The directory defaults to the git root of the current directory; use
--project to bind another path.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, log, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		project, cwd, err := projectArgs()
		if err != nil {
			return err
		}

		ws, err := eng.CreateWorkspace(cmd.Context(), &engine.CreateWorkspaceRequest{
			Name:        workspaceCreateName,
			ProjectPath: project,
			CWD:         cwd,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, ws)
		}
		PrintSuccess(out, fmt.Sprintf("Created workspace %s", ws.ID))
		PrintLabelValue(out, "Name", valueOrDash(ws.Name))
		PrintLabelValue(out, "Directory", ws.LocalRepoDir)
		return nil
	},
}

func init() {
	workspaceCreateCmd.Flags().StringVar(&workspaceCreateName, "name", "", "Workspace name (required)")
	_ = workspaceCreateCmd.MarkFlagRequired("name")
}
