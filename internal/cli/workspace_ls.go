package cli

import (
	"github.com/spf13/cobra"
)

// workspaceLsCmd lists all workspaces.
var workspaceLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all workspaces",
	Long:  `Display every workspace the daemon knows about, in the order the daemon returns them.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, log, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		result, err := eng.ListWorkspaces(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result)
		}

		PrintSection(out, "Workspaces")
		if len(result.Workspaces) == 0 {
			PrintEmptyState(out, "No workspaces found")
			return nil
		}

		rows := make([][]string, 0, len(result.Workspaces))
		for _, ws := range result.Workspaces {
			rows = append(rows, []string{
				ws.ID,
				valueOrDash(ws.Name),
				valueOrDash(ws.LocalRepoDir),
				valueOrDash(ws.Updated),
			})
		}
		PrintTable(out, []string{"Workspace ID", "Name", "Directory", "Updated"}, rows)
		return nil
	},
}
