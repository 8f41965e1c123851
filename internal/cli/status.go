package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/sidestatus/internal/engine"
)

var (
	statusExitCodeFlag bool
	statusLong         bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the project has a workspace",
	Long: `Ask the Side daemon for its workspaces and report whether one is bound to
the project directory.

The project directory is the git root of the current directory, or the
current directory outside a repository. Use --project to check another path.

With --exit-code the command exits 0 when a workspace is found, 2 when the
daemon is not running and 3 when no workspace is set up.`,
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

		result := eng.Status(cmd.Context(), &engine.StatusRequest{
			ProjectPath: project,
			CWD:         cwd,
		})

		out := cmd.OutOrStdout()
		if jsonOutput {
			if err := outputJSON(out, result); err != nil {
				return err
			}
		} else {
			printStatus(out, result.Classification)
			if statusLong {
				PrintLabelValue(out, "Project", valueOrDash(result.ProjectPath))
				if ws := result.Workspace; ws != nil {
					PrintLabelValue(out, "Name", valueOrDash(ws.Name))
					PrintLabelValue(out, "Directory", ws.LocalRepoDir)
					PrintLabelValue(out, "Updated", valueOrDash(ws.Updated))
				}
			}
		}

		if statusExitCodeFlag {
			if code := statusExitCode(result.Classification); code != 0 {
				return &ExitError{Code: code}
			}
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusExitCodeFlag, "exit-code", false, "Exit non-zero unless a workspace is found")
	statusCmd.Flags().BoolVarP(&statusLong, "long", "l", false, "Show the project path and workspace details")
}
