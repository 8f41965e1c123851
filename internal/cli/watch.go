package cli

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/sidestatus/internal/engine"
)

var (
	watchInterval time.Duration
	watchCount    int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll workspace status and report changes",
	Long: `Check the workspace status every --interval and print a line whenever it
changes, for example when the daemon starts or a workspace is created.

Every check fetches the workspace list afresh. Stop with Ctrl-C, or pass
--count to stop after that many checks.`,
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

		req := &engine.WatchRequest{
			StatusRequest: engine.StatusRequest{
				ProjectPath: project,
				CWD:         cwd,
			},
			Interval: watchInterval,
			Count:    watchCount,
		}

		out := cmd.OutOrStdout()
		enc := json.NewEncoder(out)
		return eng.Watch(cmd.Context(), req, func(result *engine.StatusResult) error {
			if jsonOutput {
				return enc.Encode(result)
			}
			_, _ = dimColor.Fprintf(out, "[%s] ", result.CheckedAt.Local().Format(time.TimeOnly))
			printStatus(out, result.Classification)
			return nil
		})
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Second, "Time between checks")
	watchCmd.Flags().IntVar(&watchCount, "count", 0, "Stop after this many checks (0 = until interrupted)")
}

