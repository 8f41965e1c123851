package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tasksShowCmd = &cobra.Command{
	Use:   "show TASK_ID",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := taskRef(args[0])
		if err != nil {
			return err
		}

		eng, log, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		task, err := eng.GetTask(cmd.Context(), ref)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, task)
		}
		PrintSection(out, fmt.Sprintf("Task %s", task.ID))
		printTask(out, task)
		return nil
	},
}

var tasksRmCmd = &cobra.Command{
	Use:     "rm TASK_ID",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := taskRef(args[0])
		if err != nil {
			return err
		}

		eng, log, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if err := eng.DeleteTask(cmd.Context(), ref); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, map[string]string{"deleted": ref.TaskID})
		}
		PrintSuccess(out, fmt.Sprintf("Deleted task %s", ref.TaskID))
		return nil
	},
}
