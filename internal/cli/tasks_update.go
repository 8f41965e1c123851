package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/sidestatus/internal/engine"
)

var (
	taskUpdateDescription string
	taskUpdateStatus      string
	taskUpdateAgent       string
	taskUpdateFlow        string
)

var tasksUpdateCmd = &cobra.Command{
	Use:   "update TASK_ID",
	Short: "Change fields of a task",
	Long: `Change the given fields of a task and keep the others.

At least one of --description, --status, --agent or --flow is required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := taskRef(args[0])
		if err != nil {
			return err
		}
		req := &engine.UpdateTaskRequest{TaskRef: *ref}

		flags := cmd.Flags()
		if flags.Changed("description") {
			req.Description = &taskUpdateDescription
		}
		if flags.Changed("status") {
			status, err := parseStatus(taskUpdateStatus)
			if err != nil {
				return err
			}
			req.Status = &status
		}
		if flags.Changed("agent") {
			agent, err := parseAgent(taskUpdateAgent)
			if err != nil {
				return err
			}
			req.AgentType = &agent
		}
		if flags.Changed("flow") {
			req.FlowType = &taskUpdateFlow
		}
		if req.Description == nil && req.Status == nil && req.AgentType == nil && req.FlowType == nil {
			return fmt.Errorf("%w: nothing to update", engine.ErrValidation)
		}

		eng, log, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		task, err := eng.UpdateTask(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, task)
		}
		PrintSuccess(out, fmt.Sprintf("Updated task %s", task.ID))
		printTask(out, task)
		return nil
	},
}

func init() {
	tasksUpdateCmd.Flags().StringVarP(&taskUpdateDescription, "description", "d", "", "New description")
	tasksUpdateCmd.Flags().StringVar(&taskUpdateStatus, "status", "", "New status")
	tasksUpdateCmd.Flags().StringVar(&taskUpdateAgent, "agent", "", "New agent type: human, llm or none")
	tasksUpdateCmd.Flags().StringVar(&taskUpdateFlow, "flow", "", "New flow type")
}
