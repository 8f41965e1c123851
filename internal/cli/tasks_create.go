package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/sidestatus/internal/engine"
)

var (
	taskCreateDescription string
	taskCreateStatus      string
	taskCreateAgent       string
	taskCreateFlow        string
)

var tasksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	Long: `Create a task in the workspace.

New tasks default to status to_do, agent llm and flow basic_dev. --flow also
accepts planned_dev.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &engine.CreateTaskRequest{
			WorkspaceID: tasksWorkspaceID,
			Description: taskCreateDescription,
			FlowType:    taskCreateFlow,
		}
		var err error
		if taskCreateStatus != "" {
			if req.Status, err = parseStatus(taskCreateStatus); err != nil {
				return err
			}
		}
		if taskCreateAgent != "" {
			if req.AgentType, err = parseAgent(taskCreateAgent); err != nil {
				return err
			}
		}
		if req.WorkspaceID == "" {
			if req.ProjectPath, req.CWD, err = projectArgs(); err != nil {
				return err
			}
		}

		eng, log, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		task, err := eng.CreateTask(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, task)
		}
		PrintSuccess(out, fmt.Sprintf("Created task %s", task.ID))
		printTask(out, task)
		return nil
	},
}

func init() {
	tasksCreateCmd.Flags().StringVarP(&taskCreateDescription, "description", "d", "", "Task description (required)")
	tasksCreateCmd.Flags().StringVar(&taskCreateStatus, "status", "", "Initial status (default to_do)")
	tasksCreateCmd.Flags().StringVar(&taskCreateAgent, "agent", "", "Agent type: human, llm or none (default llm)")
	tasksCreateCmd.Flags().StringVar(&taskCreateFlow, "flow", "", "Flow type (default basic_dev)")
	_ = tasksCreateCmd.MarkFlagRequired("description")
}
