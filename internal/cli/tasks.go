package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/sidestatus/internal/daemon"
	"github.com/danieljhkim/sidestatus/internal/engine"
)

var (
	tasksWorkspaceID string
	tasksStatuses    string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List and manage the tasks of a workspace",
	Long: `List the daemon's tasks for a workspace, or create, show, update and
remove single tasks with the subcommands.

Without --workspace the workspace bound to the project directory is used.
--status takes a comma-separated list of: drafting, to_do, blocked,
in_progress, complete, canceled, failed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, err := parseStatuses(tasksStatuses)
		if err != nil {
			return err
		}

		eng, log, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		req := &engine.ListTasksRequest{
			WorkspaceID: tasksWorkspaceID,
			Statuses:    statuses,
		}
		if req.WorkspaceID == "" {
			req.ProjectPath, req.CWD, err = projectArgs()
			if err != nil {
				return err
			}
		}

		result, err := eng.ListTasks(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result)
		}

		PrintSection(out, fmt.Sprintf("Tasks in %s", result.WorkspaceID))
		if len(result.Tasks) == 0 {
			PrintEmptyState(out, "No tasks found")
			return nil
		}

		rows := make([][]string, 0, len(result.Tasks))
		for _, task := range result.Tasks {
			rows = append(rows, []string{
				task.ID,
				string(task.Status),
				valueOrDash(string(task.AgentType)),
				valueOrDash(task.Description),
			})
		}
		PrintTable(out, []string{"Task ID", "Status", "Agent", "Description"}, rows)
		PrintInfo(out, "\n"+PrintCount(len(result.Tasks), "task", "tasks"))
		return nil
	},
}

// taskRef builds the task selector shared by the single-task subcommands.
func taskRef(taskID string) (*engine.TaskRef, error) {
	ref := &engine.TaskRef{WorkspaceID: tasksWorkspaceID, TaskID: taskID}
	if ref.WorkspaceID == "" {
		var err error
		ref.ProjectPath, ref.CWD, err = projectArgs()
		if err != nil {
			return nil, err
		}
	}
	return ref, nil
}

// printTask writes one task as label/value lines.
func printTask(w io.Writer, task *daemon.Task) {
	PrintLabelValue(w, "Workspace", task.WorkspaceID)
	PrintLabelValue(w, "Status", string(task.Status))
	PrintLabelValue(w, "Agent", valueOrDash(string(task.AgentType)))
	PrintLabelValue(w, "Flow", valueOrDash(task.FlowType))
	PrintLabelValue(w, "Description", valueOrDash(task.Description))
	if task.Updated != "" {
		PrintLabelValue(w, "Updated", task.Updated)
	}
}

// parseStatus validates a single --status value.
func parseStatus(raw string) (daemon.TaskStatus, error) {
	status, err := daemon.ParseTaskStatus(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %w", engine.ErrValidation, err)
	}
	return status, nil
}

// parseAgent validates a single --agent value.
func parseAgent(raw string) (daemon.AgentType, error) {
	agent, err := daemon.ParseAgentType(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %w", engine.ErrValidation, err)
	}
	return agent, nil
}

// parseStatuses splits a comma-separated status filter.
func parseStatuses(raw string) ([]daemon.TaskStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var statuses []daemon.TaskStatus
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		status, err := daemon.ParseTaskStatus(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", engine.ErrValidation, err)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func init() {
	tasksCmd.PersistentFlags().StringVarP(&tasksWorkspaceID, "workspace", "w", "", "Workspace ID (default: the project's workspace)")
	tasksCmd.Flags().StringVar(&tasksStatuses, "status", "", "Comma-separated status filter")

	tasksCmd.AddCommand(tasksCreateCmd)
	tasksCmd.AddCommand(tasksShowCmd)
	tasksCmd.AddCommand(tasksUpdateCmd)
	tasksCmd.AddCommand(tasksRmCmd)
}
