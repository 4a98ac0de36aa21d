package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/chatwire"
)

// taskCmd groups task inspection subcommands.
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Inspect and wait for background tasks",
}

// taskStatusCmd fetches a single snapshot of a task.
var taskStatusCmd = &cobra.Command{
	Use:   "status <task-id>",
	Short: "Show the current status of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskStatus,
}

// taskWaitCmd polls a task until it reaches a terminal status.
var taskWaitCmd = &cobra.Command{
	Use:   "wait <task-id>",
	Short: "Poll a task until it completes or fails",
	Long: `Poll a task until it reaches a terminal status, printing its result.

Polling uses the configured interval and attempt budget (1s and 60 attempts
by default); if the budget runs out before the task finishes, the command
exits with an error and the task keeps running server-side.`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskWait,
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskWaitCmd)
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	task, err := client.GetTask(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("task:    %s\n", task.TaskID)
	fmt.Printf("status:  %s\n", task.Status)
	if task.Result != "" {
		fmt.Printf("result:  %s\n", task.Result)
	}
	if task.ErrorMessage != "" {
		fmt.Printf("error:   %s\n", task.ErrorMessage)
	}
	return nil
}

func runTaskWait(cmd *cobra.Command, args []string) error {
	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	task, err := client.WaitForTask(cmd.Context(), args[0])
	if err != nil {
		var failed *chatwire.TaskFailedError
		switch {
		case errors.As(err, &failed):
			return fmt.Errorf("task failed: %s", failed.Task.ErrorMessage)
		case errors.Is(err, chatwire.ErrPollTimeout):
			return fmt.Errorf("gave up waiting for task %s; it may still be running", args[0])
		}
		return err
	}

	fmt.Println(task.Result)
	return nil
}
