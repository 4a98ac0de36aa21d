package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/chatwire"
)

// sendCmd submits a message and waits for the resulting task.
var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a message and wait for the assistant's reply",
	Long: `Send a message to a conversation and poll the resulting task until the
backend finishes processing it.

The backend acknowledges the message with a task id; chatwire polls that
task at the configured interval and prints the result when it completes.

Examples:
  chatwire send --conversation 3 "summarise this thread"
  chatwire send --title "new chat" "hello there"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().Int64("conversation", 0, "conversation id to send to")
	sendCmd.Flags().String("title", "", "create a new conversation with this title")
	sendCmd.Flags().Bool("no-wait", false, "submit without polling for the result")
}

func runSend(cmd *cobra.Command, args []string) error {
	client, err := buildClient(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	conversationID, _ := cmd.Flags().GetInt64("conversation")
	title, _ := cmd.Flags().GetString("title")
	noWait, _ := cmd.Flags().GetBool("no-wait")

	switch {
	case conversationID == 0 && title == "":
		return fmt.Errorf("pass --conversation to send to an existing conversation, or --title to start a new one")
	case conversationID != 0 && title != "":
		return fmt.Errorf("--conversation and --title are mutually exclusive")
	case title != "":
		conv, err := client.CreateConversation(ctx, title)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "created conversation %d\n", conv.ID)
		conversationID = conv.ID
	}

	ack, err := client.SendMessage(ctx, conversationID, chatwire.MessageCreate{
		Content: strings.Join(args, " "),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "submitted task %s\n", ack.TaskID)

	if noWait {
		fmt.Println(ack.TaskID)
		return nil
	}

	task, err := client.WaitForTask(ctx, ack.TaskID)
	if err != nil {
		var failed *chatwire.TaskFailedError
		if errors.As(err, &failed) {
			return fmt.Errorf("task failed: %s", failed.Task.ErrorMessage)
		}
		return err
	}

	fmt.Println(task.Result)
	return nil
}
