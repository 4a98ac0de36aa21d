package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/chatwire"
)

func main() {
	// start mock backend (see mock_server.go)
	go StartMockChatServer(":9999")
	time.Sleep(100 * time.Millisecond)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := chatwire.New("http://localhost:9999",
		chatwire.WithTimeout(10*time.Second),
		chatwire.WithPollInterval(500*time.Millisecond),
	)
	if err != nil {
		slog.Error("failed to create client", "error", err)
		os.Exit(1)
	}

	// react to session invalidation (401 from any request, or logout)
	events := client.Session().Subscribe()
	defer client.Session().Unsubscribe(events)
	go func() {
		for ev := range events {
			slog.Info("session invalidated", "reason", ev.Reason)
		}
	}()

	if err := client.Login(ctx, "demo", "demo-password"); err != nil {
		slog.Error("login failed", "error", err)
		os.Exit(1)
	}

	conv, err := client.CreateConversation(ctx, "demo conversation")
	if err != nil {
		slog.Error("failed to create conversation", "error", err)
		os.Exit(1)
	}

	ack, err := client.SendMessage(ctx, conv.ID, chatwire.MessageCreate{
		Content: "what is the answer to everything?",
	})
	if err != nil {
		slog.Error("failed to send message", "error", err)
		os.Exit(1)
	}
	fmt.Printf("submitted task %s, polling...\n", ack.TaskID)

	// observe every poll attempt while waiting
	task, err := client.WaitForTask(ctx, ack.TaskID,
		chatwire.WithObserver[chatwire.Task](func(t chatwire.Task) {
			fmt.Printf("  status: %s\n", t.Status)
		}),
	)
	if err != nil {
		var failed *chatwire.TaskFailedError
		if errors.As(err, &failed) {
			slog.Error("task failed", "error", failed.Task.ErrorMessage)
		} else {
			slog.Error("wait failed", "error", err)
		}
		os.Exit(1)
	}

	fmt.Printf("result: %s\n", task.Result)
	client.Logout()
}
