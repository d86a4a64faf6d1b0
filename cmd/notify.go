/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gestiong/apiserver/config"
	"github.com/gestiong/apiserver/internal/mq"
	"github.com/gestiong/apiserver/internal/reminder"
	"github.com/spf13/cobra"
)

// notifyCmd runs the reminder delivery worker. It consumes what `remind`
// publishes and keeps running until interrupted.
var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Consume and deliver queued reminders",
	Long: `Consume and deliver queued reminders. Usage:

	gestiong notify
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("connect rabbitmq failed: %w", err)
		}
		defer func() {
			_ = client.Close()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		notifier := reminder.NewNotifier(cfg.RabbitMQ.Queue, mq.New(client), reminder.NewLogSender(logger), logger)
		if err := notifier.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}
