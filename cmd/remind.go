/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gestiong/apiserver/config"
	"github.com/gestiong/apiserver/internal/db"
	"github.com/gestiong/apiserver/internal/mq"
	"github.com/gestiong/apiserver/internal/reminder"
	"github.com/gestiong/apiserver/internal/services"
	"github.com/gestiong/apiserver/internal/store"
	"github.com/gestiong/apiserver/types"
	"github.com/spf13/cobra"
)

// remindCmd performs one due-expense reminder pass and exits. Meant to be
// run from cron, not inside the request-serving process.
var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Publish due-expense reminders and exit",
	Long: `Publish due-expense reminders and exit. Usage:

	gestiong remind
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open database failed: %w", err)
		}
		defer func() {
			_ = dbConn.Close()
		}()

		client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("connect rabbitmq failed: %w", err)
		}
		defer func() {
			_ = client.Close()
		}()

		userService := services.NewUserService(store.NewUserRepository(dbConn))
		ledgerService := services.NewLedgerService(
			store.NewExpenseRepository(dbConn),
			store.NewIncomeRepository(dbConn),
			store.NewMovementRepository(dbConn),
		)

		job := reminder.New(userService, ledgerService, cfg.RabbitMQ.Queue, mq.New(client), logger)

		dueBy := types.Date{Time: types.Today().AddDate(0, 0, cfg.Reminder.LookAheadDays)}
		return job.Run(cmd.Context(), dueBy)
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
}
