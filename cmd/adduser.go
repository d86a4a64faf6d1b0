/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/gestiong/apiserver/config"
	"github.com/gestiong/apiserver/internal/db"
	"github.com/gestiong/apiserver/internal/services"
	"github.com/gestiong/apiserver/internal/store"
	"github.com/spf13/cobra"
)

var (
	addUserName     string
	addUserPassword string
	addUserEmail    string
)

// addUserCmd creates a user account. There is no registration endpoint:
// accounts are provisioned out of band with this command.
var addUserCmd = &cobra.Command{
	Use:   "adduser",
	Short: "Create a user account",
	Long: `Create a user account. Usage:

	gestiong adduser --user ana --password s3cret [--email ana@example.com]
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open database failed: %w", err)
		}
		defer func() {
			_ = dbConn.Close()
		}()

		userService := services.NewUserService(store.NewUserRepository(dbConn))
		user, err := userService.Create(cmd.Context(), addUserName, addUserPassword, addUserEmail)
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("username %q already exists", addUserName)
			}
			return fmt.Errorf("create user failed: %w", err)
		}

		fmt.Printf("created user %q with id %d\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addUserCmd)
	addUserCmd.Flags().StringVar(&addUserName, "user", "", "username")
	addUserCmd.Flags().StringVar(&addUserPassword, "password", "", "password")
	addUserCmd.Flags().StringVar(&addUserEmail, "email", "", "notification email (optional)")
	_ = addUserCmd.MarkFlagRequired("user")
	_ = addUserCmd.MarkFlagRequired("password")
}
