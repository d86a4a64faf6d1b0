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
	rotateUserName string
	rotatePassword string
)

// rotatePasswordCmd replaces a user's password. It is the only account
// mutation: usernames never change, and there is no self-service endpoint.
var rotatePasswordCmd = &cobra.Command{
	Use:   "rotatepassword",
	Short: "Replace a user's password",
	Long: `Replace a user's password. Usage:

	gestiong rotatepassword --user ana --password n3w-s3cret
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
		user, err := userService.GetByUsername(cmd.Context(), rotateUserName)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("user %q does not exist", rotateUserName)
			}
			return fmt.Errorf("look up user failed: %w", err)
		}

		if err := userService.RotateSecret(cmd.Context(), user.ID, rotatePassword); err != nil {
			return fmt.Errorf("rotate password failed: %w", err)
		}

		fmt.Printf("rotated password for %q\n", user.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rotatePasswordCmd)
	rotatePasswordCmd.Flags().StringVar(&rotateUserName, "user", "", "username")
	rotatePasswordCmd.Flags().StringVar(&rotatePassword, "password", "", "new password")
	_ = rotatePasswordCmd.MarkFlagRequired("user")
	_ = rotatePasswordCmd.MarkFlagRequired("password")
}
