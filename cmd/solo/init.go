package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/version"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create local-config.yaml for this user if it does not already exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		userEmail, err := cmd.Flags().GetString("user-email")
		if err != nil {
			return err
		}
		if userEmail == "" {
			return soloerr.IllegalArgument("--user-email is required")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		exists, err := app.Local.ConfigFileExists(ctx)
		if err != nil {
			return err
		}
		if exists {
			fmt.Println("local-config.yaml already exists, leaving it untouched")
			return nil
		}

		if _, err := app.Local.Create(ctx, userEmail, version.Version); err != nil {
			return err
		}
		fmt.Println("local-config.yaml created")
		return nil
	},
}

func init() {
	initCmd.Flags().String("user-email", "", "Email address recorded as this local config's owner")
}
