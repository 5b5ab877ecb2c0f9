// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// adminViewCmd shows or switches the persisted admin-view flag.
var adminViewCmd = &cobra.Command{
	Use:   "admin-view [on|off]",
	Short: "Show or switch the admin view of a super admin",
	Long: `Without an argument, admin-view prints whether the admin view is on.
With "on" or "off" it switches the view and remembers the choice until you
switch again or log out. Only super admins can turn it on.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},

	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		if !a.auth.IsAuthenticated() {
			printNotLoggedIn()
			return nil
		}

		if len(args) == 1 {
			if err := a.auth.SetAdminView(args[0] == "on"); err != nil {
				return err
			}
		}
		view := "off"
		if a.auth.AdminView() {
			view = "on"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin view: %s\n", view)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adminViewCmd)
}
