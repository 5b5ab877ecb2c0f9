// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"portal/cli/internal/auth"
)

// logoutCmd removes the stored token and the admin-view flag.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove all saved credentials and tokens",
	Long: `The logout command clears the session from this machine: the access token
and the admin-view flag are removed from the credential store. It works offline
and always leaves you signed out.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annSession: sessionLazy},

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.MustFromContext(cmd.Context()).Logout(); err != nil {
			return fmt.Errorf("logged out, but the credential store reported: %w", err)
		}
		fmt.Println("✅ All credentials and tokens have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
