// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"portal/cli/internal/auth"
)

// whoamiCmd shows the account of the restored session.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show current authenticated account",
	Long: `The whoami command restores the session from the stored token, fetches your
profile from the portal API and shows who you are signed in as.

If the token is missing or expired, or the profile cannot be fetched, you are
shown as not logged in.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		s := auth.MustFromContext(cmd.Context())
		if !s.IsAuthenticated() {
			printNotLoggedIn()
			return nil
		}

		u := s.User()
		fmt.Printf("👤 Current user: %s\n", displayName(u))
		rows := pterm.TableData{}
		for _, r := range [][2]string{
			{"ID", u.ID},
			{"Name", u.Name},
			{"Email", u.Email},
			{"Company", u.CompanyName},
			{"Role", u.Role},
		} {
			if r[1] != "" {
				rows = append(rows, []string{r[0], r[1]})
			}
		}
		if u.IsSuperAdmin {
			view := "off"
			if a.auth.AdminView() {
				view = "on"
			}
			rows = append(rows, []string{"Admin view", view})
		}
		if len(rows) > 0 {
			return pterm.DefaultTable.WithData(rows).Render()
		}
		return nil
	},
}

func printNotLoggedIn() {
	fmt.Println("🔒 You're not logged in yet!")
	fmt.Println("   Run 'portal login' to get started.")
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
