// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"portal/cli/internal/auth"
	"portal/cli/internal/token"
)

var statusJSON bool

// statusCmd prints the session state after bootstrap.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session state",
	Long: `The status command restores the session and prints whether it is initialized
and authenticated, who the user is, and when the access token expires.
Use --json for machine-readable output.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		st := auth.MustFromContext(cmd.Context()).State()

		if statusJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		rows := pterm.TableData{
			{"Initialized", fmt.Sprint(st.Initialized)},
			{"Authenticated", fmt.Sprint(st.Authenticated)},
		}
		if st.User != nil {
			rows = append(rows, []string{"User", displayName(st.User)})
		}
		if st.Authenticated {
			if exp, ok := tokenExpiry(a); ok {
				rows = append(rows, []string{"Expires", fmt.Sprintf("%s (in %s)", exp.Format(time.RFC3339), time.Until(exp).Round(time.Second))})
			}
		}
		return pterm.DefaultTable.WithData(rows).Render()
	},
}

// tokenExpiry reads the exp claim of the stored token.
func tokenExpiry(a *app) (time.Time, bool) {
	tok, err := a.store.LoadAccessToken()
	if err != nil {
		return time.Time{}, false
	}
	claims, err := token.Decode(tok)
	if err != nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt()
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the state as JSON")
}
