// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"portal/cli/internal/auth"
	"portal/cli/internal/ui"
)

// watchCmd keeps the session in memory until its token expires.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the session open and report when it ends",
	Long: `The watch command restores the session and keeps running until the access
token expires, printing every state change. When the token expires the stored
credential is removed and you are asked to log in again. Press Ctrl+C to stop
watching without touching the session.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		st := a.auth.State()
		if !st.Authenticated {
			printNotLoggedIn()
			return nil
		}

		msg := "Watching session of " + displayName(st.User)
		if exp, ok := tokenExpiry(a); ok {
			msg += ", token expires in " + time.Until(exp).Round(time.Second).String()
		}
		pterm.Info.Println(msg)

		onChange := func(s auth.State) {
			pterm.Info.Printf("session: initialized=%t authenticated=%t\n", s.Initialized, s.Authenticated)
		}
		if !awaitSessionEnd(cmd.Context(), a.auth, a.nav, onChange) {
			pterm.Info.Println("Stopped watching")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// awaitSessionEnd blocks until m's session is forced back to the login view or
// ctx is done, reporting every state change to onChange. It returns true when
// the session ended.
func awaitSessionEnd(ctx context.Context, m *auth.Manager, nav *ui.Navigator, onChange func(auth.State)) bool {
	ended := make(chan struct{})
	var once sync.Once

	unsubscribe := m.Subscribe(onChange)
	defer unsubscribe()
	removeHook := nav.OnNavigate(func(path string) {
		if path == auth.PathLogin {
			once.Do(func() { close(ended) })
		}
	})
	defer removeHook()

	// The token may have expired before the hooks were in place.
	if !m.IsAuthenticated() {
		return true
	}

	select {
	case <-ended:
		return true
	case <-ctx.Done():
		return false
	}
}
