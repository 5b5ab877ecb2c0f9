// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"portal/cli/internal/auth"
	"portal/cli/internal/config"
	"portal/cli/internal/terminal"
	"portal/cli/internal/ui"
)

var (
	loginEmail         string
	loginPasswordStdin bool
	loginForce         bool
)

// loginCmd signs in with email and password and stores the returned token.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in with your email and password",
	Long: `The login command signs in to the portal API with your email and password.
The access token it receives is stored in the credential store and used by every
other command until it expires or you run 'portal logout'.

If you are already signed in with a valid token, nothing happens unless --force
is given. A server passed with --api-url is remembered for later commands.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		s := auth.MustFromContext(cmd.Context())

		if s.IsAuthenticated() && !loginForce {
			fmt.Printf("Already logged in as %s\n", displayName(s.User()))
			return nil
		}

		email, password, err := readCredentials(cmd.InOrStdin())
		if err != nil {
			return err
		}

		a.notify.SetAction("logging in")
		ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Timeout())
		defer cancel()
		stop := ui.StartSpinner("Signing in")
		err = s.Login(ctx, email, password)
		stop()
		if err != nil {
			return reportedError{err}
		}

		if cmd.Flags().Changed("api-url") {
			if err := config.RememberAPIURL(a.cfg.APIURL); err != nil {
				a.log.WithError(err).Warn("could not remember API URL")
			}
		}
		pterm.Success.Printf("Logged in as %s\n", displayName(s.User()))
		return nil
	},
}

func readCredentials(stdin io.Reader) (email, password string, err error) {
	p := terminal.NewPrompter()
	email = strings.TrimSpace(loginEmail)
	if email == "" {
		if email, err = p.Line("Email"); err != nil {
			return "", "", fmt.Errorf("read email: %w", err)
		}
	}

	if loginPasswordStdin {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(string(b), "\r\n")
	} else if password = os.Getenv("PORTAL_PASSWORD"); password == "" {
		if password, err = p.Password("Password"); err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
	}
	if password == "" {
		return "", "", fmt.Errorf("read password: %w", terminal.ErrEmptyInput)
	}
	return email, password, nil
}

// displayName picks the most readable identifier of u.
func displayName(u *auth.User) string {
	if u == nil {
		return "unknown user"
	}
	for _, s := range []string{u.Email, u.Name, u.ID} {
		if s != "" {
			return s
		}
	}
	return "unknown user"
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email (prompted when empty)")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	loginCmd.Flags().BoolVarP(&loginForce, "force", "f", false, "Sign in again even with a valid session")
}
