// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the portal CLI.
// Every command shares one session: the access token is restored from the
// credential store on start, attached to API requests, and dropped again when
// it expires or the user logs out.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"portal/cli/internal/auth"
	"portal/cli/internal/config"
)

var (
	showVersion  bool
	flagAPIURL   string
	flagStore    string
	flagLogLevel string

	current *app
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "portal",
	Short:         "Portal CLI: sign in and inspect your session",
	Long:          `portal signs you in to the portal API, keeps the access token in your OS keychain and shows who you are signed in as.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Annotations:   map[string]string{annSession: sessionNone},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlags(cmd, &cfg)

		a := newApp(cfg)
		current = a
		ctx := withApp(cmd.Context(), a)

		mode := cmd.Annotations[annSession]
		if mode != sessionNone {
			if err := a.openSession(ctx); err != nil {
				return fmt.Errorf("open credential store: %w", err)
			}
			ctx = auth.WithContract(ctx, a.auth)
			if mode != sessionLazy {
				a.initialize(ctx)
			}
		}
		cmd.SetContext(ctx)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			return printVersion(cmd)
		}
		return cmd.Help()
	},
}

// reportedError is an error the user has already been shown.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Execute runs the CLI application.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	current.Close()

	if err != nil {
		var shown reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = flagAPIURL
	}
	if flags.Changed("store") {
		cfg.Store = flagStore
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and backend version information")
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagAPIURL, "api-url", "", "Portal API base URL (env PORTAL_API_URL)")
	pf.StringVar(&flagStore, "store", "", "Credential store: keyring, file or redis (env PORTAL_STORE)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error (env PORTAL_LOG_LEVEL)")
}
