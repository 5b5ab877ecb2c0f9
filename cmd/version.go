// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Show CLI and backend version information",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annSession: sessionNone},
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd)
	},
}

func printVersion(cmd *cobra.Command) error {
	a := appFrom(cmd)
	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Timeout())
	defer cancel()

	backendVersion, err := a.api.GetVersion(ctx)
	if err != nil {
		a.log.WithError(err).Debug("fetch backend version")
		backendVersion = "unknown"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "portal %s\nbackend %s\n", Version, backendVersion)
	return nil
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
