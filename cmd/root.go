// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clusterhq/flocker-ca/cmd/version"
)

var (
	debug    bool
	logLevel string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "flocker-ca",
	Short: "create TLS certificates for a Flocker cluster",
	Long: `flocker-ca is used to create TLS certificates.

The certificates are used to identify the control service, nodes and
API clients within a Flocker cluster.`,
	PersistentPreRunE: preRunFn,
}

// Execute runs the root command and exits non-zero on error. Error text is
// printed by cobra, so the core packages never write to the console.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSubcommands() {
	rootCmd.AddCommand(initializeCmd)
	rootCmd.AddCommand(controlCertCmd)
	rootCmd.AddCommand(nodeCertCmd)
	rootCmd.AddCommand(userCertCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(version.VersionCmd)
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "warning",
		"logging level; one of [trace, debug, info, warning, error, fatal]")

	addSubcommands()
}

func preRunFn(cobraCmd *cobra.Command, _ []string) error {
	// apply environment variables to flags before they are read below
	if err := initViper(cobraCmd); err != nil {
		return err
	}

	// setting log level
	switch {
	case debug:
		log.SetLevel(log.DebugLevel)
	default:
		l, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}

		log.SetLevel(l)
	}

	// setting output to stderr, so that confirmation messages stay parseable
	log.SetOutput(os.Stderr)

	return nil
}

// workingDirOrDefault returns path unchanged unless it is empty, in which case
// the current working directory is used, matching the CLI defaults.
func workingDirOrDefault(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return os.Getwd()
}
