// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "FLOCKER_CA"

var v *viper.Viper //nolint:gochecknoglobals

// initViper initializes viper for environment variable support and applies
// bound values to flags that were not explicitly set on the command line.
func initViper(cmd *cobra.Command) error {
	v = viper.New()

	// Set the environment variable prefix
	v.SetEnvPrefix(envPrefix)

	// Replace hyphens and dots with underscores in environment variable names
	// so that a key like "list.format" matches the env var FLOCKER_CA_LIST_FORMAT
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Automatically bind environment variables
	v.AutomaticEnv()

	if err := bindFlags(cmd.Root(), v, ""); err != nil {
		return err
	}

	applyViperToFlags(cmd)

	return nil
}

// bindFlags recursively binds cobra flags to viper, namespacing subcommand
// flags by their command path. Root persistent flags are bound without prefix
// so they work globally as FLOCKER_CA_<FLAG> from any command.
func bindFlags(cmd *cobra.Command, v *viper.Viper, cmdPath string) error {
	currentPath := cmdPath
	isRootCmd := cmd.Name() == "flocker-ca" || cmd.Name() == ""

	if !isRootCmd {
		if currentPath != "" {
			currentPath = currentPath + "." + cmd.Name()
		} else {
			currentPath = cmd.Name()
		}
	}

	cmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		if isRootCmd {
			_ = v.BindPFlag(flag.Name, flag)
		}
		if currentPath != "" {
			_ = v.BindPFlag(currentPath+"."+flag.Name, flag)
		}
	})

	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		// persistent flags are already bound above
		if cmd.PersistentFlags().Lookup(flag.Name) != nil {
			return
		}
		// local flags must carry the command path prefix to avoid ambiguity
		if currentPath != "" {
			_ = v.BindPFlag(currentPath+"."+flag.Name, flag)
		}
	})

	for _, subCmd := range cmd.Commands() {
		if err := bindFlags(subCmd, v, currentPath); err != nil {
			return err
		}
	}

	return nil
}

// applyViperToFlags sets flag values from viper for every flag of cmd that was
// not explicitly provided on the command line.
func applyViperToFlags(cmd *cobra.Command) {
	cmdPath := getCommandPath(cmd)

	// collect local, persistent and inherited flags without duplicates
	flagMap := make(map[string]*pflag.Flag)
	addFlags := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			if _, exists := flagMap[f.Name]; !exists {
				flagMap[f.Name] = f
			}
		})
	}

	addFlags(cmd.Flags())
	addFlags(cmd.PersistentFlags())
	for parent := cmd.Parent(); parent != nil; parent = parent.Parent() {
		addFlags(parent.PersistentFlags())
	}

	for _, flag := range flagMap {
		if flag.Changed {
			continue
		}

		key := flag.Name
		if cmdPath != "" && v.IsSet(cmdPath+"."+flag.Name) {
			key = cmdPath + "." + flag.Name
		}
		if !v.IsSet(key) {
			continue
		}

		_ = flag.Value.Set(v.GetString(key))
	}
}

// getCommandPath builds the dotted command path from root to cmd,
// e.g. "create-node-certificate".
func getCommandPath(cmd *cobra.Command) string {
	var parts []string
	current := cmd

	for current != nil && current.Name() != "flocker-ca" && current.Name() != "" {
		parts = append([]string{current.Name()}, parts...)
		current = current.Parent()
	}

	return strings.Join(parts, ".")
}
