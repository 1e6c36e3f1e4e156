// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clusterhq/flocker-ca/ca"
)

var initializePath string

func init() {
	initializeCmd.Flags().StringVarP(&initializePath, "path", "p", "",
		"path to the directory to create the certificate authority in. Defaults to current working directory")
}

var initializeCmd = &cobra.Command{
	Use:   "initialize <name>",
	Short: "initialize a certificate authority",
	Long: `Create a new certificate authority.

Creates a private/public key pair and self-signs the public key to
produce a new certificate authority root certificate. These are stored
in the target directory. Once this has been done other flocker-ca
commands can be run against this directory to create certificates
signed by this particular certificate authority.

The name will be used as the name of the certificate authority,
e.g. "mycluster".`,
	Args: cobra.ExactArgs(1),
	RunE: initializeFn,
}

func initializeFn(_ *cobra.Command, args []string) error {
	dir, err := workingDirOrDefault(initializePath)
	if err != nil {
		return err
	}

	clusterName := args[0]
	log.Debugf("initializing certificate authority %q in %s", clusterName, dir)

	if _, err := ca.InitializeRoot(dir, clusterName); err != nil {
		return err
	}

	fmt.Println("Created cluster.key and cluster.crt. " +
		"Please keep cluster.key secret, as anyone who can " +
		"access it will be able to control your cluster.")

	return nil
}
