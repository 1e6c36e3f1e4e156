// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusterhq/flocker-ca/ca"
)

var (
	inputPath  string
	outputPath string
)

func init() {
	for _, cmd := range []*cobra.Command{controlCertCmd, nodeCertCmd, userCertCmd} {
		cmd.Flags().StringVarP(&inputPath, "inputpath", "i", "",
			"path to directory containing the root certificate. Defaults to current working directory")
		cmd.Flags().StringVarP(&outputPath, "outputpath", "o", "",
			"path to directory to write the certificate to. Defaults to current working directory")
	}
}

var controlCertCmd = &cobra.Command{
	Use:   "create-control-certificate",
	Short: "create a certificate for the control service",
	Long: `Create a new certificate for the control service.

Creates a certificate signed by a previously generated certificate
authority (see flocker-ca initialize command for more information).

The certificate will be stored in the specified output directory
(defaults to current working directory).`,
	Args: cobra.NoArgs,
	RunE: createControlCertFn,
}

var nodeCertCmd = &cobra.Command{
	Use:   "create-node-certificate",
	Short: "create a certificate for a node agent",
	Long: `Create a new certificate for a node agent.

Creates a certificate signed by a previously generated certificate
authority (see flocker-ca initialize command for more information).`,
	Args: cobra.NoArgs,
	RunE: createNodeCertFn,
}

var userCertCmd = &cobra.Command{
	Use:   "create-api-certificate <name>",
	Short: "create a certificate for an API user",
	Long: `Create a new certificate for an API end user.

Creates a certificate signed by a previously generated certificate
authority (see flocker-ca initialize command for more information).

The name is the username for which the certificate should be created.`,
	Args: cobra.ExactArgs(1),
	RunE: createUserCertFn,
}

// loadRootAndPaths resolves the input/output directories and loads the root
// credential that the leaf commands sign with.
func loadRootAndPaths() (*ca.RootCredential, string, error) {
	in, err := workingDirOrDefault(inputPath)
	if err != nil {
		return nil, "", err
	}
	out, err := workingDirOrDefault(outputPath)
	if err != nil {
		return nil, "", err
	}

	root, err := ca.RootFromPath(in)
	if err != nil {
		return nil, "", err
	}
	return root, out, nil
}

func createControlCertFn(_ *cobra.Command, _ []string) error {
	root, out, err := loadRootAndPaths()
	if err != nil {
		return err
	}

	if _, err := ca.InitializeControl(out, root); err != nil {
		return err
	}

	fmt.Println("Created control-service.crt. Copy it over to " +
		"/etc/flocker/control-service.crt on your control " +
		"service machine and make sure to chmod 0600 it.")

	return nil
}

func createNodeCertFn(_ *cobra.Command, _ []string) error {
	root, out, err := loadRootAndPaths()
	if err != nil {
		return err
	}

	nodeCred, err := ca.InitializeNode(out, root)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s.crt. Copy it over to "+
		"/etc/flocker/node.crt on your node "+
		"machine and make sure to chmod 0600 it.\n", nodeCred.UUID)

	return nil
}

func createUserCertFn(_ *cobra.Command, args []string) error {
	root, out, err := loadRootAndPaths()
	if err != nil {
		return err
	}

	userCred, err := ca.InitializeUser(out, root, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Created %s.crt. You can now give it to your "+
		"API enduser so they can access the control service API.\n",
		userCred.Username)

	return nil
}
