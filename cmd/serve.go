// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clusterhq/flocker-ca/cmd/version"
	"github.com/clusterhq/flocker-ca/httpapi"
)

var (
	serveAddr string
	servePath string
)

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "listen", "l", ":4523",
		"address to serve the control service REST API on")
	serveCmd.Flags().StringVarP(&servePath, "path", "p", "",
		"path to the certificate authority directory. Defaults to current working directory")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the control service REST API",
	Args:  cobra.NoArgs,
	RunE:  serveFn,
}

func serveFn(_ *cobra.Command, _ []string) error {
	dir, err := workingDirOrDefault(servePath)
	if err != nil {
		return err
	}

	schemas, err := httpapi.NewSchemaStore()
	if err != nil {
		return err
	}

	api, err := httpapi.New(httpapi.Config{
		Version: version.Version,
		CADir:   dir,
		Schemas: schemas,
	})
	if err != nil {
		return err
	}

	log.Infof("serving REST API on %s", serveAddr)

	return http.ListenAndServe(serveAddr, api.Router())
}
