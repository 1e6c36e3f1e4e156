// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/clusterhq/flocker-ca/ca"
)

var (
	listPath   string
	listFormat string
)

func init() {
	listCmd.Flags().StringVarP(&listPath, "path", "p", "",
		"path to the certificate authority directory. Defaults to current working directory")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table",
		"output format, one of [table, json]")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list credentials issued in a certificate authority directory",
	Args:  cobra.NoArgs,
	RunE:  listFn,
}

func listFn(_ *cobra.Command, _ []string) error {
	dir, err := workingDirOrDefault(listPath)
	if err != nil {
		return err
	}

	infos, err := ca.Inventory(dir)
	if err != nil {
		return err
	}

	if listFormat == "json" {
		b, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}

	tabData := make([][]string, 0, len(infos))
	for _, info := range infos {
		tabData = append(tabData, []string{
			info.BaseName,
			string(info.Kind),
			info.Subject,
			info.Issuer,
			info.NotAfter.Format("2006-01-02"),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Kind", "Subject", "Issuer", "Expires"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(tabData)
	table.Render()

	return nil
}
