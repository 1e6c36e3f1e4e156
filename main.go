// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/clusterhq/flocker-ca/cmd"

func main() {
	cmd.Execute()
}
