// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package ca

import "crypto/x509"

// ControlIdentity is the fixed identity and file base name of the control
// service credential. Exactly one may exist per directory.
const ControlIdentity = "control-service"

// ControlCredential identifies the cluster control service.
type ControlCredential struct {
	LeafCredential
}

// InitializeControl creates the control service credential in dir, signed by
// root. It fails with ErrKeyExists/ErrCertificateExists if control service
// material is already present and with a PathError if dir is unusable.
func InitializeControl(dir string, root *RootCredential) (*ControlCredential, error) {
	leaf, err := issue(dir, root, ControlIdentity, ControlIdentity, x509.ExtKeyUsageServerAuth)
	if err != nil {
		return nil, err
	}
	return &ControlCredential{LeafCredential: *leaf}, nil
}
