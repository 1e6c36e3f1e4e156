// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// nodeIDAttempts bounds the defensive regeneration of node identifiers when a
// generated UUID unexpectedly collides with existing material.
const nodeIDAttempts = 3

// NodeCredential identifies a single node agent. Its identity is generated,
// never caller-supplied, so many node credentials may coexist in a directory.
type NodeCredential struct {
	LeafCredential

	// UUID is the generated node identifier; it doubles as the file base name.
	UUID uuid.UUID
}

// InitializeNode creates a node credential in dir, signed by root, with a
// freshly generated UUID as its identity. A collision with existing material
// is not expected; if it happens anyway the identifier is regenerated a few
// times before the exists error is surfaced.
func InitializeNode(dir string, root *RootCredential) (*NodeCredential, error) {
	var lastErr error

	for attempt := 0; attempt < nodeIDAttempts; attempt++ {
		id, err := uuid.NewRandom()
		if err != nil {
			return nil, fmt.Errorf("failed generating node identifier: %w", err)
		}

		leaf, err := issue(dir, root, id.String(), id.String(), x509.ExtKeyUsageServerAuth)
		if err == nil {
			return &NodeCredential{LeafCredential: *leaf, UUID: id}, nil
		}
		if !errors.Is(err, ErrKeyExists) && !errors.Is(err, ErrCertificateExists) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}
