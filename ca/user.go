// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"crypto/x509"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// UserCredential identifies an API end user by a caller-supplied name.
// One credential may exist per name per directory.
type UserCredential struct {
	LeafCredential

	// Username is the canonical (NFC normalized) form of the supplied name.
	Username string
}

// InitializeUser creates a credential for the API user name in dir, signed by
// root. The name is validated and canonicalized before any key generation or
// file I/O happens; a name that cannot be represented fails with
// ErrInvalidIdentity. Existing material for the same name causes a refusal
// with ErrKeyExists/ErrCertificateExists.
func InitializeUser(dir string, root *RootCredential, name string) (*UserCredential, error) {
	username, err := normalizeUsername(name)
	if err != nil {
		return nil, err
	}

	leaf, err := issue(dir, root, username, username, x509.ExtKeyUsageClientAuth)
	if err != nil {
		return nil, err
	}
	return &UserCredential{LeafCredential: *leaf, Username: username}, nil
}

// normalizeUsername validates that name is usable both as a certificate
// subject and as a file base name and returns its NFC normalized form.
func normalizeUsername(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("username must not be empty: %w", ErrInvalidIdentity)
	}
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("username is not valid UTF-8: %w", ErrInvalidIdentity)
	}

	username := norm.NFC.String(name)

	// the name becomes a file base name, so it must not escape the directory
	if strings.ContainsAny(username, "/\\\x00") || username == "." || username == ".." {
		return "", fmt.Errorf("username %q contains forbidden characters: %w",
			username, ErrInvalidIdentity)
	}

	return username, nil
}
