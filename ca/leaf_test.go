// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"crypto/x509"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRoot initializes a fresh authority in its own directory.
func newTestRoot(t *testing.T) (*RootCredential, string) {
	t.Helper()

	dir := t.TempDir()
	root, err := InitializeRoot(dir, "mycluster")
	require.NoError(t, err)
	return root, dir
}

// assertLeaf checks the invariants every leaf certificate must satisfy.
func assertLeaf(t *testing.T, root *RootCredential, leaf *LeafCredential, eku x509.ExtKeyUsage) {
	t.Helper()

	assert.False(t, leaf.Certificate.IsCA)
	assert.Equal(t, root.Certificate.Subject.CommonName, leaf.Certificate.Issuer.CommonName)
	assert.Equal(t, []x509.ExtKeyUsage{eku}, leaf.Certificate.ExtKeyUsage)
	assert.False(t, leaf.Certificate.NotAfter.After(root.Certificate.NotAfter))
	require.NoError(t, leaf.Certificate.CheckSignatureFrom(root.Certificate))
}

func TestInitializeControl(t *testing.T) {
	root, dir := newTestRoot(t)

	cred, err := InitializeControl(dir, root)
	require.NoError(t, err)

	assert.Equal(t, ControlIdentity, cred.Identity)
	assert.Equal(t, ControlIdentity, cred.Certificate.Subject.CommonName)
	assertLeaf(t, root, &cred.LeafCredential, x509.ExtKeyUsageServerAuth)

	store := NewMaterialStore(dir)
	_, err = store.Read(ControlIdentity)
	assert.NoError(t, err)
}

func TestInitializeControlTwiceRefused(t *testing.T) {
	root, dir := newTestRoot(t)

	_, err := InitializeControl(dir, root)
	require.NoError(t, err)

	_, err = InitializeControl(dir, root)
	assert.ErrorIs(t, err, ErrKeyExists)
}

func TestInitializeNodeProducesDistinctIdentities(t *testing.T) {
	root, dir := newTestRoot(t)

	first, err := InitializeNode(dir, root)
	require.NoError(t, err)
	second, err := InitializeNode(dir, root)
	require.NoError(t, err)

	assert.NotEqual(t, first.UUID, second.UUID)
	assert.Equal(t, first.UUID.String(), first.Certificate.Subject.CommonName)
	assertLeaf(t, root, &first.LeafCredential, x509.ExtKeyUsageServerAuth)
	assertLeaf(t, root, &second.LeafCredential, x509.ExtKeyUsageServerAuth)

	store := NewMaterialStore(dir)
	for _, cred := range []*NodeCredential{first, second} {
		_, err := store.Read(cred.UUID.String())
		assert.NoError(t, err)
	}
}

func TestInitializeUser(t *testing.T) {
	root, dir := newTestRoot(t)

	cred, err := InitializeUser(dir, root, "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", cred.Username)
	assert.Equal(t, "alice", cred.Certificate.Subject.CommonName)
	assertLeaf(t, root, &cred.LeafCredential, x509.ExtKeyUsageClientAuth)

	store := NewMaterialStore(dir)
	_, err = store.Read("alice")
	assert.NoError(t, err)
}

func TestInitializeUserSameNameRefused(t *testing.T) {
	root, dir := newTestRoot(t)

	_, err := InitializeUser(dir, root, "alice")
	require.NoError(t, err)

	_, err = InitializeUser(dir, root, "alice")
	assert.ErrorIs(t, err, ErrKeyExists)
}

func TestInitializeUserInvalidNameWritesNothing(t *testing.T) {
	root, dir := newTestRoot(t)

	_, err := InitializeUser(dir, root, "bad\xffname")
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	// only the root material may be present
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestEndToEndIssuance(t *testing.T) {
	root, dir := newTestRoot(t)

	control, err := InitializeControl(dir, root)
	require.NoError(t, err)
	node, err := InitializeNode(dir, root)
	require.NoError(t, err)
	user, err := InitializeUser(dir, root, "alice")
	require.NoError(t, err)

	// 2 root + 2 control + 2 node + 2 user files
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 8)

	identities := map[string]bool{}
	for _, leaf := range []*LeafCredential{
		&control.LeafCredential, &node.LeafCredential, &user.LeafCredential,
	} {
		assert.Equal(t, "mycluster", leaf.Certificate.Issuer.CommonName)
		assert.False(t, leaf.Certificate.IsCA)
		assert.False(t, identities[leaf.Identity], "identity %q issued twice", leaf.Identity)
		identities[leaf.Identity] = true
	}
}
