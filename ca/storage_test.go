// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testMaterialOnce sync.Once
	testMaterial     *Material
	testMaterialErr  error
)

// testPair returns valid PEM material, generated once and shared across tests
// since key generation dominates test runtime.
func testPair(t *testing.T) *Material {
	t.Helper()

	testMaterialOnce.Do(func() {
		keyPair, err := GenerateKeyPair()
		if err != nil {
			testMaterialErr = err
			return
		}
		_, certPEM, err := createRootCertificate("testcluster", keyPair)
		if err != nil {
			testMaterialErr = err
			return
		}
		testMaterial = &Material{Key: keyPair.EncodePrivate(), Cert: certPEM}
	})
	require.NoError(t, testMaterialErr)

	return testMaterial
}

func TestMaterialStoreWriteReadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	store := NewMaterialStore(dir)
	material := testPair(t)

	require.NoError(t, store.Write("cluster", material))

	got, err := store.Read("cluster")
	require.NoError(t, err)
	assert.Equal(t, material.Key, got.Key)
	assert.Equal(t, material.Cert, got.Cert)
}

func TestMaterialStoreRefusesOverwrite(t *testing.T) {
	material := testPair(t)

	tests := []struct {
		name    string
		prepare func(t *testing.T, store *MaterialStore)
		wantErr error
	}{
		{
			name: "existing key file",
			prepare: func(t *testing.T, store *MaterialStore) {
				require.NoError(t, os.WriteFile(store.KeyPath("cluster"), []byte("stale"), 0o600))
			},
			wantErr: ErrKeyExists,
		},
		{
			name: "existing certificate file",
			prepare: func(t *testing.T, store *MaterialStore) {
				require.NoError(t, os.WriteFile(store.CertPath("cluster"), []byte("stale"), 0o644))
			},
			wantErr: ErrCertificateExists,
		},
		{
			name: "complete existing pair reports key first",
			prepare: func(t *testing.T, store *MaterialStore) {
				require.NoError(t, store.Write("cluster", material))
			},
			wantErr: ErrKeyExists,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMaterialStore(t.TempDir())
			tt.prepare(t, store)

			err := store.Write("cluster", material)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMaterialStoreRefusalLeavesExistingMaterialUntouched(t *testing.T) {
	dir := t.TempDir()
	store := NewMaterialStore(dir)
	material := testPair(t)

	require.NoError(t, store.Write("cluster", material))
	require.Error(t, store.Write("cluster", &Material{Key: []byte("new"), Cert: []byte("new")}))

	got, err := store.Read("cluster")
	require.NoError(t, err)
	assert.Equal(t, material.Key, got.Key)
	assert.Equal(t, material.Cert, got.Cert)
}

func TestMaterialStoreWritePathErrors(t *testing.T) {
	material := testPair(t)

	tests := []struct {
		name string
		dir  func(t *testing.T) string
	}{
		{
			name: "missing directory",
			dir: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
		},
		{
			name: "path is a file",
			dir: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "file")
				require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
				return path
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMaterialStore(tt.dir(t))

			var pathErr *PathError
			err := store.Write("cluster", material)
			assert.ErrorAs(t, err, &pathErr)
		})
	}
}

func TestMaterialStoreKeyFilePermissions(t *testing.T) {
	dir := t.TempDir()
	store := NewMaterialStore(dir)

	require.NoError(t, store.Write("cluster", testPair(t)))

	fi, err := os.Stat(store.KeyPath("cluster"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestMaterialStoreReadErrors(t *testing.T) {
	material := testPair(t)

	tests := []struct {
		name    string
		prepare func(t *testing.T, store *MaterialStore)
	}{
		{
			name:    "both files missing",
			prepare: func(_ *testing.T, _ *MaterialStore) {},
		},
		{
			name: "key file missing",
			prepare: func(t *testing.T, store *MaterialStore) {
				require.NoError(t, os.WriteFile(store.CertPath("cluster"), material.Cert, 0o644))
			},
		},
		{
			name: "certificate file missing",
			prepare: func(t *testing.T, store *MaterialStore) {
				require.NoError(t, os.WriteFile(store.KeyPath("cluster"), material.Key, 0o600))
			},
		},
		{
			name: "unparsable key",
			prepare: func(t *testing.T, store *MaterialStore) {
				require.NoError(t, os.WriteFile(store.KeyPath("cluster"), []byte("garbage"), 0o600))
				require.NoError(t, os.WriteFile(store.CertPath("cluster"), material.Cert, 0o644))
			},
		},
		{
			name: "unparsable certificate",
			prepare: func(t *testing.T, store *MaterialStore) {
				require.NoError(t, os.WriteFile(store.KeyPath("cluster"), material.Key, 0o600))
				require.NoError(t, os.WriteFile(store.CertPath("cluster"), []byte("garbage"), 0o644))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMaterialStore(t.TempDir())
			tt.prepare(t, store)

			var pathErr *PathError
			got, err := store.Read("cluster")
			assert.ErrorAs(t, err, &pathErr)
			assert.Nil(t, got)
		})
	}
}
