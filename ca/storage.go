// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/clusterhq/flocker-ca/utils"
)

const (
	// KeyFileSuffix is the suffix of private key material files.
	KeyFileSuffix = ".key"
	// CertFileSuffix is the suffix of certificate material files.
	CertFileSuffix = ".crt"

	// keyFileMode restricts private key material to the owner.
	keyFileMode os.FileMode = 0o600
	// certFileMode allows certificates to be read by anyone.
	certFileMode os.FileMode = 0o644
)

// Material is the PEM encoded private key and certificate pair that together
// constitute a usable credential on disk.
type Material struct {
	Key  []byte
	Cert []byte
}

// MaterialStore reads and writes credential material pairs at deterministic
// paths within a single directory. A credential base name <base> always maps
// to the pair <base>.key and <base>.crt.
type MaterialStore struct {
	dir string
}

// NewMaterialStore returns a store rooted at dir. The directory itself is not
// validated until material is read or written.
func NewMaterialStore(dir string) *MaterialStore {
	return &MaterialStore{dir: dir}
}

// KeyPath returns the private key path for the given base name.
func (s *MaterialStore) KeyPath(baseName string) string {
	return filepath.Join(s.dir, baseName+KeyFileSuffix)
}

// CertPath returns the certificate path for the given base name.
func (s *MaterialStore) CertPath(baseName string) string {
	return filepath.Join(s.dir, baseName+CertFileSuffix)
}

// Exists reports whether any material file for the given base name is present.
func (s *MaterialStore) Exists(baseName string) bool {
	return utils.FileExists(s.KeyPath(baseName)) || utils.FileExists(s.CertPath(baseName))
}

// checkDir validates that the store directory exists and is a directory.
func (s *MaterialStore) checkDir(op string) error {
	if !utils.DirExists(s.dir) {
		return newPathError(op, s.dir, fmt.Errorf("not a directory"))
	}
	return nil
}

// Write persists a key/certificate pair for the given base name. It refuses to
// overwrite existing material: a present key file fails with ErrKeyExists and a
// present certificate file with ErrCertificateExists, checked in that order.
// The certificate is written first; if the key write fails the certificate is
// removed again so no partial pair is left behind.
func (s *MaterialStore) Write(baseName string, material *Material) error {
	if err := s.checkDir("write"); err != nil {
		return err
	}

	keyPath := s.KeyPath(baseName)
	certPath := s.CertPath(baseName)

	if utils.FileExists(keyPath) {
		return fmt.Errorf("file %s: %w", keyPath, ErrKeyExists)
	}
	if utils.FileExists(certPath) {
		return fmt.Errorf("file %s: %w", certPath, ErrCertificateExists)
	}

	log.Debugf("writing certificate file to %s", certPath)
	if err := utils.WriteFileAtomic(certPath, material.Cert, certFileMode); err != nil {
		return newPathError("write", certPath, err)
	}

	log.Debugf("writing key file to %s", keyPath)
	if err := utils.WriteFileAtomic(keyPath, material.Key, keyFileMode); err != nil {
		os.Remove(certPath)
		return newPathError("write", keyPath, err)
	}

	return nil
}

// Read loads the key/certificate pair for the given base name. A missing or
// unparsable file fails with a PathError; no partial material is returned.
func (s *MaterialStore) Read(baseName string) (*Material, error) {
	if err := s.checkDir("read"); err != nil {
		return nil, err
	}

	keyPath := s.KeyPath(baseName)
	certPath := s.CertPath(baseName)

	keyPEM, err := utils.ReadFileContent(keyPath)
	if err != nil {
		return nil, newPathError("read", keyPath, err)
	}
	certPEM, err := utils.ReadFileContent(certPath)
	if err != nil {
		return nil, newPathError("read", certPath, err)
	}

	// both files must parse before either is handed out
	if _, err := parsePrivateKey(keyPEM); err != nil {
		return nil, newPathError("read", keyPath, err)
	}
	if _, err := parseCertificate(certPEM); err != nil {
		return nil, newPathError("read", certPath, err)
	}

	return &Material{Key: keyPEM, Cert: certPEM}, nil
}
