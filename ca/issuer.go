// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"crypto/rsa"
	"crypto/x509"

	log "github.com/sirupsen/logrus"
)

// LeafCredential is a certificate signed by the cluster root, together with
// the private key it certifies. All leaf credential kinds share it.
type LeafCredential struct {
	// Identity is the subject common name of the certificate.
	Identity string
	// Certificate is the signed leaf certificate.
	Certificate *x509.Certificate
	// CertPEM is the PEM encoding of Certificate.
	CertPEM []byte

	key *rsa.PrivateKey
}

// issue runs the shared leaf signing workflow: generate a fresh key pair,
// build a certificate for identity issued by the root, sign it with the root
// key and persist the pair under baseName in dir. Persistence refusals from
// the material store are returned untouched; nothing is partially persisted.
func issue(dir string, root *RootCredential, identity, baseName string,
	eku x509.ExtKeyUsage,
) (*LeafCredential, error) {
	log.Debugf("issuing certificate for %q signed by %q", identity, root.ClusterName)

	keyPair, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	cert, certPEM, err := createLeafCertificate(root, identity, eku, keyPair.Public())
	if err != nil {
		return nil, err
	}

	store := NewMaterialStore(dir)
	err = store.Write(baseName, &Material{
		Key:  keyPair.EncodePrivate(),
		Cert: certPEM,
	})
	if err != nil {
		return nil, err
	}

	return &LeafCredential{
		Identity:    identity,
		Certificate: cert,
		CertPEM:     certPEM,
		key:         keyPair.private,
	}, nil
}
