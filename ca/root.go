// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// RootBaseName is the file base name of the cluster root credential, yielding
// cluster.key and cluster.crt within the authority directory.
const RootBaseName = "cluster"

// RootCredential is the self-signed key and certificate pair at the top of the
// cluster trust hierarchy. It is created once per directory and never mutated.
type RootCredential struct {
	// ClusterName is the cluster name used as the root subject common name.
	ClusterName string
	// Certificate is the self-signed CA certificate.
	Certificate *x509.Certificate
	// CertPEM is the PEM encoding of Certificate.
	CertPEM []byte

	key *rsa.PrivateKey
}

// InitializeRoot creates a new certificate authority in dir: it generates a
// key pair, self-signs a CA certificate with subject and issuer set to
// clusterName and persists the pair as cluster.key/cluster.crt. Existing
// material at those paths causes a refusal with ErrKeyExists or
// ErrCertificateExists; an unusable directory yields a PathError.
func InitializeRoot(dir, clusterName string) (*RootCredential, error) {
	log.Debugf("initializing certificate authority %q in %s", clusterName, dir)

	keyPair, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	cert, certPEM, err := createRootCertificate(clusterName, keyPair)
	if err != nil {
		return nil, err
	}

	store := NewMaterialStore(dir)
	err = store.Write(RootBaseName, &Material{
		Key:  keyPair.EncodePrivate(),
		Cert: certPEM,
	})
	if err != nil {
		return nil, err
	}

	return &RootCredential{
		ClusterName: clusterName,
		Certificate: cert,
		CertPEM:     certPEM,
		key:         keyPair.private,
	}, nil
}

// RootFromPath loads an existing certificate authority from dir. Missing or
// unparsable material yields a PathError, as does material that is not a
// self-signed CA pair.
func RootFromPath(dir string) (*RootCredential, error) {
	store := NewMaterialStore(dir)

	material, err := store.Read(RootBaseName)
	if err != nil {
		return nil, err
	}

	cert, err := parseCertificate(material.Cert)
	if err != nil {
		return nil, newPathError("load", store.CertPath(RootBaseName), err)
	}
	key, err := parsePrivateKey(material.Key)
	if err != nil {
		return nil, newPathError("load", store.KeyPath(RootBaseName), err)
	}

	// sanity check that what we loaded really is our own trust root
	if err := checkRootMaterial(cert, key); err != nil {
		return nil, newPathError("load", store.CertPath(RootBaseName), err)
	}

	return &RootCredential{
		ClusterName: cert.Subject.CommonName,
		Certificate: cert,
		CertPEM:     material.Cert,
		key:         key,
	}, nil
}

// checkRootMaterial verifies the loaded pair is a self-signed CA certificate
// matching the private key.
func checkRootMaterial(cert *x509.Certificate, key *rsa.PrivateKey) error {
	if !cert.IsCA {
		return fmt.Errorf("certificate is not a certificate authority")
	}
	if !bytes.Equal(cert.RawIssuer, cert.RawSubject) {
		return fmt.Errorf("certificate is not self-signed")
	}
	if !key.PublicKey.Equal(cert.PublicKey) {
		return fmt.Errorf("private key does not match certificate")
	}
	return nil
}
