// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"time"
)

const (
	// rootValidity is the validity window of the self-signed cluster
	// certificate.
	rootValidity = 87600 * time.Hour // 10 years

	// leafValidity is the validity window of certificates signed by the
	// cluster root. It is clamped to the root's own expiry.
	leafValidity = 8760 * time.Hour // 1 year
)

// newSerialNumber returns a random 128-bit certificate serial number.
func newSerialNumber() (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), 128)
	serial, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return nil, fmt.Errorf("failed generating serial number: %w", err)
	}
	return serial, nil
}

// createRootCertificate builds and self-signs the cluster CA certificate.
// It returns the parsed certificate and its PEM encoding.
func createRootCertificate(clusterName string, key *KeyPair) (*x509.Certificate, []byte, error) {
	serial, err := newSerialNumber()
	if err != nil {
		return nil, nil, err
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName: clusterName,
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(rootValidity),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key.private)
	if err != nil {
		return nil, nil, fmt.Errorf("failed creating root certificate: %w", err)
	}

	return finishCertificate(der)
}

// createLeafCertificate builds a certificate for the given identity and signs
// it with the root key. The CA flag is never set on leaf certificates and
// their validity never outlives the root's.
func createLeafCertificate(root *RootCredential, identity string,
	eku x509.ExtKeyUsage, pub *rsa.PublicKey,
) (*x509.Certificate, []byte, error) {
	serial, err := newSerialNumber()
	if err != nil {
		return nil, nil, err
	}

	notAfter := time.Now().Add(leafValidity)
	if notAfter.After(root.Certificate.NotAfter) {
		notAfter = root.Certificate.NotAfter
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName: identity,
		},
		NotBefore:   time.Now(),
		NotAfter:    notAfter,
		ExtKeyUsage: []x509.ExtKeyUsage{eku},
		KeyUsage:    x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, root.Certificate, pub, root.key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed signing certificate for %q: %w", identity, err)
	}

	return finishCertificate(der)
}

// finishCertificate parses the freshly created DER bytes back and encodes them
// as PEM.
func finishCertificate(der []byte) (*x509.Certificate, []byte, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, err
	}

	certPEM := new(bytes.Buffer)
	pem.Encode(certPEM, &pem.Block{
		Type:  "CERTIFICATE",
		Bytes: der,
	})

	return cert, certPEM.Bytes(), nil
}

// parseCertificate parses a PEM encoded certificate.
func parseCertificate(certPEM []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, fmt.Errorf("no PEM data found")
	}
	return x509.ParseCertificate(block.Bytes)
}
