// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// rsaKeySize is the fixed strength of every key pair issued by the authority.
const rsaKeySize = 4096

// KeyPair holds a freshly generated private key and its public half.
// The private key is sensitive material and must never be logged.
type KeyPair struct {
	private *rsa.PrivateKey
}

// GenerateKeyPair generates a new RSA key pair.
func GenerateKeyPair() (*KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeySize)
	if err != nil {
		return nil, fmt.Errorf("failed generating key pair: %w", err)
	}
	return &KeyPair{private: key}, nil
}

// Public returns the public half of the key pair.
func (k *KeyPair) Public() *rsa.PublicKey {
	return &k.private.PublicKey
}

// EncodePrivate returns the private key in PEM format.
func (k *KeyPair) EncodePrivate() []byte {
	keyPEM := new(bytes.Buffer)
	pem.Encode(keyPEM, &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(k.private),
	})
	return keyPEM.Bytes()
}

// parsePrivateKey parses a PEM encoded RSA private key.
func parsePrivateKey(keyPEM []byte) (*rsa.PrivateKey, error) {
	raw, err := ssh.ParseRawPrivateKey(keyPEM)
	if err != nil {
		return nil, err
	}
	key, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unexpected private key type %T", raw)
	}
	return key, nil
}
