// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/clusterhq/flocker-ca/utils"
)

// CredentialKind classifies an issued credential by its naming policy.
type CredentialKind string

const (
	KindRoot    CredentialKind = "root"
	KindControl CredentialKind = "control"
	KindNode    CredentialKind = "node"
	KindUser    CredentialKind = "user"
)

// CredentialInfo describes one credential found in an authority directory.
type CredentialInfo struct {
	BaseName string         `json:"name"`
	Kind     CredentialKind `json:"kind"`
	Subject  string         `json:"subject"`
	Issuer   string         `json:"issuer"`
	NotAfter time.Time      `json:"expires"`
}

// Inventory scans dir for credential material and describes every complete
// key/certificate pair found there. A certificate without its key (or the
// other way around) does not constitute a credential and is skipped.
func Inventory(dir string) ([]CredentialInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, newPathError("list", dir, err)
	}

	store := NewMaterialStore(dir)

	var infos []CredentialInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), CertFileSuffix) {
			continue
		}
		baseName := strings.TrimSuffix(entry.Name(), CertFileSuffix)

		if !utils.FileExists(store.KeyPath(baseName)) {
			log.Debugf("skipping %s: no matching key file", entry.Name())
			continue
		}

		certPEM, err := utils.ReadFileContent(store.CertPath(baseName))
		if err != nil {
			return nil, newPathError("list", store.CertPath(baseName), err)
		}
		cert, err := parseCertificate(certPEM)
		if err != nil {
			return nil, newPathError("list", store.CertPath(baseName), err)
		}

		infos = append(infos, CredentialInfo{
			BaseName: baseName,
			Kind:     kindForBaseName(baseName),
			Subject:  cert.Subject.CommonName,
			Issuer:   cert.Issuer.CommonName,
			NotAfter: cert.NotAfter,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].BaseName < infos[j].BaseName
	})

	return infos, nil
}

// kindForBaseName derives the credential kind from the file naming policy of
// the leaf kinds: fixed names for root and control service, UUIDs for nodes,
// anything else is a user name.
func kindForBaseName(baseName string) CredentialKind {
	switch {
	case baseName == RootBaseName:
		return KindRoot
	case baseName == ControlIdentity:
		return KindControl
	default:
		if _, err := uuid.Parse(baseName); err == nil {
			return KindNode
		}
		return KindUser
	}
}
