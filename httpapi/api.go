// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

// Package httpapi implements the control service REST API. It currently
// exposes read-only version and configuration resources; mutual-TLS
// authentication with credentials issued by the ca package is a future
// integration point.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/clusterhq/flocker-ca/ca"
)

const (
	versionSchemaRef       = "/v1/endpoints.json#/definitions/versions"
	configurationSchemaRef = "/v1/endpoints.json#/definitions/configuration"
)

// Config carries everything the API needs at construction time.
type Config struct {
	// Version is the software version reported by GET /v1/version.
	Version string
	// CADir is the certificate authority directory backing the
	// configuration resource.
	CADir string
	// Schemas holds the response body schemas.
	Schemas SchemaStore
}

// API is the control service REST resource layer.
type API struct {
	version string
	caDir   string
	schemas SchemaStore
}

// New validates the configuration and returns the API. Every handler's
// response schema must resolve in the schema store, so a broken schema
// document fails here rather than at request time.
func New(cfg Config) (*API, error) {
	for _, ref := range []string{versionSchemaRef, configurationSchemaRef} {
		if _, err := cfg.Schemas.Resolve(ref); err != nil {
			return nil, err
		}
	}

	return &API{
		version: cfg.Version,
		caDir:   cfg.CADir,
		schemas: cfg.Schemas,
	}, nil
}

// Router returns the HTTP handler with all routes registered.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/version", a.getVersion)
	r.Get("/v1/configuration", a.getConfiguration)
	return r
}

// getVersion returns the flocker version string.
func (a *API) getVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"flocker": a.version})
}

// configurationResponse is the body of GET /v1/configuration, matching the
// configuration definition in the endpoints schema document.
type configurationResponse struct {
	Cluster     string              `json:"cluster"`
	Credentials []ca.CredentialInfo `json:"credentials"`
}

// getConfiguration returns the cluster name and the credential inventory of
// the authority directory.
func (a *API) getConfiguration(w http.ResponseWriter, _ *http.Request) {
	infos, err := ca.Inventory(a.caDir)
	if err != nil {
		log.Errorf("failed reading configuration: %v", err)
		writeJSON(w, http.StatusInternalServerError,
			map[string]string{"description": "unable to read cluster configuration"})
		return
	}

	resp := configurationResponse{Credentials: infos}
	for _, info := range infos {
		if info.Kind == ca.KindRoot {
			resp.Cluster = info.Subject
			break
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed writing response: %v", err)
	}
}
