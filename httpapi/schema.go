// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package httpapi

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed schemas/types.yml
var typesYAML []byte

//go:embed schemas/endpoints.yml
var endpointsYAML []byte

// SchemaStore holds the JSON schema documents describing the REST API bodies,
// keyed by their document path. It is constructed once at startup and passed
// by reference to the API; there is no process-wide schema state.
type SchemaStore map[string]interface{}

// NewSchemaStore parses the embedded schema documents.
func NewSchemaStore() (SchemaStore, error) {
	store := SchemaStore{}

	for path, raw := range map[string][]byte{
		"/v1/types.json":     typesYAML,
		"/v1/endpoints.json": endpointsYAML,
	} {
		var doc map[string]interface{}
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed parsing schema document %s: %w", path, err)
		}
		store[path] = doc
	}

	return store, nil
}

// Resolve returns the schema a reference of the form
// /v1/endpoints.json#/definitions/versions points at.
func (s SchemaStore) Resolve(ref string) (interface{}, error) {
	docPath, fragment, found := strings.Cut(ref, "#")
	if !found {
		return nil, fmt.Errorf("schema reference %q has no fragment", ref)
	}

	current, ok := s[docPath]
	if !ok {
		return nil, fmt.Errorf("unknown schema document %q", docPath)
	}

	for _, segment := range strings.Split(strings.Trim(fragment, "/"), "/") {
		current, ok = lookupKey(current, segment)
		if !ok {
			return nil, fmt.Errorf("schema reference %q not found", ref)
		}
	}

	return current, nil
}

// lookupKey indexes into a decoded YAML mapping regardless of how the decoder
// keyed it.
func lookupKey(node interface{}, key string) (interface{}, bool) {
	switch m := node.(type) {
	case map[string]interface{}:
		v, ok := m[key]
		return v, ok
	case map[interface{}]interface{}:
		v, ok := m[key]
		return v, ok
	default:
		return nil, false
	}
}
