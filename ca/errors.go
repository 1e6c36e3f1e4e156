// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"errors"
	"fmt"
)

// ErrKeyExists is returned when an initialize operation would overwrite an
// existing private key file.
var ErrKeyExists = errors.New("key already exists")

// ErrCertificateExists is returned when an initialize operation would overwrite
// an existing certificate file.
var ErrCertificateExists = errors.New("certificate already exists")

// ErrInvalidIdentity is returned when a caller-supplied identity cannot be used
// as a credential subject.
var ErrInvalidIdentity = errors.New("invalid identity")

// PathError reports an unusable directory or a missing or unparsable material
// file. It wraps the underlying cause where one exists.
type PathError struct {
	Op   string // operation that failed, e.g. "write" or "load"
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: path unusable", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func newPathError(op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Err: err}
}
