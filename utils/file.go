// Copyright ClusterHQ Inc.
// Licensed under the Apache License, Version 2.0.
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileExists returns true if the given path exists and is a regular file.
func FileExists(filename string) bool {
	f, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !f.IsDir()
}

// DirExists returns true if the given path exists and is a directory.
func DirExists(path string) bool {
	f, err := os.Stat(path)
	if err != nil {
		return false
	}
	return f.IsDir()
}

// ReadFileContent reads and returns the content of a file.
func ReadFileContent(file string) ([]byte, error) {
	if !FileExists(file) {
		return nil, fmt.Errorf("file %s does not exist", file)
	}

	return os.ReadFile(file)
}

// WriteFileAtomic writes content to file by writing a temporary file in the
// same directory first and renaming it into place, so a crash mid-write never
// leaves a truncated file behind. The final file carries the given permissions.
func WriteFileAtomic(file string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(file)

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(content); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}

	return os.Rename(tmpPath, file)
}
