// Copyright 2025 The S3Logger Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disk provides a storage.Storage that stores data on local disk.
package disk

import (
	"os"
	"path/filepath"

	"github.com/multisig-labs/s3logger/cloud/storage"
	"github.com/multisig-labs/s3logger/cloud/storage/disk/internal/local"
	"github.com/multisig-labs/s3logger/errors"
)

// New initializes and returns a disk-backed storage.Storage with the given
// options. The single, required option is "basePath" that must be a
// path under which all objects should be stored.
func New(opts *storage.Opts) (storage.Storage, error) {
	const op errors.Op = "cloud/storage/disk.New"

	base, ok := opts.Opts["basePath"]
	if !ok {
		return nil, errors.E(op, errors.Invalid, "the basePath option must be specified")
	}
	if err := os.MkdirAll(base, 0700); err != nil {
		return nil, errors.E(op, errors.IO, err)
	}

	return &storageImpl{base: base}, nil
}

func init() {
	storage.Register("Disk", New)
}

type storageImpl struct {
	base string
}

var _ storage.Storage = (*storageImpl)(nil)

// Exists implements storage.Storage.
func (s *storageImpl) Exists(ref string) (bool, error) {
	const op errors.Op = "cloud/storage/disk.Exists"
	_, err := os.Stat(s.path(ref))
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, errors.E(op, errors.IO, err)
	}
	return true, nil
}

// Download implements storage.Storage.
func (s *storageImpl) Download(ref string) ([]byte, error) {
	const op errors.Op = "cloud/storage/disk.Download"
	b, err := os.ReadFile(s.path(ref))
	if os.IsNotExist(err) {
		return nil, errors.E(op, errors.NotExist, errors.Str(ref))
	} else if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	return b, nil
}

// Put implements storage.Storage.
func (s *storageImpl) Put(ref string, contents []byte) error {
	const op errors.Op = "cloud/storage/disk.Put"
	p := s.path(ref)
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return errors.E(op, errors.IO, err)
	}
	if err := os.WriteFile(p, contents, 0600); err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

// Delete implements storage.Storage.
func (s *storageImpl) Delete(ref string) error {
	const op errors.Op = "cloud/storage/disk.Delete"
	if err := os.Remove(s.path(ref)); os.IsNotExist(err) {
		return errors.E(op, errors.NotExist, errors.Str(ref))
	} else if err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

// Close implements storage.Storage.
func (s *storageImpl) Close() {
}

// path returns the absolute path that should contain ref.
func (s *storageImpl) path(ref string) string {
	return local.Path(s.base, ref)
}
