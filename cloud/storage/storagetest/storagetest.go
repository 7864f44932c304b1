// Copyright 2025 The S3Logger Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storagetest implements simple types and utility functions to help test
// implementations of storage.Storage.
package storagetest

import (
	"errors"

	"github.com/multisig-labs/s3logger/cloud/storage"
)

// DummyStorage returns a no-op storage.Storage implementation.
// It is assignable to storage.Constructor; the opts are ignored.
func DummyStorage(opts *storage.Opts) (storage.Storage, error) {
	return &Dummy{}, nil
}

// Dummy is a dummy version of storage.Storage that does nothing.
type Dummy struct {
}

var _ storage.Storage = (*Dummy)(nil)

// Exists implements storage.Storage.
func (m *Dummy) Exists(ref string) (bool, error) {
	return false, nil
}

// Download implements storage.Storage.
func (m *Dummy) Download(ref string) ([]byte, error) {
	return nil, nil
}

// Put implements storage.Storage.
func (m *Dummy) Put(ref string, contents []byte) error {
	return nil
}

// Delete implements storage.Storage.
func (m *Dummy) Delete(ref string) error {
	return nil
}

// Close implements storage.Storage.
func (m *Dummy) Close() {
}

// ExpectDownloadCapturePut inspects all calls to Download with the
// given Ref and if it matches, it returns Data. Ref matches are strictly sequential.
// It also captures all Put requests.
type ExpectDownloadCapturePut struct {
	Dummy
	// Expectations for calls to Download
	Ref  []string
	Data [][]byte
	// Storage for calls to Put
	PutRef      []string
	PutContents [][]byte
	// PutErr, if non-nil, is returned by Put after capturing its arguments.
	PutErr error

	pos int // position of the next Ref to match
}

// Download implements storage.Storage.
func (e *ExpectDownloadCapturePut) Download(ref string) ([]byte, error) {
	if e.pos < len(e.Ref) && ref == e.Ref[e.pos] {
		data := e.Data[e.pos]
		e.pos++
		return data, nil
	}
	return nil, errors.New("not found")
}

// Put implements storage.Storage.
func (e *ExpectDownloadCapturePut) Put(ref string, contents []byte) error {
	e.PutRef = append(e.PutRef, ref)
	e.PutContents = append(e.PutContents, contents)
	return e.PutErr
}
