// Copyright 2025 The S3Logger Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package b2cs implements a storage backend that saves data to Backblaze B2 Cloud Storage.
package b2cs

import (
	"bytes"
	"context"
	"io"
	"time"

	b2api "github.com/kurin/blazer/b2"

	"github.com/multisig-labs/s3logger/cloud/storage"
	"github.com/multisig-labs/s3logger/errors"
)

// These constants define ACLs for writing data to B2 Cloud Storage
// Definitions according to https://www.backblaze.com/b2/docs/buckets.html
const (
	// Private means owner gets full access. No one else has access rights (default).
	Private = string(b2api.Private)
	// Public means owner gets full access, but everybody is allowed to
	// download the files in the bucket.
	Public = string(b2api.Public)
)

// Keys used for storing dial options.
const (
	bucketName = "b2csBucketName"
	account    = "b2csAccount"
	appKey     = "b2csAppKey"
	defaultACL = "defaultACL"
)

// b2csImpl is an implementation of Storage that connects to B2 Cloud Storage.
type b2csImpl struct {
	client  *b2api.Client
	bucket  *b2api.Bucket
	timeout time.Duration
}

// New initializes a Storage implementation that stores data to B2 Cloud
// Storage. The "b2csBucketName", "b2csAccount" and "b2csAppKey" options are
// required; "defaultACL" is optional and defaults to private.
func New(opts *storage.Opts) (storage.Storage, error) {
	const op errors.Op = "cloud/storage/b2cs.New"

	bucketNameOpt, ok := opts.Opts[bucketName]
	if !ok {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("%q option is required", bucketName))
	}
	accountOpt, ok := opts.Opts[account]
	if !ok {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("%q option is required", account))
	}
	appKeyOpt, ok := opts.Opts[appKey]
	if !ok {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("%q option is required", appKey))
	}
	acl, ok := opts.Opts[defaultACL]
	if !ok {
		acl = Private
	}
	if acl != Private && acl != Public {
		return nil, errors.E(op, errors.Invalid,
			errors.Errorf("valid ACL values for B2CS are %s and %s", Private, Public))
	}

	client, err := b2api.NewClient(context.Background(), accountOpt, appKeyOpt)
	if err != nil {
		return nil, errors.E(op, errors.IO, errors.Errorf("unable to create B2 session: %v", err))
	}
	bucket, err := client.Bucket(context.Background(), bucketNameOpt)
	if b2api.IsNotExist(err) {
		bucket, err = client.NewBucket(context.Background(), bucketNameOpt, &b2api.BucketAttrs{
			Type: b2api.BucketType(acl),
		})
	}
	if err != nil {
		return nil, errors.E(op, errors.IO, errors.Errorf("unable to obtain B2 bucket reference: %v", err))
	}

	return &b2csImpl{
		client:  client,
		bucket:  bucket,
		timeout: opts.Timeout,
	}, nil
}

func init() {
	storage.Register("B2CS", New)
}

// Guarantee we implement the Storage interface.
var _ storage.Storage = (*b2csImpl)(nil)

// ctx returns a context bounded by the dial timeout, if one was set.
func (b2 *b2csImpl) ctx() (context.Context, context.CancelFunc) {
	if b2.timeout > 0 {
		return context.WithTimeout(context.Background(), b2.timeout)
	}
	return context.Background(), func() {}
}

// Exists implements Storage.
func (b2 *b2csImpl) Exists(ref string) (bool, error) {
	const op errors.Op = "cloud/storage/b2cs.Exists"
	ctx, cancel := b2.ctx()
	defer cancel()
	_, err := b2.bucket.Object(ref).Attrs(ctx)
	if b2api.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.E(op, errors.IO, errors.Errorf(
			"unable to check ref %q in B2 bucket %q: %v", ref, b2.bucket.Name(), err))
	}
	return true, nil
}

// Download implements Storage.
func (b2 *b2csImpl) Download(ref string) ([]byte, error) {
	const op errors.Op = "cloud/storage/b2cs.Download"
	ctx, cancel := b2.ctx()
	defer cancel()
	buf := &bytes.Buffer{}
	r := b2.bucket.Object(ref).NewReader(ctx)
	defer r.Close()
	_, err := io.Copy(buf, r)
	if b2api.IsNotExist(err) {
		return nil, errors.E(op, errors.NotExist, err)
	}
	if err != nil {
		return nil, errors.E(op, errors.IO, errors.Errorf(
			"unable to download ref %q from B2 bucket %q: %v", ref, b2.bucket.Name(), err))
	}
	return buf.Bytes(), nil
}

// Put implements Storage.
func (b2 *b2csImpl) Put(ref string, contents []byte) error {
	const op errors.Op = "cloud/storage/b2cs.Put"
	ctx, cancel := b2.ctx()
	defer cancel()
	w := b2.bucket.Object(ref).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewBuffer(contents)); err != nil {
		w.Close()
		return errors.E(op, errors.IO, errors.Errorf(
			"unable to upload ref %q to B2 bucket %q: %v", ref, b2.bucket.Name(), err))
	}
	// The upload is committed on Close.
	if err := w.Close(); err != nil {
		return errors.E(op, errors.IO, errors.Errorf(
			"unable to upload ref %q to B2 bucket %q: %v", ref, b2.bucket.Name(), err))
	}
	return nil
}

// Delete implements Storage.
func (b2 *b2csImpl) Delete(ref string) error {
	const op errors.Op = "cloud/storage/b2cs.Delete"
	ctx, cancel := b2.ctx()
	defer cancel()
	err := b2.bucket.Object(ref).Delete(ctx)
	if b2api.IsNotExist(err) {
		return errors.E(op, errors.NotExist, err)
	}
	if err != nil {
		return errors.E(op, errors.IO, errors.Errorf(
			"unable to delete ref %q from B2 bucket %q: %v", ref, b2.bucket.Name(), err))
	}
	return nil
}

// Close implements Storage.
func (b2 *b2csImpl) Close() {
	b2.bucket = nil
	b2.client = nil
}

// deleteBucket removes the bucket and is used by tests for cleanup.
func (b2 *b2csImpl) deleteBucket() error {
	return b2.bucket.Delete(context.Background())
}
