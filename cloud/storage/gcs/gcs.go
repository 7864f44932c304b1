// Copyright 2025 The S3Logger Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcs implements a storage backend that saves data to Google Cloud Storage.
package gcs

import (
	"context"
	"io"
	"time"

	gcsBE "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/multisig-labs/s3logger/cloud/storage"
	"github.com/multisig-labs/s3logger/errors"
	"github.com/multisig-labs/s3logger/log"
)

// These constants define ACLs for writing data to Google Cloud Store.
// Definitions according to
// https://cloud.google.com/storage/docs/access-control/lists#predefined-acl
const (
	// PublicRead means project team owners get owner access and all users get reader access.
	PublicRead = "publicRead"
	// Private means project team owners get owner access.
	Private = "private"
	// ProjectPrivate means project team members get access according to their roles.
	ProjectPrivate = "projectPrivate"
	// BucketOwnerFullCtrl means the object owner gets owner access and project team owners get owner access.
	BucketOwnerFullCtrl = "bucketOwnerFullControl"
)

// Keys used for storing dial options.
const (
	bucketName = "gcpBucketName"
	defaultACL = "defaultACL"
)

// gcsImpl is an implementation of Storage that connects to a Google Cloud
// Storage (GCS) backend.
type gcsImpl struct {
	client          *gcsBE.Client
	bucket          *gcsBE.BucketHandle
	bucketName      string
	defaultWriteACL string
	timeout         time.Duration
}

// New initializes a Storage implementation that stores data to Google Cloud
// Storage. The "gcpBucketName" option is required; "defaultACL" is optional
// and defaults to the bucket's default object ACL.
func New(opts *storage.Opts) (storage.Storage, error) {
	const op errors.Op = "cloud/storage/gcs.New"

	bucket, ok := opts.Opts[bucketName]
	if !ok {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("%q option is required", bucketName))
	}

	// Authentication is provided by the gcloud tool when running locally, and
	// by the associated service account when running on Compute Engine.
	client, err := gcsBE.NewClient(context.Background(), option.WithScopes(gcsBE.ScopeFullControl))
	if err != nil {
		return nil, errors.E(op, errors.IO, errors.Errorf("unable to create storage client: %s", err))
	}

	return &gcsImpl{
		client:          client,
		bucket:          client.Bucket(bucket),
		bucketName:      bucket,
		defaultWriteACL: opts.Opts[defaultACL],
		timeout:         opts.Timeout,
	}, nil
}

func init() {
	storage.Register("GCS", New)
}

// Guarantee we implement the Storage interface.
var _ storage.Storage = (*gcsImpl)(nil)

// ctx returns a context bounded by the dial timeout, if one was set.
func (gcs *gcsImpl) ctx() (context.Context, context.CancelFunc) {
	if gcs.timeout > 0 {
		return context.WithTimeout(context.Background(), gcs.timeout)
	}
	return context.Background(), func() {}
}

// Exists implements Storage.
func (gcs *gcsImpl) Exists(ref string) (bool, error) {
	const op errors.Op = "cloud/storage/gcs.Exists"
	ctx, cancel := gcs.ctx()
	defer cancel()
	_, err := gcs.bucket.Object(ref).Attrs(ctx)
	if err == gcsBE.ErrObjectNotExist {
		return false, nil
	}
	if err != nil {
		return false, errors.E(op, errors.IO, err)
	}
	return true, nil
}

// Download implements Storage.
func (gcs *gcsImpl) Download(ref string) ([]byte, error) {
	const op errors.Op = "cloud/storage/gcs.Download"
	ctx, cancel := gcs.ctx()
	defer cancel()
	r, err := gcs.bucket.Object(ref).NewReader(ctx)
	if err == gcsBE.ErrObjectNotExist {
		return nil, errors.E(op, errors.NotExist, err)
	}
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	defer r.Close()
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	return buf, nil
}

// Put implements Storage.
func (gcs *gcsImpl) Put(ref string, contents []byte) error {
	const op errors.Op = "cloud/storage/gcs.Put"
	ctx, cancel := gcs.ctx()
	defer cancel()
	w := gcs.bucket.Object(ref).NewWriter(ctx)
	w.PredefinedACL = gcs.defaultWriteACL
	if _, err := w.Write(contents); err != nil {
		w.Close()
		return errors.E(op, errors.IO, err)
	}
	// The write is committed on Close; most errors surface here.
	if err := w.Close(); err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

// Delete implements Storage.
func (gcs *gcsImpl) Delete(ref string) error {
	const op errors.Op = "cloud/storage/gcs.Delete"
	ctx, cancel := gcs.ctx()
	defer cancel()
	if err := gcs.bucket.Object(ref).Delete(ctx); err != nil {
		if err == gcsBE.ErrObjectNotExist {
			return errors.E(op, errors.NotExist, errors.Str(ref))
		}
		return errors.E(op, errors.IO, err)
	}
	return nil
}

// emptyBucket completely removes all files in a bucket permanently.
// If verbose is true, every attempt to delete a file is logged to the standard logger.
// This is an expensive operation. It is also dangerous, so use with care.
// Not part of the Storage interface. Use for testing only.
func (gcs *gcsImpl) emptyBucket(verbose bool) error {
	var firstErr error
	it := gcs.bucket.Objects(context.Background(), nil)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			log.Error.Printf("emptyBucket: List(%q): %v", gcs.bucketName, err)
			break
		}
		if verbose {
			log.Printf("Deleting: %q", attrs.Name)
		}
		if err := gcs.Delete(attrs.Name); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			log.Error.Printf("emptyBucket: Delete(%q): %v", attrs.Name, err)
		}
	}
	return firstErr
}

// Close implements Storage.
func (gcs *gcsImpl) Close() {
	gcs.client.Close()
	gcs.client = nil
	gcs.bucket = nil
}
