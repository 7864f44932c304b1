// Copyright 2025 The S3Logger Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storage implements a low-level interface for storing blobs in
// stable storage such as a cloud object store or a database.
package storage

import (
	"strings"
	"time"

	"github.com/multisig-labs/s3logger/errors"
)

// Storage is a low-level storage interface for services to store their data
// permanently. Storage implementations must be safe for concurrent use.
type Storage interface {
	// Exists reports whether an object with the given ref is present
	// on the storage backend.
	Exists(ref string) (bool, error)

	// Download retrieves the bytes associated with a ref.
	Download(ref string) ([]byte, error)

	// Put stores the contents under ref on the storage backend,
	// replacing any existing contents.
	Put(ref string, contents []byte) error

	// Delete permanently removes all storage space associated
	// with a ref.
	Delete(ref string) error

	// Close closes the connection to the storage backend and releases
	// all resources used. It must be called only once.
	Close()
}

// Constructor is a function that creates a Storage.
// It is parameterized by the Opts assembled from the dial options.
type Constructor func(*Opts) (Storage, error)

var registration = make(map[string]Constructor)

// Opts holds configuration options for the storage backend.
// It is meant to be used by implementations of Storage.
type Opts struct {
	Opts    map[string]string // key-value pairs
	Timeout time.Duration
}

// DialOpts is a daisy-chaining mechanism for setting options to a backend during Dial.
type DialOpts func(*Opts) error

// Register registers a new Storage constructor under a name.
// It is typically used in init functions.
func Register(name string, fn Constructor) error {
	const op errors.Op = "cloud/storage.Register"
	if _, exists := registration[name]; exists {
		return errors.E(op, errors.Exist)
	}
	registration[name] = fn
	return nil
}

// WithTimeout sets a maximum duration for calls to the storage backend.
// Backends that cannot enforce deadlines ignore it.
func WithTimeout(timeout time.Duration) DialOpts {
	return func(o *Opts) error {
		o.Timeout = timeout
		return nil
	}
}

// WithOptions parses a string in the format "key1=value1,key2=value2,..." where keys and values
// are specific to each storage backend. Neither key nor value may contain the characters "," or "=".
// Use WithKeyValue repeatedly if these characters need to be used.
func WithOptions(options string) DialOpts {
	const op errors.Op = "cloud/storage.WithOptions"
	return func(o *Opts) error {
		pairs := strings.Split(options, ",")
		for _, p := range pairs {
			kv := strings.Split(p, "=")
			if len(kv) != 2 {
				return errors.E(op, errors.Invalid, errors.Errorf("error parsing option %q", p))
			}
			o.Opts[kv[0]] = kv[1]
		}
		return nil
	}
}

// WithKeyValue sets a key-value pair as option. If called multiple times with the same key, the last one wins.
func WithKeyValue(key, value string) DialOpts {
	return func(o *Opts) error {
		o.Opts[key] = value
		return nil
	}
}

// Dial dials the named storage backend using the dial options opts.
func Dial(name string, opts ...DialOpts) (Storage, error) {
	const op errors.Op = "cloud/storage.Dial"
	fn, found := registration[name]
	if !found {
		return nil, errors.E(op, errors.NotExist, errors.Str("storage backend type not registered"))
	}
	dOpts := &Opts{
		Opts: make(map[string]string),
	}
	for _, o := range opts {
		if o != nil {
			if err := o(dOpts); err != nil {
				return nil, err
			}
		}
	}
	return fn(dOpts)
}
