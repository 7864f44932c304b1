// Copyright 2025 The S3Logger Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package s3logger buffers text log lines in memory and flushes them to
// a single object in a blob store. A flush downloads the object, merges
// the buffered lines into its content and writes the whole object back,
// so infrequent writers can share one durable log without keeping a
// connection open between flushes.
//
// The store is reached through the narrow cloud/storage.Storage
// interface. Backends register themselves on import; a host that wants
// the Amazon S3 backend, for instance, imports
// cloud/storage/amazons3 for its side effects and dials it by name:
//
//	import _ "github.com/multisig-labs/s3logger/cloud/storage/amazons3"
//
//	logger, err := s3logger.Dial("S3", "service.log",
//		storage.WithKeyValue("s3BucketName", "my-bucket"))
//
// A Logger does no internal locking. It expects a single logical owner:
// confine it to one goroutine or serialize access around it. FlushAsync
// lends the Logger to the flushing goroutine until the result arrives
// on the returned channel.
package s3logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/multisig-labs/s3logger/cloud/storage"
	"github.com/multisig-labs/s3logger/errors"
	"github.com/multisig-labs/s3logger/log"
)

// TimestampMode selects how logged lines are stamped.
type TimestampMode int

const (
	// NoTimestamp stores lines exactly as given. It is the default for
	// every constructor.
	NoTimestamp TimestampMode = iota

	// PerEntry prefixes each line with the wall clock time at which Log
	// was called.
	PerEntry

	// PerFlush replaces the remote content with a single line holding
	// the flush time, then appends the buffered lines. The content
	// from earlier flushes is discarded; what remains is a "last
	// flushed at" marker followed by the newest lines.
	PerFlush
)

func (m TimestampMode) String() string {
	switch m {
	case NoTimestamp:
		return "none"
	case PerEntry:
		return "per-entry"
	case PerFlush:
		return "per-flush"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Time formats, in time.Format reference notation. PerEntry keeps
// nanosecond resolution and the zone offset so interleaved sources can
// be ordered after the fact; PerFlush marks whole flushes and needs
// only second resolution.
const (
	entryStampFormat = "2006-01-02 15:04:05.999999999 -07:00"
	flushStampFormat = "2006-01-02 15:04:05"
)

// Logger accumulates lines and flushes them to one remote object.
type Logger struct {
	store   storage.Storage
	name    string
	pending []string
	mode    TimestampMode
	mirror  bool
	echo    io.Writer

	// timeNow is called for timestamps. nil means time.Now; tests
	// substitute a fixed clock.
	timeNow func() time.Time
}

// New creates a Logger that appends to the object called name in the
// given store. If the object does not exist it is created empty, so a
// Logger always has a base to merge into. The store is owned by the
// Logger from here on and is released by Close.
func New(store storage.Storage, name string) (*Logger, error) {
	const op errors.Op = "s3logger.New"

	if name == "" {
		return nil, errors.E(op, errors.Invalid, errors.Str("object name must not be empty"))
	}
	if store == nil {
		return nil, errors.E(op, errors.Invalid, errors.Str("store must not be nil"))
	}
	ok, err := store.Exists(name)
	if err != nil {
		return nil, errors.E(op, err)
	}
	if !ok {
		// Two Loggers racing here both write empty content, so either
		// outcome is fine.
		if err := store.Put(name, nil); err != nil {
			return nil, errors.E(op, err)
		}
	}
	return &Logger{
		store: store,
		name:  name,
	}, nil
}

// Dial connects to a registered storage backend and returns a Logger
// appending to the object called name there. It is shorthand for
// storage.Dial followed by New.
func Dial(backend, name string, opts ...storage.DialOpts) (*Logger, error) {
	const op errors.Op = "s3logger.Dial"

	store, err := storage.Dial(backend, opts...)
	if err != nil {
		return nil, errors.E(op, err)
	}
	l, err := New(store, name)
	if err != nil {
		store.Close()
		return nil, errors.E(op, err)
	}
	return l, nil
}

// Name returns the name of the remote object this Logger appends to.
func (l *Logger) Name() string {
	return l.name
}

// Pending returns the number of lines buffered since the last
// successful flush.
func (l *Logger) Pending() int {
	return len(l.pending)
}

// SetTimestampMode sets how lines are stamped from now on. Lines
// already buffered keep the stamp they were given when logged.
func (l *Logger) SetTimestampMode(mode TimestampMode) {
	l.mode = mode
}

// SetMirror sets whether a successful flush also appends the merged
// content to a local file named after the remote object.
func (l *Logger) SetMirror(mirror bool) {
	l.mirror = mirror
}

// SetEcho sets a writer that receives each line as it is logged,
// stamped the same way the buffer is. Echo failures are ignored; pass
// nil to disable.
func (l *Logger) SetEcho(w io.Writer) {
	l.echo = w
}

// Log buffers one line, stamping it according to the timestamp mode. A
// newline is appended; the line itself may not contain one. Log does no
// I/O on the store and cannot fail.
func (l *Logger) Log(line string) {
	if l.mode == PerEntry {
		line = l.now().Format(entryStampFormat) + ": " + line
	}
	line += "\n"
	l.pending = append(l.pending, line)
	if l.echo != nil {
		io.WriteString(l.echo, line)
	}
}

// Flush merges the buffered lines into the remote object. The object is
// downloaded, checked to be valid UTF-8, extended with the buffered
// lines (PerFlush mode replaces the old content with a timestamp line
// instead) and written back whole.
//
// The buffer is cleared only once the remote write has succeeded; on
// any earlier failure the buffered lines stay put, so a later Flush
// retries them without loss or duplication. A mirror failure after a
// successful remote write clears the buffer and reports kind
// errors.Mirror, meaning the remote copy is good but the local one is
// behind.
func (l *Logger) Flush() error {
	const op errors.Op = "s3logger.Flush"

	base, err := l.store.Download(l.name)
	if err != nil {
		return errors.E(op, err)
	}
	if _, _, err := transform.Bytes(encoding.UTF8Validator, base); err != nil {
		return errors.E(op, errors.Decode, err)
	}

	var buf bytes.Buffer
	if l.mode == PerFlush {
		fmt.Fprintf(&buf, "%s\n", l.now().Format(flushStampFormat))
	} else {
		buf.Write(base)
	}
	for _, line := range l.pending {
		buf.WriteString(line)
	}
	merged := buf.Bytes()

	if err := l.store.Put(l.name, merged); err != nil {
		return errors.E(op, err)
	}

	var mirrorErr error
	if l.mirror {
		mirrorErr = appendFile(l.name, merged)
	}

	n := len(l.pending)
	l.pending = nil
	log.Debug.Printf("s3logger: flushed %d lines to %q", n, l.name)

	if mirrorErr != nil {
		return errors.E(op, errors.Mirror, mirrorErr)
	}
	return nil
}

// FlushAsync runs Flush on its own goroutine and returns a channel that
// delivers the single result. The merge is the one Flush performs, so
// both ways of flushing leave the remote object byte-identical for the
// same input. The Logger belongs to the flushing goroutine until the
// result is received.
func (l *Logger) FlushAsync() <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- l.Flush()
	}()
	return done
}

// Close releases the connection to the storage backend. It does not
// flush; lines logged since the last flush are discarded.
func (l *Logger) Close() {
	l.store.Close()
}

func (l *Logger) now() time.Time {
	if l.timeNow != nil {
		return l.timeNow()
	}
	return time.Now()
}

// appendFile appends contents to the named file, creating it if needed.
func appendFile(name string, contents []byte) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	_, err = f.Write(contents)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
