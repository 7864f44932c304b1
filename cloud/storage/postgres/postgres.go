// Copyright 2025 The S3Logger Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package postgres implements a storage backend for interfacing with a Postgres database.
package postgres

import (
	"bytes"
	"database/sql"
	"fmt"

	// Required when importing this package.
	_ "github.com/lib/pq"

	"github.com/multisig-labs/s3logger/cloud/storage"
	"github.com/multisig-labs/s3logger/errors"
	"github.com/multisig-labs/s3logger/log"
)

// postgres is a Storage that connects to a Postgres backend.
// It likely won't work with other SQL databases because of a few
// Postgres-isms such as how "upsert" is handled.
type postgres struct {
	db *sql.DB
}

var _ storage.Storage = (*postgres)(nil)

// New creates a Storage connected to a Postgres database. The dial
// options are joined into a lib/pq connection string, so the option
// names are those of the driver (dbname, user, sslmode...).
func New(opts *storage.Opts) (storage.Storage, error) {
	const op errors.Op = "cloud/storage/postgres.New"
	optStr := buildOptStr(opts)
	log.Printf("Connecting and creating table with options [%s]", optStr)
	db, err := sql.Open("postgres", optStr)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	// We need a dummy primary key so that we can build a unique index on ref.
	_, err = db.Exec(
		`CREATE TABLE IF NOT EXISTS logs (
	             id SERIAL PRIMARY KEY,
	             ref varchar(8000) UNIQUE NOT NULL,
	             data text NOT NULL
	         )`)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	return &postgres{db: db}, nil
}

func init() {
	err := storage.Register("Postgres", New)
	if err != nil {
		log.Fatal(err)
	}
}

// Exists implements storage.Storage.
func (p *postgres) Exists(ref string) (bool, error) {
	const op errors.Op = "cloud/storage/postgres.Exists"
	var dummy int
	err := p.db.QueryRow("SELECT 1 FROM logs WHERE ref = $1;", ref).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.E(op, errors.IO, err)
	}
	return true, nil
}

// Download implements storage.Storage.
func (p *postgres) Download(ref string) ([]byte, error) {
	const op errors.Op = "cloud/storage/postgres.Download"
	var data string
	// QueryRow with $1 parameters ensures we don't have SQL escape problems.
	err := p.db.QueryRow("SELECT data FROM logs WHERE ref = $1;", ref).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.E(op, errors.NotExist, err)
	}
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	return []byte(data), nil
}

// Put implements storage.Storage.
func (p *postgres) Put(ref string, contents []byte) error {
	const op errors.Op = "cloud/storage/postgres.Put"
	res, err := p.db.Exec(
		`INSERT INTO logs (ref, data) values ($1, $2) ON CONFLICT (ref) DO UPDATE SET data = $2;`,
		ref, string(contents))
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		// No information. Assume success.
		return nil
	}
	if n != 1 {
		// Something went wrong.
		return errors.E(op, errors.IO, errors.Errorf("spurious updates in SQL DB, expected 1, got %d", n))
	}
	return nil
}

// Delete implements storage.Storage.
func (p *postgres) Delete(ref string) error {
	const op errors.Op = "cloud/storage/postgres.Delete"
	_, err := p.db.Exec("DELETE FROM logs WHERE ref = $1", ref)
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

func buildOptStr(opts *storage.Opts) string {
	var b bytes.Buffer
	first := true
	for k, v := range opts.Opts {
		if !first {
			fmt.Fprintf(&b, " %s=%s", k, v)
		} else {
			fmt.Fprintf(&b, "%s=%s", k, v)
			first = false
		}
	}
	return b.String()
}

// Close implements storage.Storage.
func (p *postgres) Close() {
	p.db.Close()
	p.db = nil
}
