// Copyright 2025 The S3Logger Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"io"
	"testing"
)

const (
	op  = Op("Op")
	op1 = Op("Op1")
	op2 = Op("Op2")
)

func TestSeparator(t *testing.T) {
	defer func(prev string) {
		Separator = prev
	}(Separator)
	Separator = ":: "

	// Single error.
	err := E(Op("Download"), IO, "network unreachable")

	// Nested error.
	err = E(Op("Flush"), Other, err)

	want := "Flush: I/O error:: Download: network unreachable"
	if err.Error() != want {
		t.Errorf("expected %q; got %q", want, err)
	}
}

func TestDoesNotChangePreviousError(t *testing.T) {
	err := E(Permission)
	err2 := E(Op("I will NOT modify err"), err)

	expected := "I will NOT modify err: permission denied"
	if err2.Error() != expected {
		t.Fatalf("Expected %q, got %q", expected, err2)
	}
	kind := err.(*Error).Kind
	if kind != Permission {
		t.Fatalf("Expected kind %v, got %v", Permission, kind)
	}
}

func TestNoArgs(t *testing.T) {
	defer func() {
		err := recover()
		if err == nil {
			t.Fatal("E() did not panic")
		}
	}()
	_ = E()
}

type matchTest struct {
	err1, err2 error
	matched    bool
}

var matchTests = []matchTest{
	// Errors not of type *Error fail outright.
	{nil, nil, false},
	{io.EOF, io.EOF, false},
	{E(io.EOF), io.EOF, false},
	{io.EOF, E(io.EOF), false},
	// Success. We can drop fields from the first argument and still match.
	{E(io.EOF), E(io.EOF), true},
	{E(op, Invalid, io.EOF), E(op, Invalid, io.EOF), true},
	{E(op, Invalid), E(op, Invalid, io.EOF), true},
	{E(op), E(op, Invalid, io.EOF), true},
	// Failure.
	{E(io.EOF), E(io.ErrClosedPipe), false},
	{E(op1), E(op2), false},
	{E(Invalid), E(Permission), false},
	{E(op, Invalid, io.EOF), E(op, Invalid, io.ErrClosedPipe), false},
	{E(op, Str("something")), E(op), false}, // Test nil error on rhs.
	// Nested *Errors.
	{E(op1, E(op2)), E(op1, E(op2)), true},
	{E(op1), E(op1, E(op2)), true},
	{E(op1, E(op2)), E(op1, Str(E(op2).Error())), false},
}

func TestMatch(t *testing.T) {
	for _, test := range matchTests {
		matched := Match(test.err1, test.err2)
		if matched != test.matched {
			t.Errorf("Match(%q, %q)=%t; want %t", test.err1, test.err2, matched, test.matched)
		}
	}
}

type kindTest struct {
	err  error
	kind Kind
	want bool
}

var kindTests = []kindTest{
	// Non-Error errors.
	{nil, NotExist, false},
	{Str("not an *Error"), NotExist, false},

	// Basic comparisons.
	{E(NotExist), NotExist, true},
	{E(Exist), NotExist, false},
	{E("no kind"), NotExist, false},
	{E("no kind"), Other, false},

	// Nested *Error values.
	{E("Nesting", E(NotExist)), NotExist, true},
	{E("Nesting", E(Exist)), NotExist, false},
	{E("Nesting", E("no kind")), NotExist, false},
	{E("Nesting", E("no kind")), Other, false},
}

func TestKind(t *testing.T) {
	for _, test := range kindTests {
		got := Is(test.kind, test.err)
		if got != test.want {
			t.Errorf("Is(%v, %q)=%t; want %t", test.kind, test.err, got, test.want)
		}
	}
}

// TestKindCollapse verifies that nesting an error inside another of the
// same kind does not repeat the kind in the message.
func TestKindCollapse(t *testing.T) {
	inner := E(Op("Download"), IO, "network unreachable")
	outer := E(Op("Flush"), IO, inner)

	want := "Flush: I/O error:\n\tDownload: network unreachable"
	if outer.Error() != want {
		t.Errorf("expected %q; got %q", want, outer)
	}
	if !Is(IO, outer) {
		t.Errorf("expected outer error to have kind IO")
	}
}
