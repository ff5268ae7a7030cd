// pbkdf2-identifier-go: PBKDF2 parameter identification
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pbkdf2id finds the PRF primitive and iteration count that were used
// to derive a PBKDF2 hash from a known password and salt.
//
// Usage:
//
//	pbkdf2id -p hello -s FOWB3L4YoTcaPvzxtP+j/A== -H xrHVkBEQCyPCBcSzoQvMc0kOx8f51NKknd3dAQNeRZU=
//
// The exit status is 0 if the parameters were found, 1 if the search bound
// was exhausted, and 2 on any other error.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Process exit codes.
const (
	exitFound    = 0
	exitNotFound = 1
	exitError    = 2
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes the command line and maps the outcome to an exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitFound
	case errors.Is(err, errNotFound):
		return exitNotFound
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}
