// pbkdf2-identifier-go: PBKDF2 parameter identification
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dark-bio/pbkdf2-identifier-go/identify"
	"github.com/dark-bio/pbkdf2-identifier-go/internal/config"
	"github.com/dark-bio/pbkdf2-identifier-go/internal/encodingext"
	"github.com/dark-bio/pbkdf2-identifier-go/internal/report"
	"github.com/dark-bio/pbkdf2-identifier-go/prf"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// errNotFound signals an exhausted search. The report has already been
// written when it is returned.
var errNotFound = errors.New("parameters not found")

// options holds the raw command line flags.
type options struct {
	password   string
	hash       string
	salt       string
	maxIters   int
	format     string
	algorithm  string
	output     string
	parallel   bool
	configPath string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "pbkdf2id",
		Short: "Identify the parameters of a PBKDF2 hash",
		Long: `pbkdf2id finds the PRF primitive and the iteration count that were used to
derive a PBKDF2 hash, given the password and the salt that produced it.

Every candidate primitive is advanced one iteration at a time and compared
against the hash after each step, so a search up to N iterations costs N PRF
calls per primitive.`,
		Example: `  pbkdf2id -p hello -s FOWB3L4YoTcaPvzxtP+j/A== -H xrHVkBEQCyPCBcSzoQvMc0kOx8f51NKknd3dAQNeRZU=
  pbkdf2id -p password -f hex -s 73616c74 -H 120fb6cf... -a HMAC-SHA256 -m 5000`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIdentify(cmd, opts)
		},
	}
	names := []string{config.AllAlgorithms}
	for _, p := range prf.Primitives() {
		names = append(names, p.Name())
	}
	formats := make([]string, len(report.Formats))
	for i, f := range report.Formats {
		formats[i] = string(f)
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.password, "password", "p", "", "the password that was used to generate the hash")
	flags.StringVarP(&opts.hash, "hash", "H", "", "the PBKDF2 hash")
	flags.StringVarP(&opts.salt, "salt", "s", "", "the salt that was used to generate the hash, can be empty")
	flags.IntVarP(&opts.maxIters, "max", "m", 0, fmt.Sprintf("the max number of iterations to check (default %d)", identify.DefaultMaxIterations))
	flags.StringVarP(&opts.format, "format", "f", "", "encoding of the hash and salt: base64 or hex (default base64)")
	flags.StringVarP(&opts.algorithm, "algorithm", "a", "", "the algorithm to verify: "+strings.Join(names, ", ")+" (default all)")
	flags.StringVarP(&opts.output, "output", "o", "", "output format: "+strings.Join(formats, ", ")+" (default text)")
	flags.BoolVar(&opts.parallel, "parallel", false, "search every algorithm on its own goroutine")
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log search progress to stderr")

	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("hash")
	_ = cmd.MarkFlagRequired("salt")

	cmd.AddCommand(newPrimitivesCommand())
	return cmd
}

func newPrimitivesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "primitives",
		Short: "List the supported algorithms in tie-break order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, p := range prf.Primitives() {
				fmt.Fprintln(cmd.OutOrStdout(), p.Name())
			}
			return nil
		},
	}
}

// runIdentify resolves the configuration, decodes the inputs and runs the
// search.
func runIdentify(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

	format, _ := encodingext.ParseFormat(cfg.Format)
	output, _ := report.ParseFormat(cfg.Output)
	prims, _ := cfg.Primitives()

	dec := encodingext.Decoder{Format: format}
	hash, err := dec.Decode("hash", opts.hash)
	if err != nil {
		return err
	}
	salt, err := dec.Decode("salt", opts.salt)
	if err != nil {
		return err
	}
	logger.Debug("starting search",
		"algorithms", len(prims),
		"max_iterations", cfg.MaxIterations,
		"parallel", cfg.Parallel,
		"hash_length", len(hash),
		"salt_length", len(salt),
	)
	start := time.Now()

	res, err := search(cmd.Context(), []byte(opts.password), hash, salt, cfg, prims)
	if err != nil {
		logger.Warn("search aborted", "error", err, "elapsed", time.Since(start))
		return err
	}
	logger.Debug("search finished",
		"found", res.Found(),
		"bound", res.Bound,
		"elapsed", time.Since(start),
	)
	if err := report.Write(cmd.OutOrStdout(), report.FromResult(res), output); err != nil {
		return err
	}
	if !res.Found() {
		return errNotFound
	}
	return nil
}

// applyFlags overrides configuration values with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *options) {
	flags := cmd.Flags()
	if flags.Changed("max") {
		cfg.MaxIterations = opts.maxIters
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("algorithm") {
		cfg.Algorithm = opts.algorithm
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if flags.Changed("parallel") {
		cfg.Parallel = opts.parallel
	}
}

// search dispatches to the parallel or the lockstep engine. The lockstep
// engine cannot be interrupted, so it runs detached and is abandoned if the
// context is cancelled first.
func search(ctx context.Context, password, hash, salt []byte, cfg *config.Config, prims []prf.Primitive) (identify.Result, error) {
	if cfg.Parallel {
		return identify.PrimitivesParallel(ctx, password, hash, salt, cfg.MaxIterations, prims...)
	}
	done := make(chan identify.Result, 1)
	go func() {
		if len(prims) == 1 {
			n, _ := identify.IterationsWithin(password, hash, salt, prims[0], cfg.MaxIterations)
			done <- identify.Result{Primitive: prims[0], Iterations: n, Bound: effectiveBound(cfg.MaxIterations)}
			return
		}
		done <- identify.Primitives(password, hash, salt, cfg.MaxIterations, prims...)
	}()
	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return identify.Result{}, ctx.Err()
	}
}

func effectiveBound(maxIters int) int {
	if maxIters <= 0 {
		return identify.DefaultMaxIterations
	}
	return maxIters
}

// newLogger creates the diagnostics logger. Secrets and inputs are never
// passed to it, only their lengths.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
