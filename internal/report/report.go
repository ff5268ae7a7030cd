// pbkdf2-identifier-go: PBKDF2 parameter identification
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders identification results for the command line.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dark-bio/pbkdf2-identifier-go/identify"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format is an output format for reports.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCBOR}

// Report is the presentation form of an identify.Result. The CBOR encoding
// uses small integer keys.
type Report struct {
	Found      bool   `json:"found" yaml:"found" cbor:"1,keyasint"`
	Algorithm  string `json:"algorithm,omitempty" yaml:"algorithm,omitempty" cbor:"2,keyasint,omitempty"`
	Iterations int    `json:"iterations,omitempty" yaml:"iterations,omitempty" cbor:"3,keyasint,omitempty"`
	Bound      int    `json:"bound" yaml:"bound" cbor:"4,keyasint"`
}

// FromResult converts a search result into a report.
func FromResult(res identify.Result) Report {
	r := Report{Found: res.Found(), Bound: res.Bound}
	if r.Found {
		r.Algorithm = res.Primitive.Name()
		r.Iterations = res.Iterations
	}
	return r
}

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML, FormatCBOR:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format '%s': must be one of text, json, yaml, cbor", s)
	}
}

// Marshal encodes the report in the given format.
func Marshal(r Report, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return marshalText(r), nil
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to format as JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to format as YAML: %w", err)
		}
		return data, nil
	case FormatCBOR:
		mode, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
		}
		data, err := mode.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to format as CBOR: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Write encodes the report and writes it to w.
func Write(w io.Writer, r Report, format Format) error {
	data, err := Marshal(r, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func marshalText(r Report) []byte {
	if !r.Found {
		return []byte("Not found!\n")
	}
	return fmt.Appendf(nil, "Found!\nAlgorithm: %s\nIterations: %d\n", r.Algorithm, r.Iterations)
}
