// pbkdf2-identifier-go: PBKDF2 parameter identification
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/dark-bio/pbkdf2-identifier-go/identify"
	"github.com/dark-bio/pbkdf2-identifier-go/prf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var found = Report{Found: true, Algorithm: "HMAC-SHA512", Iterations: 526, Bound: 1000}

func TestFromResult(t *testing.T) {
	r := FromResult(identify.Result{Primitive: prf.HMACSHA512, Iterations: 526, Bound: 1000})
	assert.Equal(t, found, r)

	r = FromResult(identify.Result{Primitive: prf.HMACSHA512, Bound: 300})
	assert.Equal(t, Report{Found: false, Bound: 300}, r)
}

func TestMarshalText(t *testing.T) {
	data, err := Marshal(found, FormatText)
	require.NoError(t, err)
	assert.Equal(t, "Found!\nAlgorithm: HMAC-SHA512\nIterations: 526\n", string(data))

	data, err = Marshal(Report{Bound: 10}, FormatText)
	require.NoError(t, err)
	assert.Equal(t, "Not found!\n", string(data))
}

func TestMarshalJSON(t *testing.T) {
	data, err := Marshal(found, FormatJSON)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, true, got["found"])
	assert.Equal(t, "HMAC-SHA512", got["algorithm"])
	assert.EqualValues(t, 526, got["iterations"])
	assert.EqualValues(t, 1000, got["bound"])

	data, err = Marshal(Report{Bound: 10}, FormatJSON)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "algorithm")
}

func TestMarshalYAML(t *testing.T) {
	data, err := Marshal(found, FormatYAML)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "HMAC-SHA512", got["algorithm"])
	assert.Equal(t, 526, got["iterations"])
}

func TestMarshalCBOR(t *testing.T) {
	data, err := Marshal(found, FormatCBOR)
	require.NoError(t, err)

	// {1: true, 2: "HMAC-SHA512", 3: 526, 4: 1000}
	want, _ := hex.DecodeString("a401f5026b484d41432d534841353132031902" + "0e041903e8")
	assert.Equal(t, want, data)
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	got, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, got)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, found, FormatText))
	assert.Contains(t, buf.String(), "Iterations: 526")

	assert.Error(t, Write(&buf, found, "xml"))
}
