package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opik-go/wireschema/types"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(types.Registry())
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestList(t *testing.T) {
	out, _, err := run(t, "", "list")
	require.NoError(t, err)
	assert.Equal(t, "JsonListString\nMultipartUploadPart\n", out)
}

func TestValidate(t *testing.T) {
	out, _, err := run(t, `{"e_tag":"abc","part_number":3}`, "validate", "MultipartUploadPart")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	_, errOut, err := run(t, `{"e_tag":"abc"}`, "validate", "MultipartUploadPart")
	require.Error(t, err)
	assert.Contains(t, errOut, "/part_number\tmissing_field")

	_, _, err = run(t, `{}`, "validate", "Nope")
	assert.Error(t, err)
}

func TestRoundtrip_YAMLInJSONOut(t *testing.T) {
	out, _, err := run(t, "e_tag: abc\npart_number: 3\nextra: true\n",
		"roundtrip", "MultipartUploadPart", "--input", "yaml")
	require.NoError(t, err)
	assert.JSONEq(t, `{"e_tag":"abc","part_number":3}`, out)
}

func TestRoundtrip_YAMLOut(t *testing.T) {
	out, _, err := run(t, `[{"a":1}]`, "roundtrip", "JsonListString", "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "- a: 1\n", out)
}

func TestJSONSchema(t *testing.T) {
	out, _, err := run(t, "", "jsonschema", "MultipartUploadPart")
	require.NoError(t, err)
	assert.Contains(t, out, `"part_number"`)
	assert.Contains(t, out, `"number"`)
}

func TestConfig_StrictDuplicates(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "opts.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("parse:\n  strictness:\n    onDuplicateKey: error\n"), 0o600))

	_, errOut, err := run(t, `{"e_tag":"a","e_tag":"b","part_number":1}`,
		"validate", "MultipartUploadPart", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, errOut, "duplicate_key")
}

func TestValidate_Dump(t *testing.T) {
	out, _, err := run(t, `{"e_tag":"abc","part_number":3}`, "validate", "MultipartUploadPart", "--dump")
	require.NoError(t, err)
	assert.Contains(t, out, "ETag: (string) (len=3) \"abc\"")
	assert.Contains(t, out, "PartNumber: (float64) 3")
}

func TestValidate_ManyFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"e_tag":"a","part_number":1}`), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte(`{"e_tag":"a"}`), 0o600))

	out, errOut, err := run(t, "", "validate", "MultipartUploadPart", good, bad, "-j", "2")
	require.Error(t, err)
	assert.Equal(t, good+": valid\n", out)
	assert.Contains(t, errOut, bad+": invalid payload: 1 issue(s)")
	assert.Contains(t, errOut, "/part_number\tmissing_field")
	assert.Contains(t, err.Error(), "1 of 2 file(s) invalid")

	out, _, err = run(t, "", "validate", "MultipartUploadPart", good, good)
	require.NoError(t, err)
	assert.Equal(t, good+": valid\n"+good+": valid\n", out)
}
