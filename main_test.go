package main

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(Streams{Stdin: strings.NewReader(stdin), Stdout: &stdout, Stderr: &stderr})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_CountsFilesWithEstimator(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.txt", "abcdefgh")               // 2
	b := writeFile(t, root, "b.txt", strings.Repeat("x", 400)) // 100

	stdout, stderr, err := executeCmd(t, "", "--tokenizer", "estimate", a, b)

	require.NoError(t, err)
	assert.Equal(t, "  2 "+a+"\n100 "+b+"\n102 total\n", stdout)
	assert.Empty(t, stderr)
}

func TestRootCmd_StdinByDefault(t *testing.T) {
	stdout, _, err := executeCmd(t, "abcdefgh", "--tokenizer", "estimate")

	require.NoError(t, err)
	assert.Equal(t, "2\n", stdout)
}

func TestRootCmd_RecursiveFlag(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "d/e/f.txt", "abcd")

	stdout, _, err := executeCmd(t, "", "--tokenizer", "estimate", root)
	require.NoError(t, err)
	assert.Equal(t, "tc: `"+root+"`: read: Is a directory\n", stdout)

	stdout, _, err = executeCmd(t, "", "--tokenizer", "estimate", "-r", root)
	require.NoError(t, err)
	assert.Equal(t, "1 "+filepath.Join(root, "d", "e", "f.txt")+"\n", stdout)
}

func TestRootCmd_UnknownTokenizerIsFatal(t *testing.T) {
	_, _, err := executeCmd(t, "ignored", "--tokenizer", "sentencepiece")

	assert.ErrorContains(t, err, "initializing tokenizer: unsupported tokenizer type")
}

func TestRootCmd_UnknownLanguageIsFatal(t *testing.T) {
	_, _, err := executeCmd(t, "", "--tokenizer", "estimate", "--lang", "klingon", "-r", ".")

	assert.ErrorContains(t, err, `unknown language "klingon"`)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	root := t.TempDir()
	cfg := writeFile(t, root, "tc.toml", "tokenizer = \"estimate\"\nrecursive = true\n")
	writeFile(t, root, "data/x.txt", "abcd")

	stdout, _, err := executeCmd(t, "", "--config", cfg, filepath.Join(root, "data"))

	require.NoError(t, err)
	assert.Equal(t, "1 "+filepath.Join(root, "data", "x.txt")+"\n", stdout)
}

func TestRootCmd_MissingConfigFileIsFatal(t *testing.T) {
	_, _, err := executeCmd(t, "", "--config", filepath.Join(t.TempDir(), "nope.toml"))

	assert.ErrorContains(t, err, "error reading config file")
}

func TestRootCmd_EnvironmentOverridesDefault(t *testing.T) {
	t.Setenv("TC_TOKENIZER", "estimate")

	stdout, _, err := executeCmd(t, "abcd")

	require.NoError(t, err)
	assert.Equal(t, "1\n", stdout)
}

func TestRootCmd_Clipboard(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { copyToClipboard = orig })

	stdout, _, err := executeCmd(t, "abcdefgh", "--tokenizer", "estimate", "-c")

	require.NoError(t, err)
	assert.Equal(t, "2\n", stdout)
	assert.Equal(t, stdout, copied)
}

func TestRootCmd_ClipboardFailureIsReported(t *testing.T) {
	orig := copyToClipboard
	copyToClipboard = func(string) error { return errors.New("no clipboard utilities available") }
	t.Cleanup(func() { copyToClipboard = orig })

	stdout, stderr, err := executeCmd(t, "abcd", "--tokenizer", "estimate", "--clipboard")

	require.NoError(t, err)
	assert.Equal(t, "1\n", stdout)
	assert.Equal(t, "tc: clipboard: no clipboard utilities available\n", stderr)
}

func TestInit_StandardLoggerWritesToStderr(t *testing.T) {
	assert.Equal(t, os.Stderr, log.Writer())
}
