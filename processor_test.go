package main

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessUnit_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "one two three")

	out := processUnit(wordTokenizer{}, Unit{Kind: UnitFile, Path: path, Label: path}, nil)

	require.NoError(t, out.Err)
	assert.Equal(t, 3, out.Tokens)
	assert.True(t, out.HasLabel)
	assert.Equal(t, path, out.Label)
}

func TestProcessUnit_Stdin(t *testing.T) {
	out := processUnit(wordTokenizer{}, Unit{Kind: UnitStdin}, strings.NewReader("a b c d"))

	require.NoError(t, out.Err)
	assert.Equal(t, 4, out.Tokens)
	assert.False(t, out.HasLabel)
}

func TestProcessUnit_StdinReadFailure(t *testing.T) {
	boom := errors.New("boom")
	out := processUnit(wordTokenizer{}, Unit{Kind: UnitStdin}, iotest.ErrReader(boom))

	var ioErr *IoError
	require.ErrorAs(t, out.Err, &ioErr)
	assert.ErrorIs(t, out.Err, boom)
	assert.Equal(t, "tc: `-`: read: boom", out.Err.Error())
}

func TestProcessUnit_VanishedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.txt")

	out := processUnit(wordTokenizer{}, Unit{Kind: UnitFile, Path: path, Label: path}, nil)

	var ioErr *IoError
	require.ErrorAs(t, out.Err, &ioErr)
	assert.ErrorIs(t, out.Err, fs.ErrNotExist)
	assert.Equal(t, path, out.Label)
	assert.Zero(t, out.Tokens)
}

func TestProcessUnit_Directory(t *testing.T) {
	dir := t.TempDir()

	out := processUnit(wordTokenizer{}, Unit{Kind: UnitDirectory, Path: dir, Label: dir}, nil)

	var dirErr *IsADirectoryError
	require.ErrorAs(t, out.Err, &dirErr)
	assert.Equal(t, "tc: `"+dir+"`: read: Is a directory", out.Err.Error())
}

func TestProcessUnit_InvalidUTF8(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bin", "ok \xff\xfe")

	out := processUnit(wordTokenizer{}, Unit{Kind: UnitFile, Path: path, Label: path}, nil)

	var encErr *EncodingError
	require.ErrorAs(t, out.Err, &encErr)
	assert.Equal(t, 3, encErr.Offset)
	assert.Contains(t, out.Err.Error(), "valid UTF-8")
}

func TestProcessUnit_TokenizerFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.txt", "this will FAIL")

	out := processUnit(wordTokenizer{}, Unit{Kind: UnitFile, Path: path, Label: path}, nil)

	var tokErr *TokenizationError
	require.ErrorAs(t, out.Err, &tokErr)
	assert.ErrorIs(t, out.Err, errRejected)
	assert.True(t, strings.HasPrefix(out.Err.Error(), "tc: `"+path+"`: tokenize: "))
}

func TestProcessUnit_PreloadedContentAndResolutionError(t *testing.T) {
	out := processUnit(wordTokenizer{}, Unit{Kind: UnitFile, Label: "https://example.com", Content: []byte("# Title\nbody")}, nil)
	require.NoError(t, out.Err)
	assert.Equal(t, 3, out.Tokens)

	cloneErr := errors.New("failed to clone repository: auth required")
	out = processUnit(wordTokenizer{}, Unit{Kind: UnitFile, Label: "git@host:r.git", Err: cloneErr}, nil)
	assert.ErrorIs(t, out.Err, cloneErr)
	assert.Equal(t, "git@host:r.git", out.Label)
}

func TestInvalidUTF8Offset(t *testing.T) {
	_, bad := invalidUTF8Offset([]byte("héllo"))
	assert.False(t, bad)

	offset, bad := invalidUTF8Offset([]byte("hé\x80"))
	assert.True(t, bad)
	assert.Equal(t, 3, offset)
}
