package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// wordTokenizer counts whitespace-separated words. Text containing FAIL is rejected.
type wordTokenizer struct{}

var errRejected = errors.New("rejected by tokenizer")

func (wordTokenizer) CountTokens(text string) (int, error) {
	if strings.Contains(text, "FAIL") {
		return 0, errRejected
	}
	return len(strings.Fields(text)), nil
}

func (wordTokenizer) Close() {}

// writeFile creates path (and its parents) under root with the given content.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// words returns a string of n words.
func words(n int) string {
	return strings.TrimSpace(strings.Repeat("w ", n))
}

func unitLabels(units []Unit) []string {
	labels := make([]string, len(units))
	for i, u := range units {
		labels[i] = u.Label
	}
	return labels
}
