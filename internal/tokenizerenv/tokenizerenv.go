// Package tokenizerenv prepares the process for github.com/sugarme/tokenizer, whose init
// creates a cache directory under $HOME, exiting the process when it cannot, and logs that
// directory through the standard logger. Import it ahead of that package; import paths
// that sort first initialise first.
package tokenizerenv

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// EnvKey is the variable the tokenizer package reads its cache directory from.
const EnvKey = "GO_TOKENIZER"

func init() {
	ensureCacheDir()
	log.SetOutput(io.Discard)
}

// ensureCacheDir points EnvKey at a temporary directory when the default cache under
// $HOME cannot be created. An explicit EnvKey is left alone.
func ensureCacheDir() {
	if os.Getenv(EnvKey) != "" {
		return
	}
	// Same path the tokenizer package derives, including for an empty $HOME.
	if err := os.MkdirAll(os.Getenv("HOME")+"/.cache/tokenizer", 0o755); err == nil {
		return
	}
	_ = os.Setenv(EnvKey, filepath.Join(os.TempDir(), "tc-tokenizer"))
}

// RestoreLog sends the standard logger back to stderr once the tokenizer package has
// initialised.
func RestoreLog() {
	log.SetOutput(os.Stderr)
}
