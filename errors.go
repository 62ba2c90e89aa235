package main

import (
	"errors"
	"fmt"
)

// errIsDirectory is the cause carried by IsADirectoryError.
var errIsDirectory = errors.New("Is a directory")

// PatternError is returned for an argument whose glob syntax is malformed.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("tc: `%s`: invalid pattern: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// MatchError is a filesystem failure while enumerating a pattern's matches.
type MatchError struct {
	Path string
	Err  error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("tc: `%s`: %v", e.Path, e.Err)
}

func (e *MatchError) Unwrap() error { return e.Err }

// IsADirectoryError is produced for a directory matched while recursion is off.
type IsADirectoryError struct {
	Path string
}

func (e *IsADirectoryError) Error() string {
	return fmt.Sprintf("tc: `%s`: read: %v", e.Path, errIsDirectory)
}

func (e *IsADirectoryError) Unwrap() error { return errIsDirectory }

// IoError wraps a failure to open or read an input.
type IoError struct {
	Label string
	Err   error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("tc: `%s`: read: %v", e.Label, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// EncodingError reports content that is not valid UTF-8.
// It is reported like an IoError.
type EncodingError struct {
	Label  string
	Offset int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("tc: `%s`: read: stream did not contain valid UTF-8 (byte %d)", e.Label, e.Offset)
}

// TokenizationError wraps a failure returned by the tokenizer.
type TokenizationError struct {
	Label string
	Err   error
}

func (e *TokenizationError) Error() string {
	return fmt.Sprintf("tc: `%s`: tokenize: %v", e.Label, e.Err)
}

func (e *TokenizationError) Unwrap() error { return e.Err }

// stdinLabel names standard input in diagnostics; count lines omit it.
const stdinLabel = "-"
