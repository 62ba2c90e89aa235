package main

import (
	"io"
	"os"
	"unicode/utf8"
)

// processUnit reads one unit in full and counts its tokens. Every failure is returned inside
// the Outcome; nothing is printed here.
func processUnit(tk Tokenizer, unit Unit, stdin io.Reader) Outcome {
	switch unit.Kind {
	case UnitDirectory:
		return Outcome{Label: unit.Label, HasLabel: true, Err: &IsADirectoryError{Path: unit.Label}}

	case UnitStdin:
		content := unit.Content
		if content == nil {
			var err error
			content, err = io.ReadAll(stdin)
			if err != nil {
				return Outcome{Err: &IoError{Label: stdinLabel, Err: err}}
			}
		}
		return countContent(tk, Outcome{}, stdinLabel, content)

	default:
		out := Outcome{Label: unit.Label, HasLabel: true}
		if unit.Err != nil {
			out.Err = &IoError{Label: unit.Label, Err: unit.Err}
			return out
		}
		content := unit.Content
		if content == nil {
			// The file may have vanished since it was matched; that is a normal read failure.
			var err error
			content, err = os.ReadFile(unit.Path)
			if err != nil {
				out.Err = &IoError{Label: unit.Label, Err: unwrapPathError(err)}
				return out
			}
		}
		return countContent(tk, out, unit.Label, content)
	}
}

// countContent validates content as UTF-8 and hands it to the tokenizer.
func countContent(tk Tokenizer, out Outcome, label string, content []byte) Outcome {
	if offset, ok := invalidUTF8Offset(content); ok {
		out.Err = &EncodingError{Label: label, Offset: offset}
		return out
	}
	n, err := tk.CountTokens(string(content))
	if err != nil {
		out.Err = &TokenizationError{Label: label, Err: err}
		return out
	}
	out.Tokens = n
	return out
}

// invalidUTF8Offset returns the byte offset of the first invalid sequence, if any.
func invalidUTF8Offset(b []byte) (int, bool) {
	if utf8.Valid(b) {
		return 0, false
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i, true
		}
		i += size
	}
	return 0, false
}

// unwrapPathError drops the op and path from an *os.PathError; the label already names the file.
func unwrapPathError(err error) error {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err
	}
	return err
}
