package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
)

// expandGlob expands pattern one path segment at a time. A "**" segment matches zero or more
// directories; as the last segment it matches the directory and everything below it.
// Directories that cannot be read are reported as MatchErrors and skipped, and every other
// match is still returned. Malformed syntax is the only whole-pattern failure.
func expandGlob(pattern string) ([]string, []error, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, nil, err
	}

	g := &globber{reported: make(map[string]bool)}
	if !hasMeta(pattern) {
		if _, err := os.Lstat(pattern); err != nil {
			g.fail(pattern, err)
			return nil, g.errs, nil
		}
		return []string{pattern}, nil, nil
	}

	base, segs := splitPattern(pattern)
	g.expand(base, segs)
	return g.matches, g.errs, nil
}

type globber struct {
	matches  []string
	errs     []error
	reported map[string]bool
}

func (g *globber) expand(dir string, segs []string) {
	if len(segs) == 0 {
		g.matches = append(g.matches, dir)
		return
	}
	seg, rest := segs[0], segs[1:]

	switch {
	case seg == "**":
		g.walk(dir, rest)

	case !hasMeta(seg):
		path := joinGlob(dir, seg)
		if len(rest) > 0 {
			g.expand(path, rest)
			return
		}
		if _, err := os.Lstat(path); err != nil {
			g.fail(path, err)
			return
		}
		g.matches = append(g.matches, path)

	default:
		for _, e := range g.readDir(dir) {
			// The pattern was validated up front, so Match cannot fail here.
			if ok, _ := filepath.Match(seg, e.Name()); !ok {
				continue
			}
			g.expand(joinGlob(dir, e.Name()), rest)
		}
	}
}

// walk handles a "**" segment rooted at dir. Symlinked directories are not followed.
func (g *globber) walk(dir string, rest []string) {
	root := dirOrDot(dir)
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			g.fail(path, err)
			return nil
		}
		if len(rest) == 0 {
			g.matches = append(g.matches, path)
			return nil
		}
		if d.IsDir() {
			if path == root {
				path = dir
			}
			g.expand(path, rest)
		}
		return nil
	})
}

// readDir lists dir, keeping whatever entries were read before a failure.
func (g *globber) readDir(dir string) []fs.DirEntry {
	entries, err := os.ReadDir(dirOrDot(dir))
	if err != nil {
		g.fail(dirOrDot(dir), err)
	}
	return entries
}

// fail records err against path once. Missing paths and non-directories are plain
// non-matches, not errors.
func (g *globber) fail(path string, err error) {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return
	}
	if g.reported[path] {
		return
	}
	g.reported[path] = true
	g.errs = append(g.errs, &MatchError{Path: path, Err: unwrapPathError(err)})
}

// splitPattern separates the literal directory prefix from the segments that need matching.
// The prefix is kept as typed so labels look like the argument.
func splitPattern(pattern string) (string, []string) {
	sep := string(filepath.Separator)
	first := strings.IndexAny(pattern, metaChars())
	base, rest := "", pattern
	if i := strings.LastIndex(pattern[:first], sep); i == 0 {
		base, rest = sep, pattern[1:]
	} else if i > 0 {
		base, rest = pattern[:i], pattern[i+1:]
	}

	var segs []string
	for _, s := range strings.Split(rest, sep) {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return base, segs
}

func joinGlob(dir, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

func dirOrDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

func metaChars() string {
	if runtime.GOOS == "windows" {
		return `*?[`
	}
	return `*?[\`
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, metaChars())
}
