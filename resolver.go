package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Resolution is everything one argument expanded to. Diagnostics hold PatternError and
// MatchError values; they are reported on stderr and never become outcomes.
type Resolution struct {
	Units       []Unit
	Diagnostics []error
}

// Resolver expands raw arguments into units. A single Resolver may resolve several
// arguments concurrently.
type Resolver struct {
	Recursive bool
	Gitignore bool
	Languages *languageFilter // nil means every file found by descent is kept
	LinkDepth int
	Client    *http.Client
	Logger    *zap.Logger

	// clone fetches a git repository into a fresh directory. Tests replace it.
	clone func(ctx context.Context, url string, logger *zap.Logger) (string, error)

	mu       sync.Mutex
	tempDirs []string
}

// NewResolver returns a Resolver with network collaborators wired.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{
		Client: &http.Client{Timeout: defaultFetchTimeout},
		Logger: logger,
		clone:  cloneGitRepo,
	}
}

// Resolve expands arg. It never fails as a whole; problems end up in Diagnostics or as
// units that carry an error.
func (r *Resolver) Resolve(ctx context.Context, arg string) Resolution {
	var res Resolution
	switch {
	case arg == stdinLabel:
		res.Units = append(res.Units, Unit{Kind: UnitStdin})
	case isGitURL(arg):
		r.resolveGit(ctx, arg, &res)
	case isWebURL(arg):
		res.Units = append(res.Units, fetchPages(ctx, r.Client, arg, r.LinkDepth, r.Logger)...)
	default:
		r.resolvePattern(arg, &res)
	}
	return res
}

// Cleanup removes directories created while resolving (git clones).
func (r *Resolver) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dir := range r.tempDirs {
		r.Logger.Debug("removing temporary directory", zap.String("dir", dir))
		_ = os.RemoveAll(dir)
	}
	r.tempDirs = nil
}

func (r *Resolver) resolvePattern(pattern string, res *Resolution) {
	matches, matchErrs, err := expandGlob(pattern)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, &PatternError{Pattern: pattern, Err: err})
		return
	}
	res.Diagnostics = append(res.Diagnostics, matchErrs...)

	// `**` patterns match a directory and its contents, so the same file can be reached twice.
	seen := make(map[string]bool)
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, &MatchError{Path: match, Err: unwrapPathError(err)})
			continue
		}
		if !info.IsDir() {
			addFile(res, seen, match, match)
			continue
		}
		if !r.Recursive {
			res.Units = append(res.Units, Unit{Kind: UnitDirectory, Path: match, Label: match})
			continue
		}
		r.descend(match, r.newDescentFilter(match, false), identityLabel, seen, res)
	}
}

func (r *Resolver) resolveGit(ctx context.Context, url string, res *Resolution) {
	dir, err := r.clone(ctx, url, r.Logger)
	if err != nil {
		res.Units = append(res.Units, Unit{Kind: UnitFile, Label: url, Err: err})
		return
	}
	r.mu.Lock()
	r.tempDirs = append(r.tempDirs, dir)
	r.mu.Unlock()

	base := strings.TrimSuffix(url, ".git")
	label := func(path string) string {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return path
		}
		return base + "/" + filepath.ToSlash(rel)
	}
	// A repository is always counted as a tree, whatever the recursion flag says.
	r.descend(dir, r.newDescentFilter(dir, true), label, make(map[string]bool), res)
}

// descend walks root depth-first with an explicit stack, so deeply nested trees do not
// grow the call stack. Children are handled as literal paths, never as patterns, and come
// out in os.ReadDir order with each subdirectory's contents at the subdirectory's position.
func (r *Resolver) descend(root string, filter *descentFilter, label func(string) string, seen map[string]bool, res *Resolution) {
	visited := make(map[string]bool)
	stack := []string{root}
	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := os.Stat(path)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, &MatchError{Path: label(path), Err: unwrapPathError(err)})
			continue
		}
		if !info.IsDir() {
			if filter.keepFile(path) {
				addFile(res, seen, path, label(path))
			}
			continue
		}

		// Symlinked directories can point back up the tree.
		if real, err := filepath.EvalSymlinks(path); err == nil {
			if visited[real] {
				r.Logger.Debug("skipping already visited directory", zap.String("dir", path))
				continue
			}
			visited[real] = true
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, &MatchError{Path: label(path), Err: unwrapPathError(err)})
			continue
		}
		for i := len(entries) - 1; i >= 0; i-- {
			child := filepath.Join(path, entries[i].Name())
			if filter.skipEntry(child, entries[i]) {
				continue
			}
			stack = append(stack, child)
		}
	}
}

func addFile(res *Resolution, seen map[string]bool, path, label string) {
	if seen[path] {
		return
	}
	seen[path] = true
	res.Units = append(res.Units, Unit{Kind: UnitFile, Path: path, Label: label})
}

func identityLabel(path string) string { return path }

// isWebURL checks if the input string is an HTTP/HTTPS URL.
func isWebURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}
