package main

import (
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// descentFilter decides which children of a directory are visited during recursive
// descent. Explicitly named files never pass through it.
type descentFilter struct {
	ignore     gitignore.IgnoreMatcher
	skipGitDir bool
	langs      *languageFilter
}

func (r *Resolver) newDescentFilter(root string, repo bool) *descentFilter {
	f := &descentFilter{
		skipGitDir: repo || r.Gitignore,
		langs:      r.Languages,
	}
	if !r.Gitignore {
		return f
	}
	// Only the .gitignore at the descent root is honoured.
	gitIgnorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitIgnorePath); err != nil {
		return f
	}
	matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
	if err != nil {
		r.Logger.Warn("could not parse .gitignore", zap.String("path", gitIgnorePath), zap.Error(err))
		return f
	}
	f.ignore = matcher
	return f
}

// skipEntry reports whether a directory child should not be visited at all.
func (f *descentFilter) skipEntry(path string, d fs.DirEntry) bool {
	isDir := d.IsDir()
	if isDir && f.skipGitDir && d.Name() == ".git" {
		return true
	}
	return f.ignore != nil && f.ignore.Match(path, isDir)
}

// keepFile applies the language restriction to a file found by descent.
func (f *descentFilter) keepFile(path string) bool {
	return f.langs == nil || f.langs.Matches(path)
}
