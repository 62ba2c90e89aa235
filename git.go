package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// isGitURL checks if the input string looks like a remote Git repository.
// A bare "foo.git" is a local path; only scp-style or scheme URLs qualify.
func isGitURL(input string) bool {
	if strings.HasPrefix(input, "git@") {
		return true
	}
	return strings.Contains(input, "://") && strings.HasSuffix(input, ".git")
}

// cloneGitRepo shallow-clones url into a temporary directory and returns its path.
func cloneGitRepo(ctx context.Context, url string, logger *zap.Logger) (string, error) {
	tempDir, err := os.MkdirTemp("", "tc-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	logger.Debug("cloning repository", zap.String("url", url), zap.String("dir", tempDir))
	_, err = git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
		URL:           url,
		Depth:         1,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone repository: %w", err)
	}

	logger.Debug("finished cloning", zap.String("url", url))
	return tempDir, nil
}
