// Package gitsync commits and pushes wrap notes written into a git-backed vault.
package gitsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	lockName    = "chatwrap-sync.lock"
	lockTimeout = 5 * time.Minute
	syncTimeout = 30 * time.Second
)

var (
	ErrNotRepo = errors.New("gitsync: not inside a git repository")
	ErrLocked  = errors.New("gitsync: another sync is in progress")
)

// Result describes what a sync did.
type Result struct {
	Committed bool
	Pushed    bool
	Hash      string // short HEAD after the commit
}

// Sync stages everything under the repository containing dir, commits it
// with message and pushes. A rejected push is retried once after
// pull --rebase; a conflicting rebase is aborted and the commit kept local.
// Push failures are logged, not returned.
func Sync(ctx context.Context, dir, message string, log *slog.Logger) (Result, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	root := findGitRoot(dir)
	if root == "" {
		return Result{}, ErrNotRepo
	}

	lockPath := filepath.Join(root, ".git", lockName)
	if !acquireLock(lockPath) {
		return Result{}, ErrLocked
	}
	defer releaseLock(lockPath)

	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	if _, err := runGit(ctx, root, "add", "-A"); err != nil {
		return Result{}, fmt.Errorf("gitsync: stage: %w", err)
	}

	// exit 0 means nothing staged
	if _, err := runGit(ctx, root, "diff", "--cached", "--quiet"); err == nil {
		log.Debug("vault has no changes", "repo", root)
		return Result{}, nil
	}

	if _, err := runGit(ctx, root, "commit", "-m", message); err != nil {
		return Result{}, fmt.Errorf("gitsync: commit: %w", err)
	}
	res := Result{Committed: true}
	res.Hash, _ = runGit(ctx, root, "rev-parse", "--short", "HEAD")
	log.Info("committed vault", "repo", root, "hash", res.Hash)

	res.Pushed = push(ctx, root, log)
	if res.Pushed {
		// a rebase rewrites the commit
		res.Hash, _ = runGit(ctx, root, "rev-parse", "--short", "HEAD")
	}
	return res, nil
}

func push(ctx context.Context, root string, log *slog.Logger) bool {
	out, err := runGit(ctx, root, "push")
	if err == nil {
		return true
	}
	log.Debug("push rejected, rebasing", "err", err, "output", out)

	if out, err := runGit(ctx, root, "pull", "--rebase"); err != nil {
		log.Warn("pull --rebase failed, keeping commit local", "err", err, "output", out)
		runGit(ctx, root, "rebase", "--abort")
		return false
	}
	if out, err := runGit(ctx, root, "push"); err != nil {
		log.Warn("push failed", "err", err, "output", out)
		return false
	}
	return true
}

// findGitRoot walks up from dir to the first directory holding a .git dir.
// Returns "" when there is none.
func findGitRoot(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		if isGitRepo(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func isGitRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

func acquireLock(path string) bool {
	// Check for stale lock
	if info, err := os.Stat(path); err == nil {
		if time.Since(info.ModTime()) > lockTimeout {
			os.Remove(path)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return false // lock exists, another sync in progress
	}
	f.Close()
	return true
}

func releaseLock(path string) {
	os.Remove(path)
}

// runGit runs git in dir and returns its trimmed combined output.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", dir}, args...)
	out, err := exec.CommandContext(ctx, "git", fullArgs...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
