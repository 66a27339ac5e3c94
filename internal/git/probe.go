// Package git shells out to the git client for the remote-ahead probe.
// All queries run against a configured checkout directory; none of them
// touch an interactive surface.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultFetchTimeout is the maximum time to wait for a fetch operation.
	DefaultFetchTimeout = 30 * time.Second
)

// Fetch performs a git fetch origin for the given checkout.
// It uses a context with timeout to prevent hanging on network issues.
func Fetch(repoDir string) error {
	return FetchWithTimeout(repoDir, DefaultFetchTimeout)
}

// FetchWithTimeout performs a git fetch with a custom timeout.
func FetchWithTimeout(repoDir string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "-C", repoDir, "fetch", "origin")
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("git fetch timed out after %v", timeout)
		}
		return fmt.Errorf("git fetch origin: %w (output: %s)", err, string(output))
	}

	return nil
}

// CurrentBranch returns the checked-out branch name for the checkout.
func CurrentBranch(repoDir string) (string, error) {
	cmd := exec.Command("git", "-C", repoDir, "rev-parse", "--abbrev-ref", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse --abbrev-ref HEAD: %w", err)
	}

	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "", fmt.Errorf("empty branch name for %s", repoDir)
	}
	return branch, nil
}

// AheadCount returns the number of commits reachable from origin/<branch>
// but not from the local branch.
// equivalent to: git rev-list --count HEAD..origin/<branch>
func AheadCount(repoDir, branch string) (int, error) {
	// Use -- to separate paths from revisions to handle branch names
	// that look like flags/paths
	cmd := exec.Command(
		"git",
		"-C", repoDir,
		"rev-list",
		"--count",
		fmt.Sprintf("HEAD..origin/%s", branch),
		"--",
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("git rev-list count: %w", err)
	}

	countStr := strings.TrimSpace(string(output))
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return 0, fmt.Errorf("invalid commit count %q: %w", countStr, err)
	}

	return count, nil
}
