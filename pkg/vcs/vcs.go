// Package vcs queries the project's source control state. The pass
// needs two answers: which files are not checked in, and which branch
// the build came from. Query failures are returned to the caller,
// which degrades them to a warning rather than aborting the run.
package vcs

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"patchcheck/pkg/errors"
	"patchcheck/pkg/logging"
)

var log = logging.GetLogger("vcs")

// Client answers source-control queries for one project root.
type Client interface {
	// Untracked lists the paths under root that are not checked in,
	// relative to root with forward slashes.
	Untracked(ctx context.Context, root string) ([]string, error)
	// Branch returns the name of the checked-out branch.
	Branch(ctx context.Context, root string) (string, error)
}

// Git shells out to the git binary on PATH.
type Git struct{}

var _ Client = Git{}

// Untracked runs ls-files with the standard exclusions, so ignored
// build outputs never show up as untracked.
func (Git) Untracked(ctx context.Context, root string) ([]string, error) {
	out, err := runGit(ctx, root, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}

	var files []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		files = append(files, filepath.ToSlash(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrVCSQuery, "parsing git ls-files output")
	}

	log.Debug().Int("count", len(files)).Str("root", root).Msg("Untracked files queried")
	return files, nil
}

// Branch returns the abbreviated ref name, "HEAD" when detached.
func (Git) Branch(ctx context.Context, root string) (string, error) {
	out, err := runGit(ctx, root, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func runGit(ctx context.Context, root string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, errors.ErrVCSQuery, "git %s: %s",
			strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
