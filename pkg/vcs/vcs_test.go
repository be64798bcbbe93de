// Test Type: Integration Test
// Drives the git client against throwaway repositories.
package vcs_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchcheck/pkg/vcs"
)

func git(t *testing.T, root string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	root := t.TempDir()
	git(t, root, "init")
	git(t, root, "checkout", "-b", "trunk")
	git(t, root, "config", "user.email", "patchcheck@example.com")
	git(t, root, "config", "user.name", "patchcheck tests")
	return root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestUntracked(t *testing.T) {
	t.Run("lists_untracked_files", func(t *testing.T) {
		root := initRepo(t)
		writeFile(t, root, "a.txt", "a")
		writeFile(t, root, "sub/b.txt", "b")

		files, err := vcs.Git{}.Untracked(context.Background(), root)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a.txt", "sub/b.txt"}, files)
	})

	t.Run("empty_repository_is_clean", func(t *testing.T) {
		root := initRepo(t)
		files, err := vcs.Git{}.Untracked(context.Background(), root)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("respects_ignore_rules", func(t *testing.T) {
		root := initRepo(t)
		writeFile(t, root, ".gitignore", "*.log\n")
		writeFile(t, root, "out.log", "noise")
		writeFile(t, root, "keep.txt", "keep")

		files, err := vcs.Git{}.Untracked(context.Background(), root)
		require.NoError(t, err)
		assert.Contains(t, files, "keep.txt")
		assert.NotContains(t, files, "out.log")
	})

	t.Run("fails_outside_a_repository", func(t *testing.T) {
		if _, err := exec.LookPath("git"); err != nil {
			t.Skip("git not available")
		}
		_, err := vcs.Git{}.Untracked(context.Background(), t.TempDir())
		assert.Error(t, err)
	})
}

func TestBranch(t *testing.T) {
	t.Run("returns_checked_out_branch", func(t *testing.T) {
		root := initRepo(t)
		git(t, root, "-c", "commit.gpgsign=false", "commit", "--allow-empty", "-m", "init")

		branch, err := vcs.Git{}.Branch(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, "trunk", branch)
	})

	t.Run("fails_outside_a_repository", func(t *testing.T) {
		if _, err := exec.LookPath("git"); err != nil {
			t.Skip("git not available")
		}
		_, err := vcs.Git{}.Branch(context.Background(), t.TempDir())
		assert.Error(t, err)
	})
}
