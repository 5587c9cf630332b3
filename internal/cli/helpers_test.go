package cli

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cglgit "github.com/coglog/coglog/internal/git"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// cliResult holds the captured output of one CLI run.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the root command with args and isolated configuration.
// A --config flag pointing at projectConfig is added when it is not empty.
func runCLI(t *testing.T, stdin string, projectConfig string, args ...string) cliResult {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"COGLOG_TAG_PREFIX", "COGLOG_PACKAGES", "COGLOG_FORMAT", "COGLOG_PARALLELISM", "COGLOG_MONOREPO_SEPARATOR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	if projectConfig == "" {
		projectConfig = filepath.Join(t.TempDir(), "absent.yml")
	} else {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte(projectConfig), 0o644))
		projectConfig = path
	}

	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config=" + projectConfig}, args...))
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		log.SetOutput(os.Stderr)
		cglgit.SetDebugLogger(nil)
	})

	err := Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// resetFlags restores every flag of cmd and its subcommands to its default,
// since cobra keeps parsed values between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// writeFile writes content into a new file of a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

var commitTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

// initRepo creates an on-disk repository with one commit per message and
// returns its path and the commit hashes, oldest first.
func initRepo(t *testing.T, messages ...string) (string, []plumbing.Hash) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	hashes := make([]plumbing.Hash, 0, len(messages))
	for i, msg := range messages {
		name := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(name, []byte(msg), 0o644))
		_, err := wt.Add("file.txt")
		require.NoError(t, err)

		when := commitTime.Add(time.Duration(i) * time.Hour)
		sig := &object.Signature{Name: "Jean Michel Doudou", Email: "jm@example.com", When: when}
		hash, err := wt.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
		hashes = append(hashes, hash)
	}
	return dir, hashes
}

// tagRepo adds lightweight tags to the repository at dir.
func tagRepo(t *testing.T, dir string, target plumbing.Hash, names ...string) {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	for _, name := range names {
		_, err := repo.CreateTag(name, target, nil)
		require.NoError(t, err)
	}
}
