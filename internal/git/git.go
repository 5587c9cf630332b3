// Package git reads the repository-derived parts of changelog records: commit
// object ids, author signatures, commit dates and release tags. It uses the
// go-git library and never shells out to the git CLI.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/coglog/coglog/internal/commit"
	"github.com/coglog/coglog/internal/tag"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

var (
	// ErrCommitNotFound is returned when an object id does not name a commit.
	ErrCommitNotFound = errors.New("commit not found")
	// ErrNoTags is returned when a repository has no release tags.
	ErrNoTags = errors.New("no release tags found")
)

// Repository is an opened git repository.
type Repository struct {
	repo *git.Repository
}

// CommitMeta holds the fields of a commit that come from the repository
// rather than from its message.
type CommitMeta struct {
	Oid    string
	Author string
	Date   time.Time
}

// Open opens the repository containing path, walking up to find the .git
// directory. An empty path means the current working directory.
func Open(path string) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return &Repository{repo: repo}, nil
}

// CommitMeta looks up a commit by object id or revision (e.g. "HEAD~2").
func (r *Repository) CommitMeta(rev string) (CommitMeta, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return CommitMeta{}, fmt.Errorf("resolving %s: %w: %v", rev, ErrCommitNotFound, err)
	}

	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return CommitMeta{}, fmt.Errorf("reading commit %s: %w: %v", hash, ErrCommitNotFound, err)
	}

	return metaFromObject(c), nil
}

// Tags returns the semantic-version tags of the repository in ascending
// order. Tags that do not parse with opts are skipped.
func (r *Repository) Tags(opts tag.Options) ([]tag.Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var tags []tag.Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		oid := r.tagTarget(ref).String()

		t, err := tag.Parse(name, &oid, opts)
		if err != nil {
			logDebug("[git] Tags: skipping %s: %v", name, err)
			return nil
		}
		tags = append(tags, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Less(tags[j])
	})

	logDebug("[git] Tags: found %d semver tags", len(tags))
	return tags, nil
}

// tagTarget returns the commit a tag points at, peeling annotated tags.
func (r *Repository) tagTarget(ref *plumbing.Reference) plumbing.Hash {
	annotated, err := r.repo.TagObject(ref.Hash())
	if err != nil {
		return ref.Hash()
	}
	c, err := annotated.Commit()
	if err != nil {
		return ref.Hash()
	}
	return c.Hash
}

// metaFromObject uses the author name as signature and the committer time
// as date, the same fields `git log --format='%an %cI'` shows.
func metaFromObject(c *object.Commit) CommitMeta {
	return CommitMeta{
		Oid:    c.Hash.String(),
		Author: c.Author.Name,
		Date:   commit.NaiveUTC(c.Committer.When),
	}
}

// DefaultFetchTimeout is the default timeout for fetching tags.
const DefaultFetchTimeout = 60 * time.Second

// FetchTags fetches tags from every configured remote so that Tags sees
// releases created elsewhere. Failures are reported as a false result, not
// as an error; a repository without remotes is already up to date.
func (r *Repository) FetchTags(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		logDebug("[git] FetchTags: context already cancelled")
		return true, nil
	}

	remotes, err := r.repo.Remotes()
	if err != nil || len(remotes) == 0 {
		logDebug("[git] FetchTags: no remotes configured")
		return true, nil
	}

	allSucceeded := true
	for _, remote := range remotes {
		if err := ctx.Err(); err != nil {
			logDebug("[git] FetchTags: context cancelled, stopping fetch")
			return allSucceeded, nil
		}
		if err := r.fetchRemoteTags(ctx, remote); err != nil {
			fmt.Fprintf(os.Stderr, "[git] Warning: failed to fetch tags from remote '%s': %v\n", remote.Config().Name, err)
			allSucceeded = false
		}
	}

	logDebug("[git] FetchTags: completed, all succeeded: %v", allSucceeded)
	return allSucceeded, nil
}

func (r *Repository) fetchRemoteTags(ctx context.Context, remote *git.Remote) error {
	remoteConfig := remote.Config()
	if len(remoteConfig.URLs) == 0 {
		return nil
	}

	url := remoteConfig.URLs[0]
	if isSSHURL(url) && !isSSHAgentAvailable() {
		logDebug("[git] skipping fetch from remote '%s': SSH URL without SSH agent available", remoteConfig.Name)
		return nil
	}

	logDebug("[git] fetching tags from remote '%s' (%s)", remoteConfig.Name, url)
	err := r.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteConfig.Name,
		Auth:       getAuthForURL(url),
		Tags:       git.AllTags,
		RefSpecs:   []config.RefSpec{"+refs/tags/*:refs/tags/*"},
	})

	if ctx.Err() != nil {
		logDebug("[git] fetch from remote '%s' timed out or cancelled", remoteConfig.Name)
		return nil
	}
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

// getAuthForURL returns the authentication method for a remote URL.
// SSH URLs use SSH agent auth, HTTPS URLs use environment credentials.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		username = os.Getenv("GITHUB_TOKEN")
		if username != "" {
			password = ""
		}
	}

	if username != "" {
		return &http.BasicAuth{Username: username, Password: password}
	}
	return nil
}

// isSSHURL detects git@ (SCP-style), ssh:// and git+ssh:// URLs.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

func isSSHAgentAvailable() bool {
	return strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")) != ""
}
