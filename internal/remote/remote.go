// Package remote resolves repository references like owner/repo@ref and
// clones them into a temporary directory for analysis.
package remote

import (
	"context"
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Source is a remote repository reference taken from the command line.
type Source struct {
	// URL is the normalized clone URL.
	URL string
	// Ref is a branch, tag, or SHA. Empty means the default branch.
	Ref string
}

// Parse recognizes GitHub owner/repo shorthand and http(s) git URLs, with
// an optional @ref suffix. It returns nil for anything that exists on the
// local filesystem, so local paths always win.
func Parse(path string) *Source {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	ref := ""
	if idx := strings.LastIndex(path, "@"); idx != -1 {
		ref = path[idx+1:]
		path = path[:idx]
	}

	if strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		return &Source{URL: path, Ref: ref}
	}
	if isShorthand(path) {
		return &Source{URL: "https://github.com/" + path, Ref: ref}
	}
	return nil
}

// isShorthand reports whether path looks like owner/repo: exactly one
// slash, both parts non-empty, and no dots before the slash (a dot there
// would indicate a domain, not an owner).
func isShorthand(path string) bool {
	slash := strings.Index(path, "/")
	if slash <= 0 || slash == len(path)-1 {
		return false
	}
	if strings.Count(path, "/") != 1 {
		return false
	}
	return !strings.Contains(path[:slash], ".")
}

// Clone checks the source out into a fresh temporary directory and returns
// the directory path. The caller removes the directory when done. A pinned
// ref forces a full clone so any SHA can be resolved afterwards.
func (s *Source) Clone(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp("", "augur-clone-")
	if err != nil {
		return "", fmt.Errorf("failed to create clone directory: %w", err)
	}

	opts := &git.CloneOptions{URL: s.URL}
	if s.Ref == "" {
		opts.Depth = 1
		opts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to clone %s: %w", s.URL, err)
	}
	return dir, nil
}

// String renders the source the way the user wrote it.
func (s *Source) String() string {
	if s.Ref == "" {
		return s.URL
	}
	return s.URL + "@" + s.Ref
}
