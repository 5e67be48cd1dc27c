// Package vcs wraps the git operations augur needs behind small interfaces,
// so historical analysis can be tested against fakes.
package vcs

// Opener opens git repositories.
type Opener interface {
	// PlainOpen opens the repository at path.
	PlainOpen(path string) (Repository, error)
	// PlainOpenWithDetect opens a repository, finding .git in parents.
	PlainOpenWithDetect(path string) (Repository, error)
}

// Repository resolves revisions into readable trees.
type Repository interface {
	// ResolveRevision turns a ref name, tag or abbreviated hash into a
	// full commit hash.
	ResolveRevision(rev string) (string, error)
	// TreeAt returns the file tree of the commit rev resolves to.
	TreeAt(rev string) (Tree, error)
	// RepoPath returns the repository's working tree root.
	RepoPath() string
}

// TreeEntry is one file in a commit tree.
type TreeEntry struct {
	Path string
	Size int64
}

// Tree lists and reads the files of one commit.
type Tree interface {
	// Entries returns every file in the tree, recursively.
	Entries() ([]TreeEntry, error)
	// File returns the content of the file at path.
	File(path string) ([]byte, error)
}
