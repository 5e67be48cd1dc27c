// Package scanner is the discovery service the CLI and MCP surfaces share:
// it turns user-supplied paths or a git revision into the file list an
// analysis run covers.
package scanner

import (
	"os"
	"path/filepath"

	"github.com/corvidae/augur/internal/scanner"
	"github.com/corvidae/augur/internal/vcs"
	"github.com/corvidae/augur/pkg/config"
)

// ScanResult is a filesystem scan's outcome.
type ScanResult struct {
	Files []string
	// Oversized counts files dropped by the configured size limit.
	Oversized int
}

// RevisionScan is a git tree scan's outcome. Files are tree-relative paths
// readable through the returned tree.
type RevisionScan struct {
	Files []string
	Tree  vcs.Tree
}

// Service provides file discovery.
type Service struct {
	config *config.Config
	opener vcs.Opener
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithOpener sets the VCS opener (for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// New creates a scanner service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
		opener: vcs.DefaultOpener(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanPaths scans the given paths, walking directories and checking single
// files, and returns every analyzable source file. Empty input means the
// current directory.
func (s *Service) ScanPaths(paths []string) (*ScanResult, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	scan := scanner.New(s.config)
	var files []string

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, &PathError{Path: path, Err: err}
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, &PathError{Path: path, Err: err}
		}

		if info.IsDir() {
			found, err := scan.ScanDir(abs)
			if err != nil {
				return nil, &ScanError{Path: path, Err: err}
			}
			files = append(files, found...)
			continue
		}

		ok, err := scan.ScanFile(abs)
		if err != nil {
			return nil, &ScanError{Path: path, Err: err}
		}
		if ok {
			files = append(files, abs)
		}
	}

	result := &ScanResult{Files: files}
	if maxSize := s.config.Analysis.MaxFileSize; maxSize > 0 {
		result.Files, result.Oversized = scanner.FilterBySize(files, maxSize)
	}
	return result, nil
}

// ScanRevision lists the analyzable files in a git revision's tree. The
// repository is detected from repoPath upward.
func (s *Service) ScanRevision(repoPath, rev string) (*RevisionScan, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, &PathError{Path: repoPath, Err: err}
	}

	repo, err := s.opener.PlainOpenWithDetect(abs)
	if err != nil {
		return nil, &GitError{Err: err}
	}
	tree, err := repo.TreeAt(rev)
	if err != nil {
		return nil, &GitError{Err: err}
	}
	entries, err := tree.Entries()
	if err != nil {
		return nil, &GitError{Err: err}
	}

	scan := scanner.New(s.config)
	maxSize := s.config.Analysis.MaxFileSize

	var files []string
	for _, e := range entries {
		if maxSize > 0 && e.Size > maxSize {
			continue
		}
		if scan.WantsPath(e.Path) {
			files = append(files, e.Path)
		}
	}
	return &RevisionScan{Files: files, Tree: tree}, nil
}

// PathError indicates an invalid path.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "invalid path " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ScanError indicates a scanning failure.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// GitError indicates a revision could not be scanned.
type GitError struct {
	Err error
}

func (e *GitError) Error() string {
	return "cannot scan revision: " + e.Err.Error()
}

func (e *GitError) Unwrap() error {
	return e.Err
}
