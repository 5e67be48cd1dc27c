// Package scanner discovers the source files an analysis run covers.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/corvidae/augur/pkg/config"
	"github.com/corvidae/augur/pkg/parser"
)

// Scanner walks directories for files in a supported language, applying the
// configured exclusions and, when enabled, the tree's .gitignore files.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
}

// New creates a scanner with the given configuration.
func New(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Scanner{config: cfg}

	var patterns []gitignore.Pattern
	for _, pattern := range cfg.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}
	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
	return s
}

// findGitRoot walks upward looking for a .git directory. Empty when the
// start is not inside a repository.
func findGitRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadGitignore adds every .gitignore under root's repository to the
// matcher set, when the toggle is on.
func (s *Scanner) loadGitignore(root string) {
	if !s.config.Exclude.Gitignore {
		return
	}
	gitRoot := findGitRoot(root)
	if gitRoot == "" {
		return
	}
	bfs := osfs.New(gitRoot)
	if patterns, err := gitignore.ReadPatterns(bfs, nil); err == nil && len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

func (s *Scanner) isExcluded(path string, isDir bool) bool {
	if s.config.ShouldExclude(path) {
		return true
	}
	if len(s.matchers) == 0 {
		return false
	}
	parts := strings.Split(path, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// ScanDir recursively lists the analyzable files under root. Symlinks that
// escape root are skipped, so a crafted link cannot pull outside trees into
// the scan.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadGitignore(root)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			if path != root && s.isExcluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(relPath, false) {
			return nil
		}
		if !s.wantsFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files, walkErr
}

// ScanFile reports whether a single explicitly named file is analyzable.
func (s *Scanner) ScanFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if s.config.ShouldExclude(filepath.Base(path)) {
		return false, nil
	}
	return s.wantsFile(path), nil
}

// WantsPath applies the exclusion and language rules to a path that is not
// on the local filesystem, such as a git tree entry. Tree paths use forward
// slashes regardless of platform.
func (s *Scanner) WantsPath(path string) bool {
	native := filepath.FromSlash(path)
	if s.isExcluded(native, false) {
		return false
	}
	return s.wantsFile(native)
}

// wantsFile applies language detection plus the config's language filter.
func (s *Scanner) wantsFile(path string) bool {
	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		return false
	}
	return s.config.WantsLanguage(string(lang))
}

// FilterBySize drops files over maxSize bytes, returning the survivors and
// the skip count. maxSize <= 0 disables the filter.
func FilterBySize(files []string, maxSize int64) ([]string, int) {
	if maxSize <= 0 {
		return files, 0
	}

	filtered := make([]string, 0, len(files))
	skipped := 0
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || info.Size() > maxSize {
			skipped++
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered, skipped
}

func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}
