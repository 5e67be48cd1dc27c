package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/augur/internal/vcs"
)

var (
	_ ContentSource = (*FilesystemSource)(nil)
	_ ContentSource = (*TreeSource)(nil)
)

// fakeTree satisfies vcs.Tree from a map.
type fakeTree struct {
	files map[string][]byte
}

func (f *fakeTree) Entries() ([]vcs.TreeEntry, error) {
	var entries []vcs.TreeEntry
	for path, content := range f.files {
		entries = append(entries, vcs.TreeEntry{Path: path, Size: int64(len(content))})
	}
	return entries, nil
}

func (f *fakeTree) File(path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return content, nil
}

func TestFilesystemSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.py")
	require.NoError(t, os.WriteFile(path, []byte("class Person: pass\n"), 0o644))

	src := NewFilesystem()

	content, err := src.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "class Person: pass\n", string(content))

	_, err = src.Read(filepath.Join(dir, "missing.py"))
	assert.Error(t, err)
}

func TestTreeSource(t *testing.T) {
	src := NewTree(&fakeTree{files: map[string][]byte{
		"roster.py": []byte("class Person: pass\n"),
	}})

	content, err := src.Read("roster.py")
	require.NoError(t, err)
	assert.Equal(t, "class Person: pass\n", string(content))

	_, err = src.Read("missing.py")
	assert.Error(t, err)
}

func TestTreeSourceConcurrentReads(t *testing.T) {
	src := NewTree(&fakeTree{files: map[string][]byte{
		"a.py": []byte("class A: pass\n"),
		"b.py": []byte("class B: pass\n"),
	}})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "a.py"
			if i%2 == 1 {
				name = "b.py"
			}
			content, err := src.Read(name)
			if err != nil || len(content) == 0 {
				t.Errorf("concurrent Read(%s) = %q, %v", name, content, err)
			}
		}(i)
	}
	wg.Wait()
}
