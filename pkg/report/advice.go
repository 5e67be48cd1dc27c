package report

import (
	"bytes"
	"embed"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/corvidae/augur/pkg/thresholds"
)

//go:embed advice/*.md
var adviceFiles embed.FS

// Advice is a remediation note attached to a problem finding. The notes
// ship as embedded markdown with YAML frontmatter.
type Advice struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Severity string `yaml:"severity"`
	Body     string `yaml:"-"`
}

var (
	adviceOnce sync.Once
	adviceByID map[string]*Advice
)

// adviceIDComplexity keys the note shown for methods over the complexity
// ceiling, which is a per-method finding rather than a class flag.
const adviceIDComplexity = "high-complexity"

var flagAdviceIDs = map[thresholds.Flag]string{
	thresholds.FlagHighCoupling:   "high-coupling",
	thresholds.FlagLowCohesion:    "low-cohesion",
	thresholds.FlagTooManyMethods: "too-many-methods",
}

func loadAdvice() {
	adviceByID = make(map[string]*Advice)

	entries, err := adviceFiles.ReadDir("advice")
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := adviceFiles.ReadFile(filepath.Join("advice", entry.Name()))
		if err != nil {
			continue
		}
		a := parseAdvice(content)
		if a == nil || a.ID == "" {
			continue
		}
		adviceByID[a.ID] = a
	}
}

// parseAdvice splits YAML frontmatter from the markdown body. Files
// without valid frontmatter are skipped.
func parseAdvice(content []byte) *Advice {
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return nil
	}
	rest := content[4:]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end == -1 {
		return nil
	}

	var a Advice
	if err := yaml.Unmarshal(rest[:end], &a); err != nil {
		return nil
	}
	a.Body = strings.TrimSpace(string(rest[end+5:]))
	return &a
}

// AdviceFor returns the remediation note for a threshold flag.
func AdviceFor(flag thresholds.Flag) (*Advice, bool) {
	adviceOnce.Do(loadAdvice)
	id, ok := flagAdviceIDs[flag]
	if !ok {
		return nil, false
	}
	a, ok := adviceByID[id]
	return a, ok
}

// ComplexityAdvice returns the note for methods above the complexity
// ceiling.
func ComplexityAdvice() (*Advice, bool) {
	adviceOnce.Do(loadAdvice)
	a, ok := adviceByID[adviceIDComplexity]
	return a, ok
}

// AdviceMarkdown renders every remediation note relevant to the snapshot
// as a markdown fragment, or "" when nothing is flagged. Notes appear at
// most once each, complexity first, then flags in first-appearance order
// across the flagged classes.
func (s *Snapshot) AdviceMarkdown() string {
	var ids []string
	if len(s.OverCeiling()) > 0 {
		ids = append(ids, adviceIDComplexity)
	}
	seen := make(map[thresholds.Flag]bool)
	for _, c := range s.FlaggedClasses() {
		for _, f := range c.Flags {
			if seen[f] {
				continue
			}
			seen[f] = true
			if id, ok := flagAdviceIDs[f]; ok {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return ""
	}

	adviceOnce.Do(loadAdvice)
	var b strings.Builder
	for _, id := range ids {
		a, ok := adviceByID[id]
		if !ok {
			continue
		}
		b.WriteString("### ")
		b.WriteString(a.Title)
		b.WriteString("\n\n")
		b.WriteString(a.Body)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
