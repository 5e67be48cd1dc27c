package report

import (
	"embed"
	"html/template"
	"io"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/corvidae/augur/pkg/thresholds"
)

//go:embed template.html
var templateFS embed.FS

// HTMLRenderer generates the standalone HTML report.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	funcMap := template.FuncMap{
		"gradeClass": func(grade string) string {
			switch strings.ToUpper(grade) {
			case "A", "B":
				return "good"
			case "C":
				return "warning"
			default:
				return "danger"
			}
		},
		"flagClass": func(flags []thresholds.Flag) string {
			if len(flags) == 0 {
				return "good"
			}
			return "danger"
		},
		"joinFlags": func(flags []thresholds.Flag) string {
			return thresholds.Join(flags)
		},
		"join":      strings.Join,
		"cyclePath": cyclePath,
		"num": func(n int) string {
			p := message.NewPrinter(language.English)
			return p.Sprintf("%d", n)
		},
		"percent": func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a * 100 / b
		},
	}

	content, err := templateFS.ReadFile("template.html")
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(string(content))
	if err != nil {
		return nil, err
	}

	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render writes the HTML report for a snapshot.
func (r *HTMLRenderer) Render(s *Snapshot, w io.Writer) error {
	data := *s
	if data.Title == "" {
		data.Title = DefaultTitle
	}
	return r.tmpl.Execute(w, &data)
}

// RenderToFile writes the HTML report to a file.
func (r *HTMLRenderer) RenderToFile(s *Snapshot, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return r.Render(s, f)
}
