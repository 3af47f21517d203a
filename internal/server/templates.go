package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/smartdevs17/fitness-logger/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const displayLayout = "2006-01-02 15:04:05"

// Templates holds the parsed page templates
type Templates struct {
	pages *template.Template
}

// indexPage is the data the index template renders
type indexPage struct {
	Data *models.Data
}

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*Templates, error) {
	funcs := template.FuncMap{
		"displayTime": displayTime,
	}

	pages, err := template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Templates{pages: pages}, nil
}

// Execute renders a page template by file name
func (t *Templates) Execute(w io.Writer, name string, data any) error {
	if t.pages.Lookup(name) == nil {
		return fmt.Errorf("template %q not found", name)
	}
	return t.pages.ExecuteTemplate(w, name, data)
}

// displayTime shortens a stored timestamp for reading; unparseable values are shown as-is
func displayTime(ts string) string {
	t, err := models.ParseTimestamp(ts)
	if err != nil {
		return ts
	}
	return t.Format(displayLayout)
}
