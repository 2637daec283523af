package internal

import (
	"bytes"
	"embed"
	"html/template"
	"io"
)

const (
	IndexTemplate     = "index.html"
	AddUpdateTemplate = "add-update.html"
	DeleteTemplate    = "delete.html"

	ActionSave   = "save"
	ActionUpdate = "update"
)

//go:embed templates/*.html
var templateFS embed.FS

type (
	SearchPage struct {
		ShowResult    bool
		Keyword       string
		Persons       []Person
		DeveloperName string
	}

	// EditPage backs both the add and the update form.
	EditPage struct {
		ActionName    string
		FormAction    string
		ShowResult    bool
		Result        string
		NotValid      bool
		Message       string
		DeveloperName string
	}

	DeletePage struct {
		ShowResult    bool
		Result        string
		NotValid      bool
		Message       string
		DeveloperName string
	}

	Renderer struct {
		tmpl *template.Template
	}
)

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl}, nil
}

// Render executes the named page into a buffer first so that a template
// error never leaves a half written response behind.
func (r *Renderer) Render(w io.Writer, name string, page any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, page); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
