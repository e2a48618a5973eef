// Package render turns gallery results into embeddable HTML, GeoJSON for the
// map, summary lines and plain text for terminals.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/google/uuid"
	"github.com/k3a/html2text"
	"github.com/tphakala/inat-gallery/internal/gallery"
)

// Leaflet assets referenced by the standalone document.
const (
	LeafletCSS = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	LeafletJS  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
)

// Template names.
const (
	TemplateFragment = "gallery"
	TemplateDocument = "document"
	TemplateText     = "text"
)

//go:embed views/*.html
var viewsFS embed.FS

// Page is the view model for one rendered gallery.
type Page struct {
	// GalleryID namespaces DOM ids so several galleries can share a page.
	GalleryID string
	Result    *gallery.Result
	Link      string
	Summary   string
	GeoJSON   template.JS

	LeafletCSS string
	LeafletJS  string
}

// ShowAllToggle reports whether the "all photos" view adds anything.
func (p *Page) ShowAllToggle() bool {
	return len(p.Result.AllPhotos) > len(p.Result.RegularPhotos)
}

// NewGalleryID returns a short random id for Page.GalleryID. Hosts also use
// it to correlate a request's log lines.
func NewGalleryID() string {
	return uuid.NewString()[:8]
}

// NewPage builds the view model for result. galleryID must be unique within
// the page the fragment is embedded in.
func NewPage(result *gallery.Result, galleryID, link string) (*Page, error) {
	if result == nil {
		return nil, fmt.Errorf("nil gallery result")
	}
	if galleryID == "" {
		return nil, fmt.Errorf("gallery id is required")
	}

	page := &Page{
		GalleryID:  galleryID,
		Result:     result,
		Link:       link,
		Summary:    Summary(result),
		LeafletCSS: LeafletCSS,
		LeafletJS:  LeafletJS,
	}

	if len(result.Locations) > 0 {
		data, err := LocationsGeoJSON(result.Locations)
		if err != nil {
			return nil, err
		}
		// encoding/json escapes <, > and & so the document is safe inside <script>
		page.GeoJSON = template.JS(data) //nolint:gosec // marshalled JSON, see above
	}

	return page, nil
}

// Renderer executes the embedded gallery templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"plural": func(n int, word string) string { return english.Plural(n, word, "") },
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(viewsFS, "views/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse gallery templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Execute renders the named template into w. Output is buffered so a
// failing template writes nothing.
func (r *Renderer) Execute(w io.Writer, name string, page *Page) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, page); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// HTML renders the embeddable fragment.
func (r *Renderer) HTML(w io.Writer, page *Page) error {
	return r.Execute(w, TemplateFragment, page)
}

// Document renders a standalone HTML page with the Leaflet assets.
func (r *Renderer) Document(w io.Writer, page *Page) error {
	return r.Execute(w, TemplateDocument, page)
}

// Text renders the gallery as plain text for terminals.
func (r *Renderer) Text(w io.Writer, page *Page) error {
	var buf bytes.Buffer
	if err := r.Execute(&buf, TemplateText, page); err != nil {
		return err
	}
	_, err := io.WriteString(w, PlainText(buf.String())+"\n")
	return err
}

// PlainText converts an HTML snippet to text with Unix line endings.
func PlainText(html string) string {
	text := html2text.HTML2Text(html)
	return strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
}
