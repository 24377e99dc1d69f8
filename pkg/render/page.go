package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/shadowbane/home-flood-report/pkg/models"
	controllertraits "github.com/shadowbane/home-flood-report/pkg/traits/controller-traits"
)

//go:embed templates/*.html
var templates embed.FS

const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
	NoticeError   = "error"
)

// Notice is the message shown above the map after a submission.
type Notice struct {
	Kind     string
	Message  string
	ImageURL string
}

// FormValues re-populates the form after a rejected submission.
type FormValues struct {
	Address     string
	Cause       string
	CustomCause string
	Severity    int
}

type TileLayer struct {
	URL         string
	Attribution string
}

// Page is the data behind the single report page.
type Page struct {
	Reports []models.FloodReport
	Map     MapView
	Causes  []models.CauseType
	Notice  *Notice
	Form    FormValues
	Tiles   TileLayer
}

// Renderer executes the embedded page template.
type Renderer struct {
	tmpl  *template.Template
	tiles TileLayer
}

// NewRenderer parses the templates. With a Mapbox token the map uses the
// Mapbox streets style, otherwise OpenStreetMap tiles.
func NewRenderer(mapboxToken string) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"causeIcon":      controllertraits.GetCauseIcon,
		"severityBadge":  controllertraits.GetSeverityBadge,
		"imageURL":       controllertraits.ImageURL,
		"formatSeverity": controllertraits.FormatSeverity,
	}).ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}

	tiles := TileLayer{
		URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors",
	}
	if mapboxToken != "" {
		tiles = TileLayer{
			URL:         "https://api.mapbox.com/styles/v1/mapbox/streets-v11/tiles/{z}/{x}/{y}?access_token=" + mapboxToken,
			Attribution: "&copy; Mapbox &copy; OpenStreetMap contributors",
		}
	}

	return &Renderer{tmpl: tmpl, tiles: tiles}, nil
}

// NewPage assembles the page for the given reports.
func (r *Renderer) NewPage(reports []models.FloodReport, notice *Notice, form FormValues) Page {
	if form.Severity < models.MinSeverity || form.Severity > models.MaxSeverity {
		form.Severity = models.MinSeverity
	}
	if form.Cause == "" {
		form.Cause = string(models.Causes[0])
	}
	return Page{
		Reports: reports,
		Map:     BuildMapView(reports),
		Causes:  models.Causes,
		Notice:  notice,
		Form:    form,
		Tiles:   r.tiles,
	}
}

// Render writes the page. The template is executed into a buffer first so
// a failure never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page Page) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index.html", page); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
