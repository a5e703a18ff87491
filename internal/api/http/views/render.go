// Package views renders the server-side HTML pages.
package views

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/i474232898/meteobeguda/internal/weather"
)

//go:embed templates
var viewsFS embed.FS

var pageTmpl *template.Template

var funcs = template.FuncMap{
	"fixed1": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"trend": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%+.1f", *v)
	},
}

// loadTemplatesFromFS parses the page templates found under dir in fsys.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.New("pages").Funcs(funcs).ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	pageTmpl = tmpl
	return nil
}

// LoadTemplates loads the embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// DashboardData is the view model of the station dashboard.
type DashboardData struct {
	Station string
	Date    weather.Date
	// Dashboard is nil when the day has no readings yet.
	Dashboard *weather.Dashboard
}

// ForecastData is the view model of the forecast page.
type ForecastData struct {
	Station      string
	Municipality string
}

func RenderDashboard(w io.Writer, data *DashboardData) error {
	if pageTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

func RenderForecast(w io.Writer, data *ForecastData) error {
	if pageTmpl == nil {
		return errors.New("forecast template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "forecast.html", data)
}
