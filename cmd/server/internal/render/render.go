package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/psytestlab/results-api/cmd/server/internal/models"
	"github.com/psytestlab/results-api/internal/types"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer serves the embedded admin page templates through echo.
type Renderer struct {
	templates *template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

func New() (*Renderer, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{templates: templates}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

type LoginPage struct {
	Error string
}

type ResultRow struct {
	Name     string
	IP       string
	EndTime  string
	Duration string
	Values   []string
	ID       int64
}

type ProjectTable struct {
	Project      string
	DeleteAction string
	CSRFToken    string
	Columns      []string
	Rows         []ResultRow
}

type ResultsPage struct {
	Tables []ProjectTable
}

const timeLayout = "2006-01-02 15:04:05"

// ProjectTableFrom pivots a project's results into table rows: fixed columns
// first, then the sorted union of parameter names.
func ProjectTableFrom(project, csrfToken string, results []models.TestResult) ProjectTable {
	seen := make(map[string]bool)
	for _, result := range results {
		for _, p := range result.Parameters {
			seen[p.Name] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for c := range seen {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	rows := make([]ResultRow, 0, len(results))
	for _, result := range results {
		params := result.ParameterMap()

		values := make([]string, len(columns))
		for i, c := range columns {
			values[i] = params[c]
		}

		rows = append(rows, ResultRow{
			ID:       result.ID,
			Name:     result.Name,
			IP:       result.IP,
			EndTime:  result.EndTime.Format(timeLayout),
			Duration: types.FormatDuration(result.Duration),
			Values:   values,
		})
	}

	return ProjectTable{
		Project:      project,
		DeleteAction: fmt.Sprintf("/api/results/%s/delete/", project),
		CSRFToken:    csrfToken,
		Columns:      columns,
		Rows:         rows,
	}
}
