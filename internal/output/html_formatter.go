package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/rpgo/retirement-planner/internal/domain"
)

// HTMLFormatter produces a standalone HTML report with per-lifestyle schedules.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":       FormatCurrency,
	"pct":        FormatPercentage,
	"retireAge":  FormatRetirementAge,
	"multiplier": multiplierOf,
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

type htmlRow struct {
	domain.ProjectionResult
	Multiplier string
	Year       int
	YearsAway  int
	Schedule   []domain.YearBalance
}

func (h HTMLFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	rows := make([]htmlRow, 0, len(report.Projections))
	for _, r := range report.Projections {
		row := htmlRow{ProjectionResult: r, Multiplier: multiplierOf(r.Lifestyle), Schedule: report.Schedules[r.Lifestyle]}
		row.Year, _ = retirementYear(report, r)
		row.YearsAway, _ = yearsAway(report, r)
		rows = append(rows, row)
	}

	data := struct {
		*domain.ProjectionReport
		Rows []htmlRow
	}{report, rows}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
