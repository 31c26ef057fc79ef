package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/pkg/dateutil"
)

// CSVDetailedExporter writes the year-by-year balance schedule of every
// feasible lifestyle. Reports built without schedules yield only the header.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Lifestyle", "Age", "Year", "Phase", "StartBalance", "Contribution", "Withdrawal", "Growth", "EndBalance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	baseYear := report.GeneratedAt.Year()
	for _, r := range report.Projections {
		for _, yr := range report.Schedules[r.Lifestyle] {
			row := []string{
				r.Lifestyle,
				intToString(yr.Age),
				intToString(dateutil.YearAtAge(baseYear, report.Inputs.CurrentAge, yr.Age)),
				string(yr.Phase),
				FormatAmount(yr.StartBalance),
				FormatAmount(yr.Contribution),
				FormatAmount(yr.Withdrawal),
				FormatAmount(yr.Growth),
				FormatAmount(yr.EndBalance),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
