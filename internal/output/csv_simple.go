package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/retirement-planner/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per lifestyle,
// in lifestyle order).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Lifestyle", "Multiplier", "CanRetire", "RetirementAge", "RetirementYear", "CurrentAge", "CurrentSavings", "AnnualContribution", "BaseAnnualExpenses"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range report.Projections {
		age, year := "", ""
		if y, ok := retirementYear(report, r); ok {
			age = intToString(*r.RetirementAge)
			year = intToString(y)
		}
		row := []string{
			r.Lifestyle,
			multiplierOf(r.Lifestyle),
			boolToString(r.CanRetire),
			age,
			year,
			intToString(report.Inputs.CurrentAge),
			FormatAmount(report.Inputs.CurrentSavingsTotal),
			FormatAmount(report.Inputs.AnnualSavingsContribution),
			FormatAmount(report.Inputs.BaseAnnualExpenses),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
