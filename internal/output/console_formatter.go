package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rpgo/retirement-planner/internal/domain"
)

var (
	colorBorder = lipgloss.Color("#282726")
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	goodStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(colorOrange)
	borderStyle = lipgloss.NewStyle().Foreground(colorBorder)
)

// ConsoleFormatter renders the projection as a styled terminal summary.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	var buf bytes.Buffer

	title := "RETIREMENT PROJECTION"
	if report.ProfileName != "" {
		title += ": " + report.ProfileName
	}
	fmt.Fprintln(&buf, renderTitle(title))
	fmt.Fprintln(&buf)

	in := report.Inputs
	fmt.Fprintln(&buf, headerStyle.Render("Current position"))
	writeField(&buf, "Current age", intToString(in.CurrentAge))
	writeField(&buf, "Current savings", FormatCurrency(in.CurrentSavingsTotal))
	writeField(&buf, "Annual contributions", FormatCurrency(in.AnnualSavingsContribution))
	writeField(&buf, "Annual expenses", FormatCurrency(in.BaseAnnualExpenses))
	fmt.Fprintln(&buf)

	a := report.Assumptions
	fmt.Fprintln(&buf, headerStyle.Render("Assumptions"))
	writeField(&buf, "Investment return", FormatPercentage(a.ReturnRate))
	writeField(&buf, "Inflation", FormatPercentage(a.InflationRate))
	writeField(&buf, "Life expectancy", intToString(a.LifeExpectancy))
	fmt.Fprintln(&buf)

	rows := make([][]string, 0, len(report.Projections))
	for _, r := range report.Projections {
		age, year, away := warnStyle.Render(notFeasible), "-", "-"
		if y, ok := retirementYear(report, r); ok {
			age = goodStyle.Render(FormatRetirementAge(r))
			year = intToString(y)
			n, _ := yearsAway(report, r)
			away = intToString(n)
		}
		rows = append(rows, []string{r.Lifestyle, multiplierOf(r.Lifestyle), age, year, away})
	}
	buf.WriteString(renderTable([]string{"Lifestyle", "Expenses", "Retire At", "Year", "Years Away"}, rows))

	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-22s", label+":")), value)
}

func renderTitle(title string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)
	return box.Render(titleStyle.Render(title))
}

// renderTable draws a bordered table. Cell widths are measured with
// lipgloss.Width so styled cells line up.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	rule := func(left, mid, right string) {
		b.WriteString(borderStyle.Render(left))
		for i, w := range widths {
			b.WriteString(borderStyle.Render(strings.Repeat("─", w+2)))
			if i < len(widths)-1 {
				b.WriteString(borderStyle.Render(mid))
			}
		}
		b.WriteString(borderStyle.Render(right))
		b.WriteString("\n")
	}
	line := func(cells []string, style *lipgloss.Style) {
		b.WriteString(borderStyle.Render("│"))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(" " + cell + strings.Repeat(" ", w-lipgloss.Width(cell)) + " ")
			b.WriteString(borderStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	line(headers, &headerStyle)
	rule("├", "┼", "┤")
	for _, row := range rows {
		line(row, nil)
	}
	rule("╰", "┴", "╯")
	return b.String()
}
