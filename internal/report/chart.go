package report

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

// ViolationChart renders the per-type violation counts as a bar chart for
// the grading UI. Types with a zero count are included so reviewers see
// the full picture against the configured categories.
func ViolationChart(violations models.ViolationCounts, title string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Recorded Violations",
			Subtitle: title,
		}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(models.ViolationTypes))
	items := make([]opts.BarData, 0, len(models.ViolationTypes))
	for _, t := range models.ViolationTypes {
		labels = append(labels, violationLabel(t))
		items = append(items, opts.BarData{Value: violations[t]})
	}

	bar.SetXAxis(labels).AddSeries("Violations", items)
	return bar
}
