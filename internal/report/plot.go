package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/codetally/codetally/internal/tally"
)

// WritePlot renders an HTML bar chart of added/deleted lines per author.
func WritePlot(w io.Writer, rows []tally.Row, options Options) error {
	title := "Contribution report"
	if options.Module != "" {
		title = options.Module
	}

	names := make([]string, 0, len(rows))
	added := make([]opts.BarData, 0, len(rows))
	deleted := make([]opts.BarData, 0, len(rows))

	for _, row := range rows {
		if options.SkipEmpty && row.Added == 0 && row.Deleted == 0 {
			continue
		}

		names = append(names, row.Name)
		added = append(added, opts.BarData{Value: row.Added})
		deleted = append(deleted, opts.BarData{Value: row.Deleted})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "lines added and deleted per author",
		}),
	)
	bar.SetXAxis(names).
		AddSeries("Added", added).
		AddSeries("Deleted", deleted)

	err := bar.Render(w)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}
