package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/codetally/codetally/internal/tally"
)

const maxLanguagesShown = 3

// WriteTable renders the rows as a go-pretty table with a language summary
// column when language stats are present.
func WriteTable(w io.Writer, rows []tally.Row, opts Options) error {
	if opts.Module != "" {
		_, err := fmt.Fprintln(w, color.New(color.FgCyan, color.Bold).Sprint(opts.Module))
		if err != nil {
			return fmt.Errorf("write table title: %w", err)
		}
	}

	withLanguages := hasLanguages(rows)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := table.Row{"Author", "Email", "Commits", "Added", "Deleted", "Last"}
	if withLanguages {
		header = append(header, "Languages")
	}

	tw.AppendHeader(header)

	for _, row := range rows {
		if opts.SkipEmpty && row.Added == 0 && row.Deleted == 0 {
			continue
		}

		cells := table.Row{
			row.Name, row.Email, row.Commits, row.Added, row.Deleted,
			fmt.Sprintf("%d-%02d", row.Last.Year(), int(row.Last.Month())),
		}
		if withLanguages {
			cells = append(cells, topLanguages(row))
		}

		tw.AppendRow(cells)
	}

	tw.Render()

	return nil
}

func hasLanguages(rows []tally.Row) bool {
	for _, row := range rows {
		if len(row.Languages) > 0 {
			return true
		}
	}

	return false
}

// topLanguages summarizes the busiest languages for one author, ordered by
// touched lines.
func topLanguages(row tally.Row) string {
	type langTotal struct {
		name    string
		touched int
	}

	totals := make([]langTotal, 0, len(row.Languages))
	for name, stats := range row.Languages {
		totals = append(totals, langTotal{name: name, touched: stats.Added + stats.Deleted})
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].touched != totals[j].touched {
			return totals[i].touched > totals[j].touched
		}

		return totals[i].name < totals[j].name
	})

	if len(totals) > maxLanguagesShown {
		totals = totals[:maxLanguagesShown]
	}

	names := make([]string, len(totals))
	for i, lt := range totals {
		names[i] = lt.name
	}

	return strings.Join(names, ", ")
}
