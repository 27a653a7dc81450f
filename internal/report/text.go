// Package report renders the aggregated per-author rows. The default text
// renderer emits one tab-separated line per author followed by a summary
// sentence; table and plot renderers are richer, human-only surfaces.
package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/codetally/codetally/internal/tally"
)

// Options controls rendering shared by all formats.
type Options struct {
	// Module is an optional label prepended to each row.
	Module string
	// SkipEmpty drops rows with zero added and zero deleted lines.
	SkipEmpty bool
}

// WriteText renders one line per author: optional module label, name,
// email, commit count, added and deleted counts, tab-separated, then a
// sentence naming the year/month of the last-seen commit.
func WriteText(w io.Writer, rows []tally.Row, opts Options) error {
	for _, row := range rows {
		if opts.SkipEmpty && row.Added == 0 && row.Deleted == 0 {
			continue
		}

		if opts.Module != "" {
			_, err := fmt.Fprintf(w, "%s\t", opts.Module)
			if err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}

		_, err := fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			row.Name, row.Email, row.Commits, row.Added, row.Deleted, summary(row))
		if err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	return nil
}

func summary(row tally.Row) string {
	return fmt.Sprintf("active since %d-%02d: %s commits, %s lines added, %s lines deleted",
		row.Last.Year(), int(row.Last.Month()),
		humanize.Comma(int64(row.Commits)),
		humanize.Comma(int64(row.Added)),
		humanize.Comma(int64(row.Deleted)))
}
