// Package tally accumulates per-author contribution totals over a single
// pass of classified commit records.
package tally

import (
	"sort"
	"strings"
	"time"

	"github.com/codetally/codetally/internal/classify"
	"github.com/codetally/codetally/internal/filter"
)

// AuthorStats holds the running totals for one canonical author name.
// Email and Last are last-write-wins under traversal order; the counters
// are monotonically incremented.
type AuthorStats struct {
	Email     string
	Last      time.Time
	Commits   int
	Added     int
	Deleted   int
	Languages map[string]classify.LineStats
}

// Aggregator folds commit records into per-author stats. The aggregation
// key is the canonical author name, so two email addresses resolving to the
// same display name merge into one entry. Entries remember first-seen order
// for stable sort tie-breaking.
type Aggregator struct {
	stats map[string]*AuthorStats
	order []string
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{stats: make(map[string]*AuthorStats)}
}

// Add folds one record into the totals. Email and Last are overwritten
// unconditionally; traversal order decides which value survives, not the
// commit timestamp.
func (a *Aggregator) Add(rec classify.Record) {
	entry, exists := a.stats[rec.AuthorName]
	if !exists {
		entry = &AuthorStats{}
		a.stats[rec.AuthorName] = entry
		a.order = append(a.order, rec.AuthorName)
	}

	entry.Email = rec.AuthorEmail
	entry.Last = rec.When
	entry.Commits++
	entry.Added += rec.Insertions
	entry.Deleted += rec.Deletions

	for lang, stats := range rec.Languages {
		if entry.Languages == nil {
			entry.Languages = make(map[string]classify.LineStats)
		}

		merged := entry.Languages[lang]
		merged.Added += stats.Added
		merged.Deleted += stats.Deleted
		entry.Languages[lang] = merged
	}
}

// Len returns the number of distinct authors seen so far.
func (a *Aggregator) Len() int {
	return len(a.stats)
}

// Row is one author entry of the final report.
type Row struct {
	Name string
	AuthorStats
}

// Rows returns the aggregated entries in first-seen order.
func (a *Aggregator) Rows() []Row {
	rows := make([]Row, 0, len(a.order))
	for _, name := range a.order {
		rows = append(rows, Row{Name: name, AuthorStats: *a.stats[name]})
	}

	return rows
}

// SortRows sorts rows in place by the given field and order. The sort is
// stable, so equal keys keep their first-seen order.
func SortRows(rows []Row, field filter.SortField, order filter.SortOrder) {
	less := lessFunc(field)
	if order == filter.Descending {
		inner := less
		less = func(a, b Row) bool { return inner(b, a) }
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return less(rows[i], rows[j])
	})
}

func lessFunc(field filter.SortField) func(a, b Row) bool {
	switch field {
	case filter.SortByName:
		return func(a, b Row) bool { return strings.Compare(a.Name, b.Name) < 0 }
	case filter.SortByEmail:
		return func(a, b Row) bool { return strings.Compare(a.Email, b.Email) < 0 }
	case filter.SortByAdded:
		return func(a, b Row) bool { return a.Added < b.Added }
	case filter.SortByDeleted:
		return func(a, b Row) bool { return a.Deleted < b.Deleted }
	default:
		return func(a, b Row) bool { return a.Commits < b.Commits }
	}
}
