// Package classify turns raw commits into per-author contribution records.
// Each commit is resolved through the repository mailmap, checked against
// the time and identity filters, and diffed against its first parent (or
// the empty tree for root commits) within the configured path globs.
package classify

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/src-d/enry/v2"

	"github.com/codetally/codetally/internal/filter"
	"github.com/codetally/codetally/pkg/gitlib"
)

// LineStats holds added/deleted line counts for one language.
type LineStats struct {
	Added   int
	Deleted int
}

// Record is the classified view of one qualifying commit.
type Record struct {
	AuthorName  string
	AuthorEmail string
	When        time.Time
	Insertions  int
	Deletions   int
	Languages   map[string]LineStats
}

// Classifier classifies commits against a filter configuration. Mailmap
// resolution happens before any identity-dependent filtering.
type Classifier struct {
	Repo    *gitlib.Repository
	Mailmap *gitlib.Mailmap
	Config  *filter.Config

	// TrackLanguages enables the per-language breakdown used by the table
	// and plot renderers. It forces the per-file diff path.
	TrackLanguages bool
}

// Classify transforms a commit into a Record. The second return value is
// false when the commit is filtered out. Diff failures are fatal and abort
// the run; a partial record is never returned.
func (cl *Classifier) Classify(commit *gitlib.Commit) (Record, bool, error) {
	sig, err := cl.Mailmap.ResolveSignature(commit.Author())
	if err != nil {
		return Record{}, false, fmt.Errorf("canonicalize author of %s: %w", commit.Hash(), err)
	}

	when := sig.When.Local()
	if !cl.Config.InWindow(when) {
		return Record{}, false, nil
	}

	if cl.Config.ExcludedName(sig.Name) {
		return Record{}, false, nil
	}

	rec := Record{
		AuthorName:  sig.Name,
		AuthorEmail: sig.Email,
		When:        when,
	}

	err = cl.diffStats(commit, &rec)
	if err != nil {
		return Record{}, false, err
	}

	if cl.Config.SkipEmpty && rec.Insertions == 0 && rec.Deletions == 0 {
		return Record{}, false, nil
	}

	return rec, true, nil
}

// diffStats fills in the insertion/deletion counts for the commit's diff
// against its first parent, scoped to the configured path globs.
func (cl *Classifier) diffStats(commit *gitlib.Commit, rec *Record) error {
	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("tree of %s: %w", commit.Hash(), err)
	}
	defer tree.Free()

	// Root commits diff against the empty tree.
	var parentTree *gitlib.Tree

	if commit.NumParents() > 0 {
		parent, parentErr := commit.Parent(0)
		if parentErr != nil {
			return fmt.Errorf("first parent of %s: %w", commit.Hash(), parentErr)
		}
		defer parent.Free()

		parentTree, parentErr = parent.Tree()
		if parentErr != nil {
			return fmt.Errorf("parent tree of %s: %w", commit.Hash(), parentErr)
		}
		defer parentTree.Free()
	}

	diff, err := cl.Repo.DiffTreeToTree(parentTree, tree, cl.Config.PathGlobs)
	if err != nil {
		return fmt.Errorf("diff %s: %w", commit.Hash(), err)
	}
	defer diff.Free()

	if cl.Config.ExcludeVendored || cl.TrackLanguages {
		return cl.perFileStats(diff, rec)
	}

	stats, err := diff.Stats()
	if err != nil {
		return fmt.Errorf("diff stats of %s: %w", commit.Hash(), err)
	}
	defer stats.Free()

	rec.Insertions = stats.Insertions()
	rec.Deletions = stats.Deletions()

	return nil
}

// perFileStats walks the diff file by file so vendored paths can be dropped
// and per-language totals collected.
func (cl *Classifier) perFileStats(diff *gitlib.Diff, rec *Record) error {
	files, err := diff.FileStats()
	if err != nil {
		return err
	}

	for _, f := range files {
		if cl.Config.ExcludeVendored && enry.IsVendor(f.Path) {
			continue
		}

		rec.Insertions += f.Insertions
		rec.Deletions += f.Deletions

		if !cl.TrackLanguages {
			continue
		}

		if rec.Languages == nil {
			rec.Languages = make(map[string]LineStats)
		}

		lang := languageOf(f.Path)
		stats := rec.Languages[lang]
		stats.Added += f.Insertions
		stats.Deleted += f.Deletions
		rec.Languages[lang] = stats
	}

	return nil
}

const otherLanguage = "other"

func languageOf(path string) string {
	lang := enry.GetLanguage(filepath.Base(path), nil)
	if lang == "" {
		return otherLanguage
	}

	return lang
}
