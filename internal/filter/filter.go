// Package filter holds the immutable per-run configuration for commit
// selection: time bounds, path globs, identity exclusions and sort order.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for configuration parsing.
var (
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrUnknownSortOrder = errors.New("unknown sort order")
)

// SortField selects the author attribute to sort the report by.
type SortField int

// Sort fields.
const (
	SortByCommits SortField = iota
	SortByName
	SortByEmail
	SortByAdded
	SortByDeleted
)

// ParseSortField parses a sort field name.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(s) {
	case "commits":
		return SortByCommits, nil
	case "name":
		return SortByName, nil
	case "email":
		return SortByEmail, nil
	case "added":
		return SortByAdded, nil
	case "deleted":
		return SortByDeleted, nil
	default:
		return SortByCommits, fmt.Errorf("%w: %s (use name, email, commits, added or deleted)", ErrUnknownSortField, s)
	}
}

// SortOrder selects ascending or descending report order.
type SortOrder int

// Sort orders.
const (
	Descending SortOrder = iota
	Ascending
)

// ParseSortOrder parses a sort order name.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(s) {
	case "desc":
		return Descending, nil
	case "asc":
		return Ascending, nil
	default:
		return Descending, fmt.Errorf("%w: %s (use asc or desc)", ErrUnknownSortOrder, s)
	}
}

// DefaultBotPatterns matches the service accounts excluded by --no-bot.
var DefaultBotPatterns = []string{"dependabot"}

// Config is the per-run filter configuration. It is built once from flags
// and config-file defaults and never mutated afterwards.
type Config struct {
	PathGlobs []string
	Since     *time.Time
	Until     *time.Time

	// Exclusions are opt-in: a false flag keeps the matching commits.
	ExcludeBots   bool
	ExcludeRoot   bool
	ExcludeUbuntu bool
	BotPatterns   []string

	SkipEmpty       bool
	ExcludeVendored bool
	FirstParent     bool

	SortField SortField
	SortOrder SortOrder
	Module    string
}

// InWindow reports whether a commit time falls inside the configured bounds.
// Both bounds compare strictly, so a commit exactly at either bound is kept.
func (c *Config) InWindow(when time.Time) bool {
	if c.Since != nil && when.Before(*c.Since) {
		return false
	}

	if c.Until != nil && when.After(*c.Until) {
		return false
	}

	return true
}

// ExcludedName reports whether the canonical author name is filtered out by
// the enabled identity exclusions.
func (c *Config) ExcludedName(name string) bool {
	if c.ExcludeBots {
		patterns := c.BotPatterns
		if len(patterns) == 0 {
			patterns = DefaultBotPatterns
		}

		for _, p := range patterns {
			if strings.Contains(name, p) {
				return true
			}
		}
	}

	if c.ExcludeRoot && name == "root" {
		return true
	}

	if c.ExcludeUbuntu && name == "ubuntu" {
		return true
	}

	return false
}
