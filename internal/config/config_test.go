package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetally/codetally/internal/config"
	"github.com/codetally/codetally/internal/filter"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "codetally.yaml")
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "commits", cfg.Report.SortBy)
	assert.Equal(t, "desc", cfg.Report.Order)
	assert.Equal(t, config.FormatText, cfg.Report.Format)
	assert.False(t, cfg.Report.SkipEmpty)

	assert.False(t, cfg.Exclude.Bots)
	assert.False(t, cfg.Exclude.Root)
	assert.False(t, cfg.Exclude.Ubuntu)
	assert.False(t, cfg.Exclude.Vendored)
	assert.Equal(t, filter.DefaultBotPatterns, cfg.Exclude.BotPatterns)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
report:
  sort_by: added
  order: asc
  format: table
  skip_empty: true
exclude:
  bots: true
  bot_patterns:
    - dependabot
    - renovate
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "added", cfg.Report.SortBy)
	assert.Equal(t, "asc", cfg.Report.Order)
	assert.Equal(t, config.FormatTable, cfg.Report.Format)
	assert.True(t, cfg.Report.SkipEmpty)
	assert.True(t, cfg.Exclude.Bots)
	assert.Equal(t, []string{"dependabot", "renovate"}, cfg.Exclude.BotPatterns)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfigInvalidSortField(t *testing.T) {
	path := writeConfig(t, "report:\n  sort_by: lines\n")

	cfg, err := config.LoadConfig(path)

	assert.Nil(t, cfg)
	require.ErrorIs(t, err, filter.ErrUnknownSortField)
}

func TestLoadConfigInvalidFormat(t *testing.T) {
	path := writeConfig(t, "report:\n  format: csv\n")

	cfg, err := config.LoadConfig(path)

	assert.Nil(t, cfg)
	require.ErrorIs(t, err, config.ErrUnknownFormat)
}

func TestValidateFormat(t *testing.T) {
	for _, format := range []string{config.FormatText, config.FormatTable, config.FormatPlot} {
		assert.NoError(t, config.ValidateFormat(format))
	}

	err := config.ValidateFormat("csv")
	require.ErrorIs(t, err, config.ErrUnknownFormat)
}
