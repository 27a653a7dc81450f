package commands_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetally/codetally/cmd/codetally/commands"
	"github.com/codetally/codetally/internal/filter"
	"github.com/codetally/codetally/internal/repotest"
	"github.com/codetally/codetally/pkg/gitlib"
)

// fixtureRepo builds a three-commit history: Alice adds ten lines, Bob swaps
// one, Alice adds five more and deletes two.
func fixtureRepo(t *testing.T) *repotest.Repo {
	t.Helper()

	tr := repotest.New(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)

	tr.CreateFile("a.txt", "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\n")
	tr.CommitAs("Alice", "alice@example.com", base, "add a")

	tr.CreateFile("a.txt", "b1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\n")
	tr.CommitAs("Bob", "bob@example.com", base.Add(time.Hour), "swap first line")

	tr.CreateFile("a.txt", "b1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\n")
	tr.CreateFile("b.txt", "x1\nx2\nx3\nx4\nx5\n")
	tr.CommitAs("Alice", "alice@example.com", base.Add(2*time.Hour), "trim a, add b")

	return tr
}

func runReport(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := commands.NewReportCommand()

	var out, errOut bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestReportText(t *testing.T) {
	tr := fixtureRepo(t)

	out, _, err := runReport(t, "--repository", tr.Path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)

	// Default sort is commits descending, so Alice comes first.
	assert.True(t, strings.HasPrefix(lines[0], "Alice\talice@example.com\t2\t15\t2\t"), "got %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Bob\tbob@example.com\t1\t1\t1\t"), "got %q", lines[1])
	assert.Contains(t, lines[0], "active since 2024-03")
}

func TestReportSortByName(t *testing.T) {
	tr := fixtureRepo(t)

	out, _, err := runReport(t, "--repository", tr.Path, "--sort-by", "name", "--order", "asc")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Alice\t"))
	assert.True(t, strings.HasPrefix(lines[1], "Bob\t"))
}

func TestReportPathGlobs(t *testing.T) {
	tr := fixtureRepo(t)

	out, _, err := runReport(t, "--repository", tr.Path, "b.txt")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)

	// Only Alice's b.txt additions remain; Bob's commit still counts with
	// zero line totals.
	assert.True(t, strings.HasPrefix(lines[0], "Alice\talice@example.com\t2\t5\t0\t"), "got %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Bob\tbob@example.com\t1\t0\t0\t"), "got %q", lines[1])
}

func TestReportSkipEmpty(t *testing.T) {
	tr := fixtureRepo(t)

	out, _, err := runReport(t, "--repository", tr.Path, "--skip-empty", "b.txt")
	require.NoError(t, err)

	assert.Contains(t, out, "Alice")
	assert.NotContains(t, out, "Bob")
}

func TestReportSinceWindow(t *testing.T) {
	tr := fixtureRepo(t)

	out, _, err := runReport(t, "--repository", tr.Path, "--since", "2024-03-01 13:30:00")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "Alice\talice@example.com\t1\t5\t2\t"), "got %q", lines[0])
}

func TestReportTimeBoundsRoundTrip(t *testing.T) {
	tr := fixtureRepo(t)

	unbounded, _, err := runReport(t, "--repository", tr.Path)
	require.NoError(t, err)

	// Bounds equal to the earliest and latest commit times are inclusive,
	// so the totals must match the unbounded run exactly.
	bounded, _, err := runReport(t, "--repository", tr.Path,
		"--since", "2024-03-01 12:00:00", "--until", "2024-03-01 14:00:00")
	require.NoError(t, err)

	assert.Equal(t, unbounded, bounded)
}

func TestReportNoBot(t *testing.T) {
	tr := fixtureRepo(t)
	tr.CreateFile("deps.txt", "bump\n")
	tr.CommitAs("dependabot[bot]", "bot@github.example.com", time.Date(2024, 3, 2, 12, 0, 0, 0, time.Local), "bump deps")

	out, _, err := runReport(t, "--repository", tr.Path)
	require.NoError(t, err)
	assert.Contains(t, out, "dependabot[bot]")

	out, _, err = runReport(t, "--repository", tr.Path, "--no-bot")
	require.NoError(t, err)
	assert.NotContains(t, out, "dependabot[bot]")
}

func TestReportModuleLabel(t *testing.T) {
	tr := fixtureRepo(t)

	out, _, err := runReport(t, "--repository", tr.Path, "--module", "core")
	require.NoError(t, err)

	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.True(t, strings.HasPrefix(line, "core\t"), "got %q", line)
	}
}

func TestReportTableFormat(t *testing.T) {
	tr := fixtureRepo(t)

	out, _, err := runReport(t, "--repository", tr.Path, "--format", "table")
	require.NoError(t, err)

	assert.Contains(t, out, "AUTHOR")
	assert.Contains(t, out, "Alice")
}

func TestReportVerboseProgress(t *testing.T) {
	tr := fixtureRepo(t)

	_, errOut, err := runReport(t, "--repository", tr.Path, "--verbose")
	require.NoError(t, err)

	assert.Contains(t, errOut, "progress: ")
	assert.Contains(t, errOut, "visited 3 commits")
}

func TestReportInvalidSinceBeforeRepositoryAccess(t *testing.T) {
	// The repository path does not exist; the time parse error must win.
	_, _, err := runReport(t, "--repository", "/nonexistent", "--since", "yesterday-ish")

	require.ErrorIs(t, err, gitlib.ErrInvalidTimeFormat)
	assert.Contains(t, err.Error(), "--since")
}

func TestReportInvalidSortBy(t *testing.T) {
	_, _, err := runReport(t, "--repository", "/nonexistent", "--sort-by", "lines")

	require.ErrorIs(t, err, filter.ErrUnknownSortField)
}

func TestReportRemoteRepository(t *testing.T) {
	_, _, err := runReport(t, "--repository", "https://example.com/repo.git")

	require.ErrorIs(t, err, gitlib.ErrRemoteNotSupported)
}

func TestReportRepositoryNotFound(t *testing.T) {
	_, _, err := runReport(t, "--repository", "/nonexistent/path")

	require.Error(t, err)
}
