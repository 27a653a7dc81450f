// Package repotest builds throwaway git repositories for tests using the
// same libgit2 binding the tool itself runs on.
package repotest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/require"

	"github.com/codetally/codetally/pkg/gitlib"
)

// Repo wraps a test repository.
type Repo struct {
	T      *testing.T
	Path   string
	Native *git2go.Repository
}

// New creates an empty repository in a temp directory.
func New(t *testing.T) *Repo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	return &Repo{T: t, Path: dir, Native: repo}
}

// CreateFile creates a file in the working directory.
func (r *Repo) CreateFile(name, content string) {
	r.T.Helper()

	path := filepath.Join(r.Path, name)
	dir := filepath.Dir(path)

	if dir != r.Path {
		err := os.MkdirAll(dir, 0o755)
		require.NoError(r.T, err)
	}

	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(r.T, err)
}

// RemoveFile removes a file from the working directory.
func (r *Repo) RemoveFile(name string) {
	r.T.Helper()

	err := os.Remove(filepath.Join(r.Path, name))
	require.NoError(r.T, err)
}

// Commit stages all files and commits them with a default signature.
func (r *Repo) Commit(message string) gitlib.Hash {
	return r.CommitAs("Test User", "test@example.com", time.Now(), message)
}

// CommitAs stages all files and commits them with the given author.
func (r *Repo) CommitAs(name, email string, when time.Time, message string) gitlib.Hash {
	r.T.Helper()

	index, err := r.Native.Index()
	require.NoError(r.T, err)

	defer index.Free()

	err = index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil)
	require.NoError(r.T, err)

	err = index.UpdateAll([]string{"*"}, nil)
	require.NoError(r.T, err)

	err = index.Write()
	require.NoError(r.T, err)

	treeID, err := index.WriteTree()
	require.NoError(r.T, err)

	tree, err := r.Native.LookupTree(treeID)
	require.NoError(r.T, err)

	defer tree.Free()

	sig := &git2go.Signature{Name: name, Email: email, When: when}

	var parents []*git2go.Commit

	head, err := r.Native.Head()
	if err == nil {
		headCommit, lookupErr := r.Native.LookupCommit(head.Target())
		require.NoError(r.T, lookupErr)

		parents = append(parents, headCommit)

		head.Free()
	}

	oid, err := r.Native.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(r.T, err)

	for _, parent := range parents {
		parent.Free()
	}

	return gitlib.HashFromOid(oid)
}
