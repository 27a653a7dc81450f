package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Mailmap wraps a libgit2 mailmap. It maps raw author signatures to their
// canonical name/email pair using the repository's .mailmap entries
// ("Canonical Name <canonical@email> <raw@email>" lines).
type Mailmap struct {
	mailmap *git2go.Mailmap
}

// NewMailmapFromBuffer parses mailmap entries from a string.
func NewMailmapFromBuffer(buf string) (*Mailmap, error) {
	mm, err := git2go.NewMailmapFromBuffer(buf)
	if err != nil {
		return nil, fmt.Errorf("parse mailmap: %w", err)
	}

	return &Mailmap{mailmap: mm}, nil
}

// AddEntry registers an alias mapping. Empty replace fields act as wildcards,
// matching libgit2 semantics.
func (m *Mailmap) AddEntry(realName, realEmail, replaceName, replaceEmail string) error {
	err := m.mailmap.AddEntry(realName, realEmail, replaceName, replaceEmail)
	if err != nil {
		return fmt.Errorf("add mailmap entry: %w", err)
	}

	return nil
}

// ResolveSignature returns the canonical signature for the given raw one.
// Signatures with no mailmap entry resolve to themselves.
func (m *Mailmap) ResolveSignature(sig Signature) (Signature, error) {
	resolved, err := m.mailmap.ResolveSignature(&git2go.Signature{
		Name:  sig.Name,
		Email: sig.Email,
		When:  sig.When,
	})
	if err != nil {
		return Signature{}, fmt.Errorf("resolve signature: %w", err)
	}

	return Signature{
		Name:  resolved.Name,
		Email: resolved.Email,
		When:  resolved.When,
	}, nil
}

// Free releases the mailmap resources.
func (m *Mailmap) Free() {
	if m.mailmap != nil {
		m.mailmap.Free()
		m.mailmap = nil
	}
}
