// Package structure converts structure objects to and from URL path segments
// and renders the HTML fragments pages use to show them.
package structure

import (
	"net/url"
	"strings"

	domain "github.com/turtacn/rmgweb/internal/domain/structure"
	"github.com/turtacn/rmgweb/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Percent-encoding
// ─────────────────────────────────────────────────────────────────────────────

const upperhex = "0123456789ABCDEF"

// quoteSafe reports whether b passes through Quote unchanged.
func quoteSafe(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	case b == '_', b == '.', b == '-', b == '/':
		return true
	}
	return false
}

// Quote percent-encodes every byte of s outside [A-Za-z0-9_.-/] using
// uppercase hex.  Spaces become %20 and newlines %0A.
func Quote(s string) string {
	return PercentEncode(s, quoteSafe)
}

// PercentEncode replaces every byte of s for which safe reports false with
// %XX in uppercase hex.  s is returned as-is when nothing needs escaping.
func PercentEncode(s string, safe func(byte) bool) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !safe(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if safe(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

// Unquote reverses Quote.  "+" is left alone.  A malformed escape yields an
// ErrCodeURLDecodeFailed error.
func Unquote(s string) (string, error) {
	out, err := url.PathUnescape(s)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeURLDecodeFailed, "invalid percent-encoding").WithDetail(err.Error())
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Molecule
// ─────────────────────────────────────────────────────────────────────────────

// MoleculeToURL returns the escaped adjacency list of m with labels cleared and
// hydrogens explicit.  Molecules that differ only in labels map to the same
// string.  m is not modified.
//
// The result is escaped with Quote, the same as GroupToURL, so the spaces and
// newlines of the adjacency list survive as a single path segment.
func MoleculeToURL(m *domain.Molecule) string {
	return Quote(m.WithoutLabels().AdjacencyList())
}

// MoleculeFromURL unescapes s and parses it as a molecule adjacency list.
// Parse failures are returned as ErrCodeAdjacencyListInvalid wrapping the
// *structure.ParseError.
func MoleculeFromURL(s string) (*domain.Molecule, error) {
	adjlist, err := Unquote(s)
	if err != nil {
		return nil, err
	}
	m, err := domain.ParseMolecule(adjlist)
	if err != nil {
		return nil, invalidAdjacencyList(err)
	}
	return m, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Group
// ─────────────────────────────────────────────────────────────────────────────

// GroupToURL returns the escaped adjacency list of g with labels cleared.
func GroupToURL(g *domain.Group) string {
	return Quote(g.WithoutLabels().AdjacencyList())
}

// GroupFromURL unescapes s and parses it as a group adjacency list.
func GroupFromURL(s string) (*domain.Group, error) {
	adjlist, err := Unquote(s)
	if err != nil {
		return nil, err
	}
	g, err := domain.ParseGroup(adjlist)
	if err != nil {
		return nil, invalidAdjacencyList(err)
	}
	return g, nil
}

func invalidAdjacencyList(err error) error {
	return errors.Wrap(err, errors.ErrCodeAdjacencyListInvalid, errors.DefaultMessageForCode(errors.ErrCodeAdjacencyListInvalid)).
		WithDetail(err.Error())
}

//Personal.AI order the ending
