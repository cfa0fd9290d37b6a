package structure

import (
	"strconv"
	"strings"
)

// Adjacency lists are line oriented.  An optional name line and an optional
// "multiplicity" line may precede the atom lines:
//
//	multiplicity 2
//	1 *1 C u1 p0 c0 {2,S} {3,S}
//	2    H u0 p0 c0 {1,S}
//
// Group lines accept bracketed alternatives anywhere a value is expected:
//
//	1 *2 [Cd,Cs] u[0,1] {2,[S,D]}
//
// The legacy molecule form "1 *1 C 1 {2,S}" (bare radical count) is accepted.

// validBondOrders lists the bond orders understood by both molecules and groups.
var validBondOrders = map[string]bool{"S": true, "D": true, "T": true, "B": true}

type rawBond struct {
	neighbor int
	orders   []string
}

type rawAtom struct {
	line      int
	text      string
	label     string
	types     []string
	radicals  []int
	lonePairs []int
	charges   []int
	bonds     []rawBond
}

type rawGraph struct {
	multiplicity []int
	atoms        []rawAtom
}

// parseRaw tokenizes adjacency-list text and checks the graph-level invariants
// that do not depend on the variant: sequential indices, bonds to existing
// atoms, and bonds listed identically on both ends.
func parseRaw(text string) (*rawGraph, error) {
	g := &rawGraph{}
	nameSeen := false

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		fields := strings.Fields(trimmed)

		if len(g.atoms) == 0 {
			if fields[0] == "multiplicity" {
				if g.multiplicity != nil {
					return nil, lineError(lineNo, trimmed, "repeated multiplicity line")
				}
				if len(fields) != 2 {
					return nil, lineError(lineNo, trimmed, "multiplicity takes exactly one value")
				}
				vals, err := parseIntList(fields[1])
				if err != nil {
					return nil, lineError(lineNo, trimmed, "invalid multiplicity: %v", err)
				}
				g.multiplicity = vals
				continue
			}
			if _, err := strconv.Atoi(fields[0]); err != nil {
				if nameSeen || g.multiplicity != nil {
					return nil, lineError(lineNo, trimmed, "expected an atom line")
				}
				nameSeen = true
				continue
			}
		}

		atom, index, err := parseAtomLine(lineNo, trimmed, fields)
		if err != nil {
			return nil, err
		}
		if index != len(g.atoms)+1 {
			return nil, lineError(lineNo, trimmed, "expected atom index %d, got %d", len(g.atoms)+1, index)
		}
		g.atoms = append(g.atoms, atom)
	}

	if len(g.atoms) == 0 {
		return nil, listError("no atoms")
	}

	for i, a := range g.atoms {
		seen := make(map[int]bool, len(a.bonds))
		for _, b := range a.bonds {
			if b.neighbor < 0 || b.neighbor >= len(g.atoms) {
				return nil, lineError(a.line, a.text, "bond to undefined atom %d", b.neighbor+1)
			}
			if b.neighbor == i {
				return nil, lineError(a.line, a.text, "atom bonded to itself")
			}
			if seen[b.neighbor] {
				return nil, lineError(a.line, a.text, "repeated bond to atom %d", b.neighbor+1)
			}
			seen[b.neighbor] = true

			back, ok := g.atoms[b.neighbor].bondTo(i)
			if !ok {
				return nil, listError("bond %d-%d is not listed on atom %d", i+1, b.neighbor+1, b.neighbor+1)
			}
			if !sameStrings(back.orders, b.orders) {
				return nil, listError("bond %d-%d has inconsistent orders", i+1, b.neighbor+1)
			}
		}
	}
	return g, nil
}

func (a rawAtom) bondTo(neighbor int) (rawBond, bool) {
	for _, b := range a.bonds {
		if b.neighbor == neighbor {
			return b, true
		}
	}
	return rawBond{}, false
}

func parseAtomLine(lineNo int, text string, fields []string) (rawAtom, int, error) {
	a := rawAtom{line: lineNo, text: text}

	index, err := strconv.Atoi(fields[0])
	if err != nil || index < 1 {
		return a, 0, lineError(lineNo, text, "invalid atom index %q", fields[0])
	}
	rest := fields[1:]

	if len(rest) > 0 && strings.HasPrefix(rest[0], "*") {
		a.label = rest[0]
		rest = rest[1:]
	}
	if len(rest) == 0 || strings.HasPrefix(rest[0], "{") {
		return a, 0, lineError(lineNo, text, "missing atom type")
	}
	if a.types, err = parseStringList(rest[0]); err != nil {
		return a, 0, lineError(lineNo, text, "invalid atom type: %v", err)
	}
	rest = rest[1:]

	for len(rest) > 0 && !strings.HasPrefix(rest[0], "{") {
		tok := rest[0]
		rest = rest[1:]

		var target *[]int
		var value string
		switch {
		case tok[0] == 'u':
			target, value = &a.radicals, tok[1:]
		case tok[0] == 'p':
			target, value = &a.lonePairs, tok[1:]
		case tok[0] == 'c':
			target, value = &a.charges, tok[1:]
		case isDigits(tok):
			target, value = &a.radicals, tok
		default:
			return a, 0, lineError(lineNo, text, "unexpected token %q", tok)
		}
		if *target != nil {
			return a, 0, lineError(lineNo, text, "repeated property %q", tok)
		}
		vals, err := parseIntList(value)
		if err != nil {
			return a, 0, lineError(lineNo, text, "invalid property %q: %v", tok, err)
		}
		*target = vals
	}

	for _, tok := range rest {
		if len(tok) < 5 || tok[0] != '{' || tok[len(tok)-1] != '}' {
			return a, 0, lineError(lineNo, text, "malformed bond %q", tok)
		}
		body := tok[1 : len(tok)-1]
		comma := strings.IndexByte(body, ',')
		if comma < 0 {
			return a, 0, lineError(lineNo, text, "malformed bond %q", tok)
		}
		n, err := strconv.Atoi(body[:comma])
		if err != nil || n < 1 {
			return a, 0, lineError(lineNo, text, "invalid bond partner in %q", tok)
		}
		orders, err := parseStringList(body[comma+1:])
		if err != nil {
			return a, 0, lineError(lineNo, text, "invalid bond order in %q: %v", tok, err)
		}
		for _, o := range orders {
			if !validBondOrders[o] {
				return a, 0, lineError(lineNo, text, "unknown bond order %q", o)
			}
		}
		a.bonds = append(a.bonds, rawBond{neighbor: n - 1, orders: orders})
	}
	return a, index, nil
}

// parseStringList accepts "X" or "[X,Y,...]".
func parseStringList(s string) ([]string, error) {
	if s == "" {
		return nil, errEmptyValue
	}
	if s[0] != '[' {
		if strings.ContainsAny(s, "[],{}") {
			return nil, errBadList
		}
		return []string{s}, nil
	}
	if len(s) < 3 || s[len(s)-1] != ']' {
		return nil, errBadList
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	for _, p := range parts {
		if p == "" || strings.ContainsAny(p, "[]{}") {
			return nil, errBadList
		}
	}
	return parts, nil
}

// parseIntList accepts "N", "+N", "-N" or a bracketed list of those.
func parseIntList(s string) ([]int, error) {
	parts, err := parseStringList(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, errBadNumber
		}
		out = append(out, v)
	}
	return out, nil
}

type tokenError string

func (e tokenError) Error() string { return string(e) }

const (
	errEmptyValue tokenError = "empty value"
	errBadList    tokenError = "malformed list"
	errBadNumber  tokenError = "not an integer"
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Formatting helpers shared by Molecule and Group
// ─────────────────────────────────────────────────────────────────────────────

func formatSigned(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

func formatIntList(vals []int, signed bool) string {
	format := strconv.Itoa
	if signed {
		format = formatSigned
	}
	if len(vals) == 1 {
		return format(vals[0])
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = format(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func formatStringList(vals []string) string {
	if len(vals) == 1 {
		return vals[0]
	}
	return "[" + strings.Join(vals, ",") + "]"
}
