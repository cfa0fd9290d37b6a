package structure

import (
	"sort"
	"strconv"
	"strings"
)

// GroupAtom is a pattern atom.  Each list holds the accepted alternatives; an
// empty list means "any".
type GroupAtom struct {
	Label     string
	AtomTypes []string
	Radicals  []int
	LonePairs []int
	Charges   []int
}

func (a GroupAtom) clone() GroupAtom {
	return GroupAtom{
		Label:     a.Label,
		AtomTypes: append([]string(nil), a.AtomTypes...),
		Radicals:  append([]int(nil), a.Radicals...),
		LonePairs: append([]int(nil), a.LonePairs...),
		Charges:   append([]int(nil), a.Charges...),
	}
}

// GroupBond joins two pattern atoms.  A is always less than B.
type GroupBond struct {
	A      int
	B      int
	Orders []string
}

func (b GroupBond) clone() GroupBond {
	return GroupBond{A: b.A, B: b.B, Orders: append([]string(nil), b.Orders...)}
}

// Group is an immutable functional-group pattern graph.
type Group struct {
	atoms        []GroupAtom
	bonds        []GroupBond
	multiplicity []int
}

// ParseGroup reads a group adjacency list.
func ParseGroup(adjlist string) (*Group, error) {
	raw, err := parseRaw(adjlist)
	if err != nil {
		return nil, err
	}

	g := &Group{
		atoms:        make([]GroupAtom, len(raw.atoms)),
		multiplicity: raw.multiplicity,
	}
	for i, ra := range raw.atoms {
		g.atoms[i] = GroupAtom{
			Label:     ra.label,
			AtomTypes: ra.types,
			Radicals:  ra.radicals,
			LonePairs: ra.lonePairs,
			Charges:   ra.charges,
		}
		for _, rb := range ra.bonds {
			if i < rb.neighbor {
				g.bonds = append(g.bonds, GroupBond{A: i, B: rb.neighbor, Orders: rb.orders})
			}
		}
	}
	sort.Slice(g.bonds, func(i, j int) bool {
		if g.bonds[i].A != g.bonds[j].A {
			return g.bonds[i].A < g.bonds[j].A
		}
		return g.bonds[i].B < g.bonds[j].B
	})
	return g, nil
}

func (g *Group) Kind() Kind       { return KindGroup }
func (g *Group) Accept(v Visitor) { v.VisitGroup(g) }
func (g *Group) isObject()        {}

// Atoms returns a deep copy of the pattern atoms.
func (g *Group) Atoms() []GroupAtom {
	out := make([]GroupAtom, len(g.atoms))
	for i, a := range g.atoms {
		out[i] = a.clone()
	}
	return out
}

// Bonds returns a deep copy of the pattern bonds ordered by (A, B).
func (g *Group) Bonds() []GroupBond {
	out := make([]GroupBond, len(g.bonds))
	for i, b := range g.bonds {
		out[i] = b.clone()
	}
	return out
}

// Copy returns a deep copy.
func (g *Group) Copy() *Group {
	return &Group{
		atoms:        g.Atoms(),
		bonds:        g.Bonds(),
		multiplicity: append([]int(nil), g.multiplicity...),
	}
}

// WithoutLabels returns a copy with every atom label cleared.
func (g *Group) WithoutLabels() *Group {
	c := g.Copy()
	for i := range c.atoms {
		c.atoms[i].Label = ""
	}
	return c
}

// AdjacencyList serializes the group.  Properties with no alternatives are
// omitted.  Every line ends with a newline.
func (g *Group) AdjacencyList() string {
	neighbors := make([][]GroupBond, len(g.atoms))
	for _, b := range g.bonds {
		neighbors[b.A] = append(neighbors[b.A], GroupBond{A: b.A, B: b.B, Orders: b.Orders})
		neighbors[b.B] = append(neighbors[b.B], GroupBond{A: b.B, B: b.A, Orders: b.Orders})
	}

	var sb strings.Builder
	if len(g.multiplicity) > 0 {
		sb.WriteString("multiplicity ")
		sb.WriteString(formatIntList(g.multiplicity, false))
		sb.WriteByte('\n')
	}
	for i, a := range g.atoms {
		sb.WriteString(strconv.Itoa(i + 1))
		if a.Label != "" {
			sb.WriteByte(' ')
			sb.WriteString(a.Label)
		}
		sb.WriteByte(' ')
		sb.WriteString(formatStringList(a.AtomTypes))
		if len(a.Radicals) > 0 {
			sb.WriteString(" u")
			sb.WriteString(formatIntList(a.Radicals, false))
		}
		if len(a.LonePairs) > 0 {
			sb.WriteString(" p")
			sb.WriteString(formatIntList(a.LonePairs, false))
		}
		if len(a.Charges) > 0 {
			sb.WriteString(" c")
			sb.WriteString(formatIntList(a.Charges, true))
		}
		nbs := neighbors[i]
		sort.Slice(nbs, func(x, y int) bool { return nbs[x].B < nbs[y].B })
		for _, nb := range nbs {
			sb.WriteString(" {")
			sb.WriteString(strconv.Itoa(nb.B + 1))
			sb.WriteByte(',')
			sb.WriteString(formatStringList(nb.Orders))
			sb.WriteByte('}')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// IsIsomorphic reports whether other is the same pattern as g.  The order of
// alternatives inside a list does not matter.
func (g *Group) IsIsomorphic(other *Group) bool {
	if g == nil || other == nil {
		return g == other
	}
	if sortedInts(g.multiplicity) != sortedInts(other.multiplicity) {
		return false
	}
	return isomorphic(g.graph(), other.graph())
}

func (g *Group) graph() graphView {
	v := newGraphView(len(g.atoms))
	for i, a := range g.atoms {
		v.keys[i] = strings.Join([]string{
			a.Label,
			sortedStrings(a.AtomTypes),
			sortedInts(a.Radicals),
			sortedInts(a.LonePairs),
			sortedInts(a.Charges),
		}, "|")
	}
	for _, b := range g.bonds {
		v.connect(b.A, b.B, sortedStrings(b.Orders))
	}
	return v
}

func sortedStrings(vals []string) string {
	s := append([]string(nil), vals...)
	sort.Strings(s)
	return strings.Join(s, ",")
}

func sortedInts(vals []int) string {
	s := append([]int(nil), vals...)
	sort.Ints(s)
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
