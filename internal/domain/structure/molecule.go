package structure

import (
	"sort"
	"strconv"
	"strings"
)

// Atom is one vertex of a Molecule.
type Atom struct {
	Element string
	// Label marks a reactive site, for example "*1".  Empty when unlabeled.
	Label    string
	Radicals int
	// LonePairs is -1 when not specified.
	LonePairs int
	Charge    int
}

// Bond joins two atoms by their 0-based indices.  A is always less than B.
type Bond struct {
	A     int
	B     int
	Order string
}

// Molecule is an immutable molecular graph.
type Molecule struct {
	atoms        []Atom
	bonds        []Bond
	multiplicity int
}

// NewMolecule validates atoms and bonds and returns the Molecule they describe.
// A multiplicity of zero means "not specified".
func NewMolecule(atoms []Atom, bonds []Bond, multiplicity int) (*Molecule, error) {
	if len(atoms) == 0 {
		return nil, listError("no atoms")
	}
	if multiplicity < 0 {
		return nil, listError("negative multiplicity %d", multiplicity)
	}
	for i, a := range atoms {
		if a.Element == "" {
			return nil, listError("atom %d has no element", i+1)
		}
	}
	m := &Molecule{
		atoms:        append([]Atom(nil), atoms...),
		multiplicity: multiplicity,
	}

	seen := make(map[[2]int]bool, len(bonds))
	for _, b := range bonds {
		if b.A > b.B {
			b.A, b.B = b.B, b.A
		}
		if b.A < 0 || b.B >= len(atoms) {
			return nil, listError("bond %d-%d references an undefined atom", b.A+1, b.B+1)
		}
		if b.A == b.B {
			return nil, listError("atom %d bonded to itself", b.A+1)
		}
		if !validBondOrders[b.Order] {
			return nil, listError("bond %d-%d has unknown order %q", b.A+1, b.B+1, b.Order)
		}
		key := [2]int{b.A, b.B}
		if seen[key] {
			return nil, listError("repeated bond %d-%d", b.A+1, b.B+1)
		}
		seen[key] = true
		m.bonds = append(m.bonds, b)
	}
	m.sortBonds()
	return m, nil
}

// ParseMolecule reads a molecule adjacency list.  Bracketed alternatives are
// rejected because a molecule must be fully specified.
func ParseMolecule(adjlist string) (*Molecule, error) {
	raw, err := parseRaw(adjlist)
	if err != nil {
		return nil, err
	}

	m := &Molecule{atoms: make([]Atom, len(raw.atoms))}
	if raw.multiplicity != nil {
		if len(raw.multiplicity) != 1 || raw.multiplicity[0] < 1 {
			return nil, listError("molecule multiplicity must be a single positive integer")
		}
		m.multiplicity = raw.multiplicity[0]
	}

	for i, ra := range raw.atoms {
		if len(ra.types) != 1 {
			return nil, lineError(ra.line, ra.text, "molecule atoms take a single element")
		}
		atom := Atom{Element: ra.types[0], Label: ra.label, LonePairs: -1}
		if atom.Radicals, err = single(ra, ra.radicals, 0, "radical"); err != nil {
			return nil, err
		}
		if atom.LonePairs, err = single(ra, ra.lonePairs, -1, "lone pair"); err != nil {
			return nil, err
		}
		if atom.Charge, err = single(ra, ra.charges, 0, "charge"); err != nil {
			return nil, err
		}
		if atom.Radicals < 0 || atom.LonePairs < -1 {
			return nil, lineError(ra.line, ra.text, "negative electron count")
		}
		m.atoms[i] = atom

		for _, rb := range ra.bonds {
			if len(rb.orders) != 1 {
				return nil, lineError(ra.line, ra.text, "molecule bonds take a single order")
			}
			if i < rb.neighbor {
				m.bonds = append(m.bonds, Bond{A: i, B: rb.neighbor, Order: rb.orders[0]})
			}
		}
	}
	m.sortBonds()
	return m, nil
}

func single(ra rawAtom, vals []int, def int, what string) (int, error) {
	switch len(vals) {
	case 0:
		return def, nil
	case 1:
		return vals[0], nil
	default:
		return 0, lineError(ra.line, ra.text, "molecule atoms take a single %s value", what)
	}
}

func (m *Molecule) sortBonds() {
	sort.Slice(m.bonds, func(i, j int) bool {
		if m.bonds[i].A != m.bonds[j].A {
			return m.bonds[i].A < m.bonds[j].A
		}
		return m.bonds[i].B < m.bonds[j].B
	})
}

func (m *Molecule) Kind() Kind       { return KindMolecule }
func (m *Molecule) Accept(v Visitor) { v.VisitMolecule(m) }
func (m *Molecule) isObject()        {}

// Atoms returns a copy of the atom list.
func (m *Molecule) Atoms() []Atom { return append([]Atom(nil), m.atoms...) }

// Bonds returns a copy of the bond list ordered by (A, B).
func (m *Molecule) Bonds() []Bond { return append([]Bond(nil), m.bonds...) }

// Multiplicity returns the spin multiplicity, or zero when unspecified.
func (m *Molecule) Multiplicity() int { return m.multiplicity }

// AtomCount returns the number of atoms including hydrogens.
func (m *Molecule) AtomCount() int { return len(m.atoms) }

// Copy returns a deep copy.
func (m *Molecule) Copy() *Molecule {
	return &Molecule{
		atoms:        append([]Atom(nil), m.atoms...),
		bonds:        append([]Bond(nil), m.bonds...),
		multiplicity: m.multiplicity,
	}
}

// WithoutLabels returns a copy with every atom label cleared.
func (m *Molecule) WithoutLabels() *Molecule {
	c := m.Copy()
	for i := range c.atoms {
		c.atoms[i].Label = ""
	}
	return c
}

// withoutHydrogens drops every H atom and the bonds touching them.  A molecule
// made only of hydrogens is returned unchanged.
func (m *Molecule) withoutHydrogens() *Molecule {
	remap := make([]int, len(m.atoms))
	out := &Molecule{multiplicity: m.multiplicity}
	for i, a := range m.atoms {
		if a.Element == "H" {
			remap[i] = -1
			continue
		}
		remap[i] = len(out.atoms)
		out.atoms = append(out.atoms, a)
	}
	if len(out.atoms) == 0 {
		return m
	}
	for _, b := range m.bonds {
		if remap[b.A] < 0 || remap[b.B] < 0 {
			continue
		}
		out.bonds = append(out.bonds, Bond{A: remap[b.A], B: remap[b.B], Order: b.Order})
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Serialization
// ─────────────────────────────────────────────────────────────────────────────

type serializeOptions struct {
	removeH bool
}

// SerializeOption adjusts Molecule.AdjacencyList.
type SerializeOption func(*serializeOptions)

// WithoutHydrogens omits hydrogen atoms from the adjacency list, leaving them
// implicit.  A molecule made only of hydrogens is written in full.
func WithoutHydrogens() SerializeOption {
	return func(o *serializeOptions) { o.removeH = true }
}

// AdjacencyList serializes the molecule.  Hydrogens are written explicitly
// unless WithoutHydrogens is given.  Every line ends with a newline.
func (m *Molecule) AdjacencyList(opts ...SerializeOption) string {
	var o serializeOptions
	for _, opt := range opts {
		opt(&o)
	}
	src := m
	if o.removeH {
		src = m.withoutHydrogens()
	}

	neighbors := src.neighborLists()
	var sb strings.Builder
	if src.multiplicity > 0 {
		sb.WriteString("multiplicity ")
		sb.WriteString(strconv.Itoa(src.multiplicity))
		sb.WriteByte('\n')
	}
	for i, a := range src.atoms {
		sb.WriteString(strconv.Itoa(i + 1))
		if a.Label != "" {
			sb.WriteByte(' ')
			sb.WriteString(a.Label)
		}
		sb.WriteByte(' ')
		sb.WriteString(a.Element)
		sb.WriteString(" u")
		sb.WriteString(strconv.Itoa(a.Radicals))
		if a.LonePairs >= 0 {
			sb.WriteString(" p")
			sb.WriteString(strconv.Itoa(a.LonePairs))
		}
		sb.WriteString(" c")
		sb.WriteString(formatSigned(a.Charge))
		for _, nb := range neighbors[i] {
			sb.WriteString(" {")
			sb.WriteString(strconv.Itoa(nb.index + 1))
			sb.WriteByte(',')
			sb.WriteString(nb.order)
			sb.WriteByte('}')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

type neighbor struct {
	index int
	order string
}

func (m *Molecule) neighborLists() [][]neighbor {
	out := make([][]neighbor, len(m.atoms))
	for _, b := range m.bonds {
		out[b.A] = append(out[b.A], neighbor{index: b.B, order: b.Order})
		out[b.B] = append(out[b.B], neighbor{index: b.A, order: b.Order})
	}
	for _, nbs := range out {
		sort.Slice(nbs, func(i, j int) bool { return nbs[i].index < nbs[j].index })
	}
	return out
}

// Formula returns the molecular formula in Hill order: carbon, then hydrogen,
// then the remaining elements alphabetically.  Without carbon every element,
// hydrogen included, is alphabetical.
func (m *Molecule) Formula() string {
	counts := make(map[string]int)
	for _, a := range m.atoms {
		counts[a.Element]++
	}

	var order []string
	_, hasCarbon := counts["C"]
	if hasCarbon {
		order = append(order, "C")
		if _, ok := counts["H"]; ok {
			order = append(order, "H")
		}
	}
	rest := make([]string, 0, len(counts))
	for el := range counts {
		if hasCarbon && (el == "C" || el == "H") {
			continue
		}
		rest = append(rest, el)
	}
	sort.Strings(rest)
	order = append(order, rest...)

	var sb strings.Builder
	for _, el := range order {
		sb.WriteString(el)
		if n := counts[el]; n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	return sb.String()
}

// IsIsomorphic reports whether other has the same graph as m, ignoring atom
// order.  Labels take part in the comparison, so compare WithoutLabels copies
// to test the bare structure.
func (m *Molecule) IsIsomorphic(other *Molecule) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.multiplicity != other.multiplicity {
		return false
	}
	return isomorphic(m.graph(), other.graph())
}

func (m *Molecule) graph() graphView {
	g := newGraphView(len(m.atoms))
	for i, a := range m.atoms {
		g.keys[i] = strings.Join([]string{
			a.Element, a.Label,
			strconv.Itoa(a.Radicals), strconv.Itoa(a.LonePairs), strconv.Itoa(a.Charge),
		}, "|")
	}
	for _, b := range m.bonds {
		g.connect(b.A, b.B, b.Order)
	}
	return g
}
