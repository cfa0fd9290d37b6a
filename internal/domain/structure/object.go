// Package structure holds the chemical-structure object model shown on the
// site: molecules, functional groups, species, database entries and the plain
// text and unsupported fallbacks.  All of them satisfy the sealed Object
// interface; code that needs to react to the concrete kind implements Visitor,
// which forces every kind to be handled.
//
// Values are immutable once constructed.  Operations that would modify a
// structure (clearing atom labels, removing hydrogens) return a new value.
package structure

// Kind names an Object variant.  It is used as a metric label and cache key
// component, never for dispatch; dispatch goes through Visitor.
type Kind string

const (
	KindMolecule    Kind = "molecule"
	KindGroup       Kind = "group"
	KindSpecies     Kind = "species"
	KindEntry       Kind = "entry"
	KindText        Kind = "text"
	KindUnsupported Kind = "unsupported"
)

// Object is the closed set of things a page can ask to display.  The unexported
// marker method keeps other packages from adding variants.
type Object interface {
	Kind() Kind
	Accept(v Visitor)
	isObject()
}

// Visitor receives the concrete variant of an Object.  Adding a variant adds a
// method here, so every implementation must be updated before it compiles.
type Visitor interface {
	VisitMolecule(m *Molecule)
	VisitGroup(g *Group)
	VisitSpecies(s *Species)
	VisitEntry(e *Entry)
	VisitText(t Text)
	VisitUnsupported(u Unsupported)
}

// ─────────────────────────────────────────────────────────────────────────────
// Species
// ─────────────────────────────────────────────────────────────────────────────

// Species is a named chemical species with zero or more resonance structures.
// The first molecule is the one used for display.
type Species struct {
	Label     string
	Molecules []*Molecule
}

// NewSpecies builds a Species from a label and its resonance structures.
func NewSpecies(label string, molecules ...*Molecule) *Species {
	mols := make([]*Molecule, len(molecules))
	copy(mols, molecules)
	return &Species{Label: label, Molecules: mols}
}

// Primary returns the first resonance structure, or false when there is none.
func (s *Species) Primary() (*Molecule, bool) {
	if s == nil || len(s.Molecules) == 0 {
		return nil, false
	}
	return s.Molecules[0], true
}

func (s *Species) Kind() Kind       { return KindSpecies }
func (s *Species) Accept(v Visitor) { v.VisitSpecies(s) }
func (s *Species) isObject()        {}

// ─────────────────────────────────────────────────────────────────────────────
// Entry
// ─────────────────────────────────────────────────────────────────────────────

// Entry is a database record that wraps any other Object.
type Entry struct {
	Index int
	Label string
	Item  Object
}

func (e *Entry) Kind() Kind       { return KindEntry }
func (e *Entry) Accept(v Visitor) { v.VisitEntry(e) }
func (e *Entry) isObject()        {}

// Unwrap returns the item of an Entry, or obj itself for every other kind.
// Only one level is removed.
func Unwrap(obj Object) Object {
	if e, ok := obj.(*Entry); ok && e != nil {
		return e.Item
	}
	return obj
}

// ─────────────────────────────────────────────────────────────────────────────
// Text and Unsupported
// ─────────────────────────────────────────────────────────────────────────────

// Text is literal text that is displayed as-is.
type Text string

func (t Text) Kind() Kind       { return KindText }
func (t Text) Accept(v Visitor) { v.VisitText(t) }
func (t Text) isObject()        {}

// Unsupported stands for any value the site has no display for, such as
// kinetics or thermo data attached to an entry.
type Unsupported struct {
	Name string
}

func (u Unsupported) Kind() Kind       { return KindUnsupported }
func (u Unsupported) Accept(v Visitor) { v.VisitUnsupported(u) }
func (u Unsupported) isObject()        {}
