package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ethylRadical = `multiplicity 2
1 *1 C u1 p0 c0 {2,S} {3,S} {4,S}
2 C u0 p0 c0 {1,S} {5,S} {6,S} {7,S}
3 H u0 p0 c0 {1,S}
4 H u0 p0 c0 {1,S}
5 H u0 p0 c0 {2,S}
6 H u0 p0 c0 {2,S}
7 H u0 p0 c0 {2,S}
`

// Same radical with the carbons swapped and no labels.
const ethylRadicalReordered = `multiplicity 2
1 C u0 p0 c0 {2,S} {3,S} {4,S} {5,S}
2 C u1 p0 c0 {1,S} {6,S} {7,S}
3 H u0 p0 c0 {1,S}
4 H u0 p0 c0 {1,S}
5 H u0 p0 c0 {1,S}
6 H u0 p0 c0 {2,S}
7 H u0 p0 c0 {2,S}
`

func mustMolecule(t *testing.T, adjlist string) *Molecule {
	t.Helper()
	m, err := ParseMolecule(adjlist)
	require.NoError(t, err)
	return m
}

func TestParseMolecule_RoundTrip(t *testing.T) {
	m := mustMolecule(t, ethylRadical)
	assert.Equal(t, ethylRadical, m.AdjacencyList())
	assert.Equal(t, 2, m.Multiplicity())
	assert.Equal(t, 7, m.AtomCount())
	assert.Len(t, m.Bonds(), 6)
}

func TestParseMolecule_NameLineAndBlankLines(t *testing.T) {
	m := mustMolecule(t, "ethane\n\n1 C u0 p0 c0 {2,S}\r\n2 C u0 p0 c0 {1,S}\n\n")
	assert.Equal(t, "1 C u0 p0 c0 {2,S}\n2 C u0 p0 c0 {1,S}\n", m.AdjacencyList())
}

func TestParseMolecule_LegacyRadicalForm(t *testing.T) {
	m := mustMolecule(t, "1 *1 C 1 {2,S}\n2 C 0 {1,S}\n")

	atoms := m.Atoms()
	require.Len(t, atoms, 2)
	assert.Equal(t, 1, atoms[0].Radicals)
	assert.Equal(t, -1, atoms[0].LonePairs)
	assert.Equal(t, "*1", atoms[0].Label)
	assert.Equal(t, "1 *1 C u1 c0 {2,S}\n2 C u0 c0 {1,S}\n", m.AdjacencyList())
}

func TestParseMolecule_Charges(t *testing.T) {
	m := mustMolecule(t, "1 N u0 p0 c+1 {2,S}\n2 O u0 p3 c-1 {1,S}\n")
	atoms := m.Atoms()
	assert.Equal(t, 1, atoms[0].Charge)
	assert.Equal(t, -1, atoms[1].Charge)
	assert.Equal(t, "1 N u0 p0 c+1 {2,S}\n2 O u0 p3 c-1 {1,S}\n", m.AdjacencyList())
}

func TestParseMolecule_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantLine int
		reason   string
	}{
		{"empty", "", 0, "no atoms"},
		{"only whitespace", "  \n\t\n", 0, "no atoms"},
		{"undefined partner", "1 C u0 {2,S}\n", 1, "undefined atom 2"},
		{"missing back bond", "1 C u0 {2,S}\n2 C u0\n", 0, "not listed on atom 2"},
		{"inconsistent order", "1 C u0 {2,S}\n2 C u0 {1,D}\n", 0, "inconsistent orders"},
		{"index gap", "1 C u0\n3 C u0\n", 2, "expected atom index 2"},
		{"unknown token", "1 C x0\n", 1, "unexpected token"},
		{"self bond", "1 C u0 {1,S}\n", 1, "bonded to itself"},
		{"repeated bond", "1 C u0 {2,S} {2,S}\n2 C u0 {1,S}\n", 1, "repeated bond"},
		{"unknown order", "1 C u0 {2,Q}\n2 C u0 {1,Q}\n", 1, "unknown bond order"},
		{"malformed bond", "1 C u0 {2S}\n", 1, "malformed bond"},
		{"repeated property", "1 C u0 u1\n", 1, "repeated property"},
		{"missing type", "1 *1 {2,S}\n", 1, "missing atom type"},
		{"two name lines", "ethane\nmethane\n1 C u0\n", 2, "expected an atom line"},
		{"element alternatives", "1 [C,O] u0\n", 1, "single element"},
		{"radical alternatives", "1 C u[0,1]\n", 1, "single radical"},
		{"bond alternatives", "1 C u0 {2,[S,D]}\n2 C u0 {1,[S,D]}\n", 1, "single order"},
		{"bad multiplicity", "multiplicity [1,3]\n1 C u0\n", 0, "multiplicity"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseMolecule(tt.input)
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantLine, pe.Line)
			assert.Contains(t, pe.Reason, tt.reason)
		})
	}
}

func TestMolecule_WithoutLabels_LeavesReceiver(t *testing.T) {
	m := mustMolecule(t, ethylRadical)
	cleared := m.WithoutLabels()

	assert.Equal(t, "*1", m.Atoms()[0].Label)
	assert.Equal(t, "", cleared.Atoms()[0].Label)
	assert.NotContains(t, cleared.AdjacencyList(), "*1")
}

func TestMolecule_Copy_IsIndependent(t *testing.T) {
	m := mustMolecule(t, ethylRadical)
	c := m.Copy()
	c.atoms[0].Element = "N"

	assert.Equal(t, "C", m.Atoms()[0].Element)
}

func TestMolecule_Accessors_ReturnCopies(t *testing.T) {
	m := mustMolecule(t, ethylRadical)
	atoms := m.Atoms()
	atoms[0].Label = "*9"
	bonds := m.Bonds()
	bonds[0].Order = "T"

	assert.Equal(t, "*1", m.Atoms()[0].Label)
	assert.Equal(t, "S", m.Bonds()[0].Order)
}

func TestMolecule_AdjacencyList_WithoutHydrogens(t *testing.T) {
	m := mustMolecule(t, ethylRadical)
	want := "multiplicity 2\n1 *1 C u1 p0 c0 {2,S}\n2 C u0 p0 c0 {1,S}\n"
	assert.Equal(t, want, m.AdjacencyList(WithoutHydrogens()))

	h2 := mustMolecule(t, "1 H u0 p0 c0 {2,S}\n2 H u0 p0 c0 {1,S}\n")
	assert.Equal(t, h2.AdjacencyList(), h2.AdjacencyList(WithoutHydrogens()))
}

func TestMolecule_Formula(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ethyl", ethylRadical, "C2H5"},
		{"water", "1 O u0 p2 c0 {2,S} {3,S}\n2 H u0 p0 c0 {1,S}\n3 H u0 p0 c0 {1,S}\n", "H2O"},
		{"methanol", "1 C u0 {2,S} {3,S} {4,S} {5,S}\n2 O u0 {1,S} {6,S}\n3 H u0 {1,S}\n4 H u0 {1,S}\n5 H u0 {1,S}\n6 H u0 {2,S}\n", "CH4O"},
		{"argon", "1 Ar u0 p4 c0\n", "Ar"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mustMolecule(t, tt.input).Formula())
		})
	}
}

func TestMolecule_IsIsomorphic(t *testing.T) {
	labeled := mustMolecule(t, ethylRadical)
	reordered := mustMolecule(t, ethylRadicalReordered)

	assert.True(t, labeled.WithoutLabels().IsIsomorphic(reordered))
	assert.True(t, reordered.IsIsomorphic(labeled.WithoutLabels()))
	assert.False(t, labeled.IsIsomorphic(reordered), "labels take part in the comparison")

	ethane := mustMolecule(t, "1 C u0 {2,S}\n2 C u0 {1,S}\n")
	ethene := mustMolecule(t, "1 C u0 {2,D}\n2 C u0 {1,D}\n")
	assert.False(t, ethane.IsIsomorphic(ethene))
	assert.False(t, ethane.IsIsomorphic(labeled))
	assert.False(t, ethane.IsIsomorphic(nil))
}

func TestMolecule_IsIsomorphic_Multiplicity(t *testing.T) {
	singlet := mustMolecule(t, "multiplicity 1\n1 C u2 p0 c0\n")
	triplet := mustMolecule(t, "multiplicity 3\n1 C u2 p0 c0\n")
	assert.False(t, singlet.IsIsomorphic(triplet))
}

func TestMolecule_IsIsomorphic_Rings(t *testing.T) {
	// Heavy-atom skeletons of cyclopropane and propane.
	ring := mustMolecule(t, "1 C u0 {2,S} {3,S}\n2 C u0 {1,S} {3,S}\n3 C u0 {1,S} {2,S}\n")
	chain := mustMolecule(t, "1 C u0 {2,S}\n2 C u0 {1,S} {3,S}\n3 C u0 {2,S}\n")
	rotated := mustMolecule(t, "1 C u0 {2,S} {3,S}\n2 C u0 {3,S} {1,S}\n3 C u0 {2,S} {1,S}\n")

	assert.False(t, ring.IsIsomorphic(chain))
	assert.True(t, ring.IsIsomorphic(rotated))
}

func TestNewMolecule(t *testing.T) {
	m, err := NewMolecule([]Atom{
		{Element: "O", LonePairs: 2},
		{Element: "C", Label: "*1", LonePairs: 0},
	}, []Bond{{A: 1, B: 0, Order: "D"}}, 0)
	require.NoError(t, err)

	assert.Equal(t, []Bond{{A: 0, B: 1, Order: "D"}}, m.Bonds())
	assert.Equal(t, "1 O u0 p2 c0 {2,D}\n2 *1 C u0 p0 c0 {1,D}\n", m.AdjacencyList())

	_, err = NewMolecule(nil, nil, 0)
	assert.Error(t, err)
	_, err = NewMolecule([]Atom{{Element: "C"}}, []Bond{{A: 0, B: 1, Order: "S"}}, 0)
	assert.Error(t, err)
	_, err = NewMolecule([]Atom{{Element: "C"}, {Element: "C"}}, []Bond{{A: 0, B: 1, Order: "X"}}, 0)
	assert.Error(t, err)
	_, err = NewMolecule([]Atom{{Element: "C"}, {Element: "C"}}, []Bond{{A: 0, B: 1, Order: "S"}, {A: 1, B: 0, Order: "S"}}, 0)
	assert.Error(t, err)
	_, err = NewMolecule([]Atom{{}}, nil, 0)
	assert.Error(t, err)
}

//Personal.AI order the ending
