package structure

// atomicMass is the standard atomic weight of each element in g/mol.
var atomicMass = map[string]float64{
	"H":  1.00794,
	"He": 4.002602,
	"C":  12.0107,
	"N":  14.0067,
	"O":  15.9994,
	"F":  18.9984032,
	"Ne": 20.1797,
	"Si": 28.0855,
	"P":  30.973762,
	"S":  32.065,
	"Cl": 35.453,
	"Ar": 39.948,
	"Br": 79.904,
	"I":  126.90447,
}

// MolecularWeight returns the molecule's molar mass in kg/mol.  ok is false
// when an element has no known mass.
func (m *Molecule) MolecularWeight() (w float64, ok bool) {
	for _, a := range m.atoms {
		mass, known := atomicMass[a.Element]
		if !known {
			return 0, false
		}
		w += mass
	}
	return w / 1000, true
}

//Personal.AI order the ending
