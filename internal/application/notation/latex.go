// Package notation formats numbers for display in page templates.
package notation

import (
	"math"
	"strconv"
)

// significantDigits matches the precision of a bare %g verb.
const significantDigits = 6

// smallestNormal is the least positive normal float64.
const smallestNormal = 0x1p-1022

// LaTeXScientificNotation renders v as "<mantissa> \times 10^{<exp>}" with a
// mantissa in [1, 10) printed to six significant digits and trailing zeros
// trimmed.  Zero renders as "0".  NaN and infinities have no exponent and
// render as "NaN", "\infty" and "-\infty".
//
//	LaTeXScientificNotation(1500)   == `1.5 \times 10^{3}`
//	LaTeXScientificNotation(-0.002) == `-2 \times 10^{-3}`
func LaTeXScientificNotation(v float64) string {
	switch {
	case v == 0:
		return "0"
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return `\infty`
	case math.IsInf(v, -1):
		return `-\infty`
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	// Pow10 underflows to zero past the normal range, so subnormals are lifted
	// into it first and the exponent is shifted back afterwards.
	shift := 0
	if v < smallestNormal {
		v *= 1e300
		shift = -300
	}

	exp := int(math.Floor(math.Log10(v)))
	mant := v / math.Pow10(exp)
	// Log10 can land a hair off an exact power of ten.
	if mant < 1 {
		mant *= 10
		exp--
	} else if mant >= 10 {
		mant /= 10
		exp++
	}
	exp += shift

	digits := strconv.FormatFloat(mant, 'g', significantDigits, 64)
	// 9.9999996 rounds up to "10" at six digits.
	if digits == "10" {
		digits = "1"
		exp++
	}
	return sign + digits + ` \times 10^{` + strconv.Itoa(exp) + `}`
}

//Personal.AI order the ending
