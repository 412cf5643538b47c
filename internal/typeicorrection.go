package internal

import (
	"fmt"
	"math"
)

// TypeICorrection is the per-event Type-I correction vector.
type TypeICorrection struct {
	CorrEx    float64
	CorrEy    float64
	CorrSumEt float64
}

func undefinedTypeICorrection() TypeICorrection {
	return TypeICorrection{CorrEx: math.NaN(), CorrEy: math.NaN(), CorrSumEt: math.NaN()}
}

// typeIAccumulator sums per-jet contributions as decimals. The float64 terms
// are converted exactly (shortest representation) and the sums stay exact
// for any realistic spread of jet momenta, so the result does not depend on
// the order jets are visited in.
type typeIAccumulator struct {
	ex    Decimal
	ey    Decimal
	sumEt Decimal
}

func newTypeIAccumulator() typeIAccumulator {
	return typeIAccumulator{
		ex:    NewDecimalFromInt64(0),
		ey:    NewDecimalFromInt64(0),
		sumEt: NewDecimalFromInt64(0),
	}
}

// add records one jet: corrected is the fully corrected (muon-subtracted)
// jet, offsetCorrected the raw jet with only the offset level applied. On
// error the accumulator is left unchanged.
func (a *typeIAccumulator) add(corrected, offsetCorrected LorentzVector) error {
	dx, err := NewDecimalFromFloat64(corrected.Px() - offsetCorrected.Px())
	if err != nil {
		return fmt.Errorf("px term: %w", err)
	}
	dy, err := NewDecimalFromFloat64(corrected.Py() - offsetCorrected.Py())
	if err != nil {
		return fmt.Errorf("py term: %w", err)
	}
	det, err := NewDecimalFromFloat64(corrected.Et() - offsetCorrected.Et())
	if err != nil {
		return fmt.Errorf("et term: %w", err)
	}
	a.ex = a.ex.Sub(dx)
	a.ey = a.ey.Sub(dy)
	a.sumEt = a.sumEt.Add(det)
	return nil
}

func (a typeIAccumulator) result() TypeICorrection {
	return TypeICorrection{
		CorrEx:    a.ex.Float64(),
		CorrEy:    a.ey.Float64(),
		CorrSumEt: a.sumEt.Float64(),
	}
}
