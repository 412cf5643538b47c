package specs

import "math"

// METSpec represents a missing-transverse-energy candidate.
//
// The host reports MET twice: once before any correction (raw, in polar
// form) and once with the corrections the host applied itself (Cartesian).
// When corrections are recomputed on the fly only the raw view is read; in
// pass-through mode the host-corrected view is forwarded unchanged.
type METSpec struct {
	// Magnitude of the uncorrected MET vector.
	RawPt float64 `json:"rawPt" yaml:"rawPt"`

	// Azimuthal angle of the uncorrected MET vector.
	RawPhi float64 `json:"rawPhi" yaml:"rawPhi"`

	// Scalar transverse-energy sum before corrections.
	RawSumEt float64 `json:"rawSumEt" yaml:"rawSumEt"`

	// x component of the host-corrected MET vector.
	Px float64 `json:"px" yaml:"px"`

	// y component of the host-corrected MET vector.
	Py float64 `json:"py" yaml:"py"`

	// Magnitude of the host-corrected MET vector, as reported by the host.
	Et float64 `json:"et" yaml:"et"`

	// Scalar transverse-energy sum after host corrections.
	SumEt float64 `json:"sumEt" yaml:"sumEt"`
}

// Phi returns the azimuthal angle of the host-corrected MET vector, zero
// when the vector is null.
func (m METSpec) Phi() float64 {
	if m.Px == 0 && m.Py == 0 {
		return 0
	}
	return math.Atan2(m.Py, m.Px)
}
