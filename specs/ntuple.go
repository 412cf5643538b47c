package specs

// METRecordSpec is one output row, written for one MET candidate.
//
// Field names follow the ntuple branch names so that a record can be laid out
// as a flat table without renaming.
type METRecordSpec struct {
	// Magnitude of the raw MET vector, recomputed as hypot(px, py).
	RawEt float64 `json:"METraw_et" yaml:"METraw_et"`

	// Azimuth of the raw MET vector, as reported by the host.
	RawPhi float64 `json:"METraw_phi" yaml:"METraw_phi"`

	// Raw scalar transverse-energy sum.
	RawSumEt float64 `json:"METraw_sumEt" yaml:"METraw_sumEt"`

	// Magnitude of the corrected MET vector.
	Et float64 `json:"MET_et" yaml:"MET_et"`

	// Azimuth of the corrected MET vector.
	Phi float64 `json:"MET_phi" yaml:"MET_phi"`

	// Corrected scalar transverse-energy sum.
	SumEt float64 `json:"MET_sumEt" yaml:"MET_sumEt"`

	// x component of the Type-I correction. Zero in pass-through mode.
	CorrPx float64 `json:"MET_corrPx" yaml:"MET_corrPx"`

	// y component of the Type-I correction. Zero in pass-through mode.
	CorrPy float64 `json:"MET_corrPy" yaml:"MET_corrPy"`
}

// METBranchesSpec is the output sink: eight append-only branches, one slot
// per processed MET candidate.
//
// Branches are never rewound within a run. All eight always have the same
// length, and slot i of every branch belongs to the same MET candidate.
type METBranchesSpec struct {
	METrawEt    []float64 `json:"METraw_et" yaml:"METraw_et"`
	METrawPhi   []float64 `json:"METraw_phi" yaml:"METraw_phi"`
	METrawSumEt []float64 `json:"METraw_sumEt" yaml:"METraw_sumEt"`
	METEt       []float64 `json:"MET_et" yaml:"MET_et"`
	METPhi      []float64 `json:"MET_phi" yaml:"MET_phi"`
	METSumEt    []float64 `json:"MET_sumEt" yaml:"MET_sumEt"`
	METCorrPx   []float64 `json:"MET_corrPx" yaml:"MET_corrPx"`
	METCorrPy   []float64 `json:"MET_corrPy" yaml:"MET_corrPy"`
}

// Append adds one record to every branch.
func (b *METBranchesSpec) Append(r METRecordSpec) {
	b.METrawEt = append(b.METrawEt, r.RawEt)
	b.METrawPhi = append(b.METrawPhi, r.RawPhi)
	b.METrawSumEt = append(b.METrawSumEt, r.RawSumEt)
	b.METEt = append(b.METEt, r.Et)
	b.METPhi = append(b.METPhi, r.Phi)
	b.METSumEt = append(b.METSumEt, r.SumEt)
	b.METCorrPx = append(b.METCorrPx, r.CorrPx)
	b.METCorrPy = append(b.METCorrPy, r.CorrPy)
}

// Len returns the number of records held by the branches.
func (b *METBranchesSpec) Len() int {
	return len(b.METrawEt)
}

// Record returns slot i of every branch as one record.
func (b *METBranchesSpec) Record(i int) METRecordSpec {
	return METRecordSpec{
		RawEt:    b.METrawEt[i],
		RawPhi:   b.METrawPhi[i],
		RawSumEt: b.METrawSumEt[i],
		Et:       b.METEt[i],
		Phi:      b.METPhi[i],
		SumEt:    b.METSumEt[i],
		CorrPx:   b.METCorrPx[i],
		CorrPy:   b.METCorrPy[i],
	}
}

// FillBranches computes the MET records of one event and appends them to the
// branches, one record per MET candidate in input order.
//
// This is the boundary signature using only primitive types.
// See internal.TypeICorrectionEngine.FillBranches for the implementation.
type FillBranches func(event EventSpec, branches *METBranchesSpec)
