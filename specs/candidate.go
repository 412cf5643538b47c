package specs

// CandidateSpec represents one constituent of a clustered jet.
//
// A constituent can expose a muon in two ways, mirroring how the host
// framework stores them:
//   - Directly: the constituent is itself a muon (Muon is set).
//   - Through a particle-flow candidate: PFCandidate is set and may carry a
//     back-reference to the muon it was built from.
//
// When PFCandidate is set it takes precedence: a particle-flow candidate
// without a muon reference resolves to "no muon", even if Muon is also set.
type CandidateSpec struct {
	// Kinematics of the constituent.
	//
	// This is the momentum subtracted from the jet when the constituent
	// resolves to a selected muon (not the momentum of the muon itself).
	P4 FourMomentumSpec `json:"p4" yaml:"p4"`

	// Set when the constituent is directly a muon.
	Muon *MuonSpec `json:"muon,omitempty" yaml:"muon,omitempty"`

	// Set when the constituent is a particle-flow candidate.
	PFCandidate *PFCandidateSpec `json:"pfCandidate,omitempty" yaml:"pfCandidate,omitempty"`
}

// PFCandidateSpec represents the particle-flow view of a jet constituent.
type PFCandidateSpec struct {
	// Muon this particle-flow candidate was built from, if any.
	//
	// A nil reference means the candidate is not associated with a muon.
	MuonRef *MuonSpec `json:"muonRef,omitempty" yaml:"muonRef,omitempty"`
}

// MuonSpec represents a reconstructed muon.
//
// Only the reconstruction-type flags take part in the Type-I correction: a
// constituent is removed from the jet when its muon is global or standalone.
type MuonSpec struct {
	// Kinematics of the muon track.
	P4 FourMomentumSpec `json:"p4" yaml:"p4"`

	// Reconstructed by a combined fit of tracker and muon-system hits.
	IsGlobalMuon bool `json:"isGlobalMuon" yaml:"isGlobalMuon"`

	// Reconstructed from muon-system hits only.
	IsStandAloneMuon bool `json:"isStandAloneMuon" yaml:"isStandAloneMuon"`

	// Reconstructed from a tracker track matched to muon-system segments.
	//
	// Carried for completeness; not part of the subtraction selection.
	IsTrackerMuon bool `json:"isTrackerMuon" yaml:"isTrackerMuon"`
}
