package internal

import "github.com/chrisconley/metcorr/specs"

type Muon struct {
	p4           LorentzVector
	isGlobal     bool
	isStandAlone bool
	isTracker    bool
}

func NewMuon(spec specs.MuonSpec) Muon {
	return Muon{
		p4:           NewLorentzVector(spec.P4),
		isGlobal:     spec.IsGlobalMuon,
		isStandAlone: spec.IsStandAloneMuon,
		isTracker:    spec.IsTrackerMuon,
	}
}

func (m Muon) P4() LorentzVector      { return m.p4 }
func (m Muon) IsGlobalMuon() bool     { return m.isGlobal }
func (m Muon) IsStandAloneMuon() bool { return m.isStandAlone }
func (m Muon) IsTrackerMuon() bool    { return m.isTracker }

// MuonSelector decides whether a muon found in a jet is removed from it.
type MuonSelector func(Muon) bool

// SelectGlobalOrStandAloneMuon is the subtraction selection:
// "isGlobalMuon | isStandAloneMuon".
func SelectGlobalOrStandAloneMuon(m Muon) bool {
	return m.IsGlobalMuon() || m.IsStandAloneMuon()
}

// Candidate is a jet constituent.
type Candidate struct {
	p4   LorentzVector
	muon *Muon
	pf   *PFCandidate
}

type PFCandidate struct {
	muonRef *Muon
}

func NewCandidate(spec specs.CandidateSpec) Candidate {
	c := Candidate{p4: NewLorentzVector(spec.P4)}
	if spec.Muon != nil {
		m := NewMuon(*spec.Muon)
		c.muon = &m
	}
	if spec.PFCandidate != nil {
		pf := PFCandidate{}
		if spec.PFCandidate.MuonRef != nil {
			m := NewMuon(*spec.PFCandidate.MuonRef)
			pf.muonRef = &m
		}
		c.pf = &pf
	}
	return c
}

func (c Candidate) P4() LorentzVector {
	return c.p4
}

// ResolveMuon returns the muon behind the constituent. A particle-flow
// candidate resolves through its muon reference only; any other constituent
// resolves to itself when it is a muon.
func (c Candidate) ResolveMuon() (Muon, bool) {
	if c.pf != nil {
		if c.pf.muonRef == nil {
			return Muon{}, false
		}
		return *c.pf.muonRef, true
	}
	if c.muon != nil {
		return *c.muon, true
	}
	return Muon{}, false
}

// subtractMuons removes from raw the momentum of every constituent that
// resolves to a selected muon.
func subtractMuons(raw LorentzVector, constituents []Candidate, selected MuonSelector) LorentzVector {
	for _, c := range constituents {
		m, ok := c.ResolveMuon()
		if ok && selected(m) {
			raw = raw.Sub(c.P4())
		}
	}
	return raw
}
