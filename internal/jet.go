package internal

import "github.com/chrisconley/metcorr/specs"

type Jet struct {
	rawP4        LorentzVector
	area         float64
	chargedEm    float64
	neutralEm    float64
	constituents []Candidate
}

func NewJet(spec specs.JetSpec) Jet {
	constituents := make([]Candidate, len(spec.Constituents))
	for i, c := range spec.Constituents {
		constituents[i] = NewCandidate(c)
	}
	return Jet{
		rawP4:        NewLorentzVector(spec.RawP4),
		area:         spec.Area,
		chargedEm:    spec.ChargedEmEnergyFraction,
		neutralEm:    spec.NeutralEmEnergyFraction,
		constituents: constituents,
	}
}

// RawP4 returns the jet momentum before any correction.
func (j Jet) RawP4() LorentzVector {
	return j.rawP4
}

func (j Jet) Area() float64 {
	return j.area
}

// EMEnergyFraction returns the charged plus neutral electromagnetic fraction.
func (j Jet) EMEnergyFraction() float64 {
	return j.chargedEm + j.neutralEm
}

func (j Jet) Constituents() []Candidate {
	return j.constituents
}
