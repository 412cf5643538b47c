package specs

// JetSpec represents a clustered jet as delivered by the host framework.
//
// Jets arrive already clustered and possibly already corrected by the host;
// the Type-I correction only ever starts from the raw (uncorrected) momentum
// and re-derives every corrected momentum it needs.
type JetSpec struct {
	// Jet momentum before any energy correction was applied.
	RawP4 FourMomentumSpec `json:"rawP4" yaml:"rawP4"`

	// Catchment area of the jet in the eta-phi plane.
	//
	// Used together with the event's pileup density by the offset level.
	Area float64 `json:"area" yaml:"area"`

	// Fraction of the jet energy carried by charged electromagnetic deposits.
	ChargedEmEnergyFraction float64 `json:"chargedEmEnergyFraction" yaml:"chargedEmEnergyFraction"`

	// Fraction of the jet energy carried by neutral electromagnetic deposits.
	//
	// Jets whose total EM fraction (charged + neutral) exceeds the policy
	// threshold are left out of the Type-I correction.
	NeutralEmEnergyFraction float64 `json:"neutralEmEnergyFraction" yaml:"neutralEmEnergyFraction"`

	// Jet constituents in clustering order.
	Constituents []CandidateSpec `json:"constituents,omitempty" yaml:"constituents,omitempty"`
}
