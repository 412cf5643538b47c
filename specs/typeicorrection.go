package specs

// TypeICorrectionConfigSpec configures the Type-I MET correction engine.
//
// The configuration is read once at startup. An empty payload list puts the
// engine in pass-through mode, where the host-corrected MET is forwarded
// unchanged; a non-empty list makes it recompute the correction for every
// event.
type TypeICorrectionConfigSpec struct {
	// Ordered jet energy correction payload identifiers.
	//
	// Each identifier is the path of a correction-parameter text file,
	// optionally followed by "#Section" to select a named block of a
	// multi-section file. The first payload is the pileup offset level; it is
	// also used on its own to build the offset-only corrector. Typical chain:
	// L1FastJet, L2Relative, L3Absolute (+ L2L3Residual on data).
	JECPayloads []string `json:"jecPayloads" yaml:"jecPayloads"`

	// Optional override of the selection thresholds.
	//
	// If nil, the documented defaults apply (EM fraction 0.9, jet pt 15 GeV,
	// eta acceptance 9.9). Changing any of them changes physics results, so
	// an override must state all three values explicitly.
	Policy *TypeIPolicySpec `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// TypeIPolicySpec holds the selection thresholds of the Type-I correction.
type TypeIPolicySpec struct {
	// Jets with chargedEm + neutralEm fraction above this value are skipped.
	EMFractionThreshold float64 `json:"emFractionThreshold" yaml:"emFractionThreshold"`

	// Only jets whose corrected pt is strictly above this value contribute.
	JetPtThreshold float64 `json:"jetPtThreshold" yaml:"jetPtThreshold"`

	// Jets with |eta| at or above this value are left uncorrected (factor 1).
	JetEtaMax float64 `json:"jetEtaMax" yaml:"jetEtaMax"`
}

// Default selection thresholds of the Type-I correction.
const (
	DefaultEMFractionThreshold = 0.9
	DefaultJetPtThreshold      = 15.0
	DefaultJetEtaMax           = 9.9
)

// DefaultTypeIPolicy returns the documented default thresholds.
func DefaultTypeIPolicy() TypeIPolicySpec {
	return TypeIPolicySpec{
		EMFractionThreshold: DefaultEMFractionThreshold,
		JetPtThreshold:      DefaultJetPtThreshold,
		JetEtaMax:           DefaultJetEtaMax,
	}
}
