package internal

import (
	"fmt"
	"math"

	"github.com/chrisconley/metcorr/specs"
)

// TypeIPolicy holds the jet selection thresholds and the muon subtraction
// predicate of the Type-I correction.
type TypeIPolicy struct {
	emFractionThreshold float64
	jetPtThreshold      float64
	jetEtaMax           float64
	selectMuon          MuonSelector
}

// NewTypeIPolicy validates an explicit policy. A nil spec gives the defaults.
func NewTypeIPolicy(spec *specs.TypeIPolicySpec) (TypeIPolicy, error) {
	s := specs.DefaultTypeIPolicy()
	if spec != nil {
		s = *spec
	}

	thresholds := []struct {
		name  string
		value float64
	}{
		{"em fraction threshold", s.EMFractionThreshold},
		{"jet pt threshold", s.JetPtThreshold},
		{"jet eta max", s.JetEtaMax},
	}
	for _, th := range thresholds {
		if math.IsNaN(th.value) || math.IsInf(th.value, 0) || th.value <= 0 {
			return TypeIPolicy{}, fmt.Errorf("invalid policy: %s must be a positive finite number, got %v", th.name, th.value)
		}
	}

	return TypeIPolicy{
		emFractionThreshold: s.EMFractionThreshold,
		jetPtThreshold:      s.JetPtThreshold,
		jetEtaMax:           s.JetEtaMax,
		selectMuon:          SelectGlobalOrStandAloneMuon,
	}, nil
}

func DefaultTypeIPolicy() TypeIPolicy {
	p, _ := NewTypeIPolicy(nil)
	return p
}

func (p TypeIPolicy) EMFractionThreshold() float64 { return p.emFractionThreshold }
func (p TypeIPolicy) JetPtThreshold() float64      { return p.jetPtThreshold }
func (p TypeIPolicy) JetEtaMax() float64           { return p.jetEtaMax }

func (p TypeIPolicy) ToSpec() specs.TypeIPolicySpec {
	return specs.TypeIPolicySpec{
		EMFractionThreshold: p.emFractionThreshold,
		JetPtThreshold:      p.jetPtThreshold,
		JetEtaMax:           p.jetEtaMax,
	}
}

// skips reports whether a jet is excluded from the correction by its
// electromagnetic energy fraction.
func (p TypeIPolicy) skips(j Jet) bool {
	return j.EMEnergyFraction() > p.emFractionThreshold
}
