package internal

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/chrisconley/metcorr/specs"
)

// eventConditions are the per-event quantities every jet correction reads.
type eventConditions struct {
	rho float64
	npv int
}

// TypeICorrectionEngine recomputes the Type-I MET correction for each event
// and appends one record per MET candidate to its branches.
//
// An engine in on-the-fly mode owns two correctors: the full chain and the
// offset level on its own. Correctors are not safe for concurrent use, so an
// engine must be used from one goroutine at a time.
type TypeICorrectionEngine struct {
	onTheFly bool
	full     JetCorrector
	offset   JetCorrector
	policy   TypeIPolicy
	branches *specs.METBranchesSpec
	levels   []string
}

// NewTypeICorrectionEngine loads the configured payloads and builds an
// engine writing to branches. An empty payload list gives a pass-through
// engine; a payload that fails to load fails construction.
func NewTypeICorrectionEngine(configSpec specs.TypeICorrectionConfigSpec, branches *specs.METBranchesSpec) (*TypeICorrectionEngine, error) {
	policy, err := NewTypeIPolicy(configSpec.Policy)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	levels, err := LoadJetCorrectionLevels(configSpec.JECPayloads)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return NewTypeICorrectionEngineFromLevels(levels, policy, branches)
}

// NewTypeICorrectionEngineFromLevels builds an engine over already parsed
// levels. Parsed levels are immutable and may back any number of engines.
func NewTypeICorrectionEngineFromLevels(levels JetCorrectionLevels, policy TypeIPolicy, branches *specs.METBranchesSpec) (*TypeICorrectionEngine, error) {
	if branches == nil {
		return nil, errors.New("branches must not be nil")
	}
	if levels.Empty() {
		e := newTypeICorrectionEngine(nil, nil, policy, branches)
		log.Info().Msg("type-I correction engine in pass-through mode")
		return e, nil
	}

	full, err := NewFactorizedCorrector(levels)
	if err != nil {
		return nil, fmt.Errorf("failed to build full corrector: %w", err)
	}
	offset, err := NewFactorizedCorrector(levels.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to build offset corrector: %w", err)
	}

	e := newTypeICorrectionEngine(full, offset, policy, branches)
	e.levels = levels.Names()
	log.Info().
		Strs("levels", e.levels).
		Float64("em_fraction_threshold", policy.EMFractionThreshold()).
		Float64("jet_pt_threshold", policy.JetPtThreshold()).
		Float64("jet_eta_max", policy.JetEtaMax()).
		Msg("type-I correction engine correcting on the fly")
	return e, nil
}

// newTypeICorrectionEngine wires the given correctors. A nil full corrector
// means pass-through mode; a zero policy means the default one.
func newTypeICorrectionEngine(full, offset JetCorrector, policy TypeIPolicy, branches *specs.METBranchesSpec) *TypeICorrectionEngine {
	if policy.selectMuon == nil {
		policy = DefaultTypeIPolicy()
	}
	return &TypeICorrectionEngine{
		onTheFly: full != nil,
		full:     full,
		offset:   offset,
		policy:   policy,
		branches: branches,
	}
}

// CorrectOnTheFly reports whether the engine recomputes the correction.
func (e *TypeICorrectionEngine) CorrectOnTheFly() bool {
	return e.onTheFly
}

// Levels returns the names of the full correction chain, empty in
// pass-through mode.
func (e *TypeICorrectionEngine) Levels() []string {
	return e.levels
}

func (e *TypeICorrectionEngine) Policy() TypeIPolicy {
	return e.policy
}

func (e *TypeICorrectionEngine) Branches() *specs.METBranchesSpec {
	return e.branches
}

// evaluateCorrection returns the correction factor of a jet with momentum raw.
// Outside the eta acceptance the factor is exactly 1.
func evaluateCorrection(raw LorentzVector, jet Jet, etaMax float64, conditions eventConditions, corrector JetCorrector) float64 {
	eta := raw.Eta()
	if math.Abs(eta) >= etaMax {
		return 1
	}
	return corrector.Correction(CorrectionInputs{
		Eta:    eta,
		Pt:     raw.Pt(),
		Energy: raw.E(),
		Phi:    raw.Phi(),
		Area:   jet.Area(),
		Rho:    conditions.rho,
		NPV:    conditions.npv,
	})
}

// AccumulateTypeICorrection sums the Type-I contributions of the event's
// jets. A pass-through engine always returns the zero correction. A jet whose
// contribution cannot be accumulated makes every component NaN.
func (e *TypeICorrectionEngine) AccumulateTypeICorrection(event Event) TypeICorrection {
	if !e.onTheFly {
		return TypeICorrection{}
	}

	conditions := eventConditions{rho: event.Rho(), npv: event.VertexCount()}
	etaMax := e.policy.JetEtaMax()
	acc := newTypeIAccumulator()
	for i, jet := range event.Jets() {
		if e.policy.skips(jet) {
			continue
		}

		raw := jet.RawP4()
		factor := evaluateCorrection(raw, jet, etaMax, conditions, e.full)
		corrected := subtractMuons(raw, jet.Constituents(), e.policy.selectMuon).Scale(factor)
		if corrected.Pt() <= e.policy.JetPtThreshold() {
			continue
		}

		offsetFactor := evaluateCorrection(raw, jet, etaMax, conditions, e.offset)
		if err := acc.add(corrected, raw.Scale(offsetFactor)); err != nil {
			log.Error().Err(err).
				Uint64("event", event.Number()).
				Int("jet", i).
				Msg("jet contribution cannot be accumulated, correction is undefined")
			return undefinedTypeICorrection()
		}
	}
	return acc.result()
}

// Correct computes the records of one event, one per MET candidate in input
// order, without touching the branches.
func (e *TypeICorrectionEngine) Correct(spec specs.EventSpec) []specs.METRecordSpec {
	event := NewEvent(spec)

	var correction TypeICorrection
	if e.onTheFly {
		correction = e.AccumulateTypeICorrection(event)
	}

	records := make([]specs.METRecordSpec, 0, len(event.METs()))
	for _, met := range event.METs() {
		records = append(records, e.record(met, correction))
	}

	log.Debug().
		Uint32("run", event.Run()).
		Uint64("event", event.Number()).
		Int("jets", len(event.Jets())).
		Int("mets", len(records)).
		Float64("corr_ex", correction.CorrEx).
		Float64("corr_ey", correction.CorrEy).
		Float64("corr_sum_et", correction.CorrSumEt).
		Msg("event corrected")
	return records
}

// FillBranches appends the records of one event to the engine's branches.
func (e *TypeICorrectionEngine) FillBranches(spec specs.EventSpec) {
	for _, r := range e.Correct(spec) {
		e.branches.Append(r)
	}
}

func (e *TypeICorrectionEngine) record(met MET, correction TypeICorrection) specs.METRecordSpec {
	rawPx, rawPy := met.RawPx(), met.RawPy()
	r := specs.METRecordSpec{
		RawEt:    math.Hypot(rawPx, rawPy),
		RawPhi:   met.RawPhi(),
		RawSumEt: met.RawSumEt(),
	}

	if !e.onTheFly {
		r.Et = met.Et()
		r.Phi = metPhi(met.Px(), met.Py())
		r.SumEt = met.SumEt()
		return r
	}

	px := rawPx + correction.CorrEx
	py := rawPy + correction.CorrEy
	r.Et = math.Hypot(px, py)
	r.Phi = metPhi(px, py)
	r.SumEt = met.RawSumEt() + correction.CorrSumEt
	r.CorrPx = correction.CorrEx
	r.CorrPy = correction.CorrEy
	return r
}

// BranchFiller adapts the engine to specs.FillBranches, appending to the
// branches passed on each call instead of the engine's own.
func (e *TypeICorrectionEngine) BranchFiller() specs.FillBranches {
	return func(event specs.EventSpec, branches *specs.METBranchesSpec) {
		for _, r := range e.Correct(event) {
			branches.Append(r)
		}
	}
}
