package internal

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"
)

// CorrectionInputs are the jet and event quantities a correction is
// evaluated at.
type CorrectionInputs struct {
	Eta    float64
	Pt     float64
	Energy float64
	Phi    float64
	Area   float64
	Rho    float64
	NPV    int
}

// JetCorrector returns the multiplicative correction factor for a jet.
type JetCorrector interface {
	Correction(in CorrectionInputs) float64
}

// JetCorrectionLevels is the ordered list of parsed correction levels. The
// first level is the pileup offset level.
type JetCorrectionLevels struct {
	parameters []JetCorrectorParameters
}

func NewJetCorrectionLevels(parameters ...JetCorrectorParameters) JetCorrectionLevels {
	return JetCorrectionLevels{parameters: append([]JetCorrectorParameters(nil), parameters...)}
}

// LoadJetCorrectionLevels parses every payload in order. Any unreadable or
// malformed payload fails the whole load.
func LoadJetCorrectionLevels(payloads []string) (JetCorrectionLevels, error) {
	parameters := make([]JetCorrectorParameters, 0, len(payloads))
	for i, payload := range payloads {
		p, err := LoadJetCorrectorParameters(payload)
		if err != nil {
			return JetCorrectionLevels{}, fmt.Errorf("level %d: %w", i, err)
		}
		parameters = append(parameters, p)
	}
	return JetCorrectionLevels{parameters: parameters}, nil
}

func (l JetCorrectionLevels) Empty() bool {
	return len(l.parameters) == 0
}

func (l JetCorrectionLevels) Parameters() []JetCorrectorParameters {
	return l.parameters
}

// Offset returns the levels of the offset-only corrector: the first level.
func (l JetCorrectionLevels) Offset() JetCorrectionLevels {
	if l.Empty() {
		return JetCorrectionLevels{}
	}
	return JetCorrectionLevels{parameters: l.parameters[:1]}
}

func (l JetCorrectionLevels) Names() []string {
	names := make([]string, len(l.parameters))
	for i, p := range l.parameters {
		names[i] = p.Level()
	}
	return names
}

type correctorLevel struct {
	parameters JetCorrectorParameters
	formula    Formula
	params     []goja.Value
}

func (l correctorLevel) evaluate(in CorrectionInputs) (float64, error) {
	defs := l.parameters.definitions

	binValues := make([]float64, len(defs.binVars))
	for i, v := range defs.binVars {
		binValues[i] = v.valueFrom(in)
	}
	idx := l.parameters.binIndex(binValues)
	if idx < 0 {
		return 1, nil
	}

	record := l.parameters.records[idx]
	var vars [maxParameterVariables]float64
	for i, v := range defs.parVars {
		vars[i] = record.clamp(i, v.valueFrom(in))
	}
	return l.formula.Eval(vars, l.params[idx])
}

// FactorizedCorrector applies a chain of correction levels. Each level sees
// the pt and energy already corrected by the levels before it.
//
// A FactorizedCorrector owns a formula runtime and is not safe for
// concurrent use; build one per goroutine from shared JetCorrectionLevels.
type FactorizedCorrector struct {
	levels []correctorLevel
}

func NewFactorizedCorrector(levels JetCorrectionLevels) (*FactorizedCorrector, error) {
	vm, err := newFormulaRuntime()
	if err != nil {
		return nil, err
	}

	c := &FactorizedCorrector{levels: make([]correctorLevel, 0, len(levels.parameters))}
	for _, p := range levels.parameters {
		formula, err := compileFormula(vm, p.Level(), p.definitions.formula)
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", p.Level(), err)
		}
		level := correctorLevel{
			parameters: p,
			formula:    formula,
			params:     make([]goja.Value, len(p.records)),
		}
		for i, r := range p.records {
			level.params[i] = formula.parameters(r.params)
		}
		if err := level.probe(); err != nil {
			return nil, fmt.Errorf("level %s: %w", p.Level(), err)
		}
		c.levels = append(c.levels, level)
	}
	return c, nil
}

// probe evaluates the formula once at the centre of the first record so that
// reference errors surface at construction instead of per event.
func (l correctorLevel) probe() error {
	if len(l.parameters.records) == 0 {
		return ErrNoCorrectionRecords
	}
	record := l.parameters.records[0]
	var vars [maxParameterVariables]float64
	for i := range l.parameters.definitions.parVars {
		vars[i] = (record.parMin[i] + record.parMax[i]) / 2
	}
	_, err := l.formula.Eval(vars, l.params[0])
	return err
}

// Correction returns the product of all level factors.
func (c *FactorizedCorrector) Correction(in CorrectionInputs) float64 {
	scale := 1.0
	working := in
	for _, level := range c.levels {
		f := level.factor(working)
		scale *= f
		working.Pt *= f
		working.Energy *= f
	}
	return scale
}

// SubCorrections returns the cumulative factor after each level.
func (c *FactorizedCorrector) SubCorrections(in CorrectionInputs) []float64 {
	factors := make([]float64, 0, len(c.levels))
	scale := 1.0
	working := in
	for _, level := range c.levels {
		f := level.factor(working)
		scale *= f
		working.Pt *= f
		working.Energy *= f
		factors = append(factors, scale)
	}
	return factors
}

// factor is evaluate with evaluation failures mapped to a neutral factor.
func (l correctorLevel) factor(in CorrectionInputs) float64 {
	f, err := l.evaluate(in)
	if err != nil {
		log.Warn().Err(err).Str("level", l.parameters.Level()).Msg("correction level evaluated as 1")
		return 1
	}
	return f
}

// Levels returns the level names in evaluation order.
func (c *FactorizedCorrector) Levels() []string {
	names := make([]string, len(c.levels))
	for i, l := range c.levels {
		names[i] = l.parameters.Level()
	}
	return names
}
