package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	ErrNoCorrectionRecords = errors.New("no correction records")
	ErrUnsupportedVariable = errors.New("unsupported variable")
	ErrSectionNotFound     = errors.New("section not found")
)

// maxParameterVariables is the number of formula variables (x, y, z, t).
const maxParameterVariables = 4

// CorrectionVariable names one jet or event quantity a correction level is
// binned in or parametrised by.
type CorrectionVariable int

const (
	VariableJetEta CorrectionVariable = iota
	VariableJetPt
	VariableJetE
	VariableJetPhi
	VariableJetA
	VariableRho
	VariableNPV
)

var correctionVariableNames = map[string]CorrectionVariable{
	"JetEta": VariableJetEta,
	"JetPt":  VariableJetPt,
	"JetE":   VariableJetE,
	"JetPhi": VariableJetPhi,
	"JetA":   VariableJetA,
	"Rho":    VariableRho,
	"NPV":    VariableNPV,
}

func NewCorrectionVariable(name string) (CorrectionVariable, error) {
	v, ok := correctionVariableNames[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnsupportedVariable, name)
	}
	return v, nil
}

func (v CorrectionVariable) ToString() string {
	for name, candidate := range correctionVariableNames {
		if candidate == v {
			return name
		}
	}
	return "Unknown"
}

func (v CorrectionVariable) valueFrom(in CorrectionInputs) float64 {
	switch v {
	case VariableJetEta:
		return in.Eta
	case VariableJetPt:
		return in.Pt
	case VariableJetE:
		return in.Energy
	case VariableJetPhi:
		return in.Phi
	case VariableJetA:
		return in.Area
	case VariableRho:
		return in.Rho
	case VariableNPV:
		return float64(in.NPV)
	default:
		return math.NaN()
	}
}

// CorrectorDefinitions is the header of a correction payload.
type CorrectorDefinitions struct {
	binVars []CorrectionVariable
	parVars []CorrectionVariable
	formula string
	level   string
}

func (d CorrectorDefinitions) BinVariables() []CorrectionVariable { return d.binVars }
func (d CorrectorDefinitions) ParVariables() []CorrectionVariable { return d.parVars }
func (d CorrectorDefinitions) Formula() string                    { return d.formula }
func (d CorrectorDefinitions) Level() string                      { return d.level }

// CorrectorRecord is one bin of a correction payload: the bin ranges, the
// validity range of every formula variable, and the formula parameters.
type CorrectorRecord struct {
	binMin []float64
	binMax []float64
	parMin []float64
	parMax []float64
	params []float64
}

func (r CorrectorRecord) Parameters() []float64 { return r.params }

// contains reports whether every bin value lies in [min, max).
func (r CorrectorRecord) contains(values []float64) bool {
	for i, v := range values {
		if v < r.binMin[i] || v >= r.binMax[i] {
			return false
		}
	}
	return true
}

// clamp limits the i-th formula variable to the record's validity range.
func (r CorrectorRecord) clamp(i int, v float64) float64 {
	return math.Min(math.Max(v, r.parMin[i]), r.parMax[i])
}

// JetCorrectorParameters is one parsed correction level. Immutable once
// parsed, so a single instance can back any number of correctors.
type JetCorrectorParameters struct {
	payload     string
	definitions CorrectorDefinitions
	records     []CorrectorRecord
}

func (p JetCorrectorParameters) Payload() string                   { return p.payload }
func (p JetCorrectorParameters) Definitions() CorrectorDefinitions { return p.definitions }
func (p JetCorrectorParameters) Records() []CorrectorRecord        { return p.records }

// Level returns the level name from the header, or the payload identifier
// when the header does not name one.
func (p JetCorrectorParameters) Level() string {
	if p.definitions.level != "" {
		return p.definitions.level
	}
	return p.payload
}

// binIndex returns the first record containing the bin values, or -1.
func (p JetCorrectorParameters) binIndex(values []float64) int {
	for i, r := range p.records {
		if r.contains(values) {
			return i
		}
	}
	return -1
}

// LoadJetCorrectorParameters reads a payload identifier of the form
// "path" or "path#Section".
func LoadJetCorrectorParameters(identifier string) (JetCorrectorParameters, error) {
	path, section, _ := strings.Cut(identifier, "#")
	f, err := os.Open(path)
	if err != nil {
		return JetCorrectorParameters{}, fmt.Errorf("invalid payload %q: %w", identifier, err)
	}
	defer f.Close()

	params, err := ParseJetCorrectorParameters(f, section)
	if err != nil {
		return JetCorrectorParameters{}, fmt.Errorf("invalid payload %q: %w", identifier, err)
	}
	params.payload = identifier
	return params, nil
}

// ParseJetCorrectorParameters parses the text payload format. With an empty
// section the lines before the first "[Section]" header are used.
func ParseJetCorrectorParameters(r io.Reader, section string) (JetCorrectorParameters, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		params        JetCorrectorParameters
		haveDefs      bool
		current       string
		sectionExists = section == ""
		lineNo        int
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			current = strings.TrimSpace(strings.Trim(line, "[]"))
			if current == section {
				sectionExists = true
			}
			continue
		}
		if current != section {
			continue
		}

		if strings.HasPrefix(line, "{") {
			if haveDefs {
				return JetCorrectorParameters{}, fmt.Errorf("line %d: duplicate definitions line", lineNo)
			}
			defs, err := parseCorrectorDefinitions(line)
			if err != nil {
				return JetCorrectorParameters{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			params.definitions = defs
			haveDefs = true
			continue
		}

		if !haveDefs {
			return JetCorrectorParameters{}, fmt.Errorf("line %d: record before definitions line", lineNo)
		}
		record, err := parseCorrectorRecord(line, params.definitions)
		if err != nil {
			return JetCorrectorParameters{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		params.records = append(params.records, record)
	}
	if err := scanner.Err(); err != nil {
		return JetCorrectorParameters{}, fmt.Errorf("failed to read payload: %w", err)
	}

	if !sectionExists {
		return JetCorrectorParameters{}, fmt.Errorf("%w: %q", ErrSectionNotFound, section)
	}
	if !haveDefs {
		return JetCorrectorParameters{}, errors.New("missing definitions line")
	}
	if len(params.records) == 0 {
		return JetCorrectorParameters{}, ErrNoCorrectionRecords
	}
	return params, nil
}

// parseCorrectorDefinitions parses
// "{nBin binVar... nPar parVar... formula Correction Level}".
func parseCorrectorDefinitions(line string) (CorrectorDefinitions, error) {
	if !strings.HasSuffix(line, "}") {
		return CorrectorDefinitions{}, errors.New("unterminated definitions line")
	}
	tokens := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(line, "{"), "}"))
	if len(tokens) == 0 {
		return CorrectorDefinitions{}, errors.New("empty definitions line")
	}

	nBin, err := strconv.Atoi(tokens[0])
	if err != nil || nBin < 1 {
		return CorrectorDefinitions{}, fmt.Errorf("invalid number of bin variables %q", tokens[0])
	}
	if len(tokens) < nBin+2 {
		return CorrectorDefinitions{}, errors.New("definitions line too short")
	}
	binVars, err := parseVariables(tokens[1 : 1+nBin])
	if err != nil {
		return CorrectorDefinitions{}, fmt.Errorf("invalid bin variable: %w", err)
	}

	nPar, err := strconv.Atoi(tokens[1+nBin])
	if err != nil || nPar < 0 || nPar > maxParameterVariables {
		return CorrectorDefinitions{}, fmt.Errorf("invalid number of parameter variables %q", tokens[1+nBin])
	}
	formulaAt := 2 + nBin + nPar
	if len(tokens) <= formulaAt {
		return CorrectorDefinitions{}, errors.New("missing formula")
	}
	parVars, err := parseVariables(tokens[2+nBin : formulaAt])
	if err != nil {
		return CorrectorDefinitions{}, fmt.Errorf("invalid parameter variable: %w", err)
	}

	defs := CorrectorDefinitions{
		binVars: binVars,
		parVars: parVars,
		formula: tokens[formulaAt],
	}
	if rest := tokens[formulaAt+1:]; len(rest) > 0 {
		if last := rest[len(rest)-1]; last != "Correction" && last != "Resolution" {
			defs.level = last
		}
	}
	return defs, nil
}

func parseVariables(names []string) ([]CorrectionVariable, error) {
	vars := make([]CorrectionVariable, len(names))
	for i, name := range names {
		v, err := NewCorrectionVariable(name)
		if err != nil {
			return nil, err
		}
		vars[i] = v
	}
	return vars, nil
}

// parseCorrectorRecord parses
// "binMin binMax ... N parMin parMax ... p0 p1 ..." where N counts the
// values that follow it.
func parseCorrectorRecord(line string, defs CorrectorDefinitions) (CorrectorRecord, error) {
	fields := strings.Fields(line)
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return CorrectorRecord{}, fmt.Errorf("invalid number %q", f)
		}
		values[i] = v
	}

	nBin := len(defs.binVars)
	nPar := len(defs.parVars)
	if len(values) < 2*nBin+1 {
		return CorrectorRecord{}, errors.New("record too short")
	}
	n := values[2*nBin]
	rest := values[2*nBin+1:]
	if n != math.Trunc(n) || int(n) != len(rest) {
		return CorrectorRecord{}, fmt.Errorf("record declares %v values but has %d", n, len(rest))
	}
	if len(rest) < 2*nPar {
		return CorrectorRecord{}, errors.New("record missing parameter variable ranges")
	}

	record := CorrectorRecord{
		binMin: make([]float64, nBin),
		binMax: make([]float64, nBin),
		parMin: make([]float64, nPar),
		parMax: make([]float64, nPar),
		params: append([]float64(nil), rest[2*nPar:]...),
	}
	for i := 0; i < nBin; i++ {
		record.binMin[i] = values[2*i]
		record.binMax[i] = values[2*i+1]
		if record.binMin[i] > record.binMax[i] {
			return CorrectorRecord{}, fmt.Errorf("bin %d has min above max", i)
		}
	}
	for i := 0; i < nPar; i++ {
		record.parMin[i] = rest[2*i]
		record.parMax[i] = rest[2*i+1]
		if record.parMin[i] > record.parMax[i] {
			return CorrectorRecord{}, fmt.Errorf("variable %d has min above max", i)
		}
	}
	if want := formulaParameterCount(defs.formula); len(record.params) < want {
		return CorrectorRecord{}, fmt.Errorf("formula uses %d parameters but record has %d", want, len(record.params))
	}
	return record, nil
}
