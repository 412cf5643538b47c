package internal

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload(name string) string {
	return filepath.Join("testdata", name)
}

func TestParseJetCorrectorParameters(t *testing.T) {
	t.Run("parses definitions and records", func(t *testing.T) {
		payload := `
# comment
{1 JetEta 3 JetPt JetA Rho max(0.0001,1-y*[0]/x) Correction L1FastJet}
-5.191 0 7 1 3000 0 10 0 200 2.5
0 5.191 7 1 3000 0 10 0 200 3.5
`
		params, err := ParseJetCorrectorParameters(strings.NewReader(payload), "")

		require.NoError(t, err)
		defs := params.Definitions()
		assert.Equal(t, []CorrectionVariable{VariableJetEta}, defs.BinVariables())
		assert.Equal(t, []CorrectionVariable{VariableJetPt, VariableJetA, VariableRho}, defs.ParVariables())
		assert.Equal(t, "max(0.0001,1-y*[0]/x)", defs.Formula())
		assert.Equal(t, "L1FastJet", params.Level())
		require.Len(t, params.Records(), 2)
		assert.Equal(t, []float64{3.5}, params.Records()[1].Parameters())
	})

	t.Run("selects first record whose bins contain the values", func(t *testing.T) {
		payload := `{1 JetEta 1 JetPt [0] Correction L2Relative}
-1 1 3 1 3000 1.1
0 2 3 1 3000 1.2
`
		params, err := ParseJetCorrectorParameters(strings.NewReader(payload), "")
		require.NoError(t, err)

		assert.Equal(t, 0, params.binIndex([]float64{0.5}))
		assert.Equal(t, 1, params.binIndex([]float64{1}))
		assert.Equal(t, -1, params.binIndex([]float64{2}))
		assert.Equal(t, 0, params.binIndex([]float64{-1}))
	})

	t.Run("reads named section", func(t *testing.T) {
		params, err := LoadJetCorrectorParameters(testPayload("Residual_Sections.txt") + "#Forward")

		require.NoError(t, err)
		assert.Len(t, params.Records(), 2)
		assert.Equal(t, testPayload("Residual_Sections.txt")+"#Forward", params.Payload())
	})

	t.Run("parsed payload without level has no name", func(t *testing.T) {
		params, err := ParseJetCorrectorParameters(strings.NewReader("{1 JetEta 1 JetPt [0]}\n-5 5 3 1 3000 1\n"), "")

		require.NoError(t, err)
		assert.Equal(t, "", params.Level())
	})

	errorCases := []struct {
		name    string
		payload string
		section string
		want    string
	}{
		{"no records", "{1 JetEta 1 JetPt [0] Correction L3Absolute}\n", "", "no correction records"},
		{"unknown variable", "{1 JetY 1 JetPt [0] Correction L3Absolute}\n", "", "unsupported variable"},
		{"record before definitions", "-5 5 3 1 3000 1\n", "", "record before definitions line"},
		{"missing definitions", "# nothing\n", "", "missing definitions line"},
		{"duplicate definitions", "{1 JetEta 1 JetPt [0] L3}\n{1 JetEta 1 JetPt [0] L3}\n", "", "duplicate definitions line"},
		{"wrong value count", "{1 JetEta 1 JetPt [0] L3}\n-5 5 4 1 3000 1\n", "", "declares 4 values but has 3"},
		{"missing parameters", "{1 JetEta 1 JetPt [0]+[1] L3}\n-5 5 3 1 3000 1\n", "", "formula uses 2 parameters but record has 1"},
		{"inverted bin", "{1 JetEta 1 JetPt [0] L3}\n5 -5 3 1 3000 1\n", "", "bin 0 has min above max"},
		{"not a number", "{1 JetEta 1 JetPt [0] L3}\n-5 five 3 1 3000 1\n", "", `invalid number "five"`},
		{"unterminated definitions", "{1 JetEta 1 JetPt [0] L3\n", "", "unterminated definitions line"},
		{"missing section", "[Central]\n{1 JetEta 1 JetPt [0] L3}\n-5 5 3 1 3000 1\n", "Forward", "section not found"},
	}
	for _, tc := range errorCases {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			_, err := ParseJetCorrectorParameters(strings.NewReader(tc.payload), tc.section)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	t.Run("sentinel errors are wrapped", func(t *testing.T) {
		_, err := LoadJetCorrectorParameters(testPayload("Broken_UnknownVariable.txt"))

		require.ErrorIs(t, err, ErrUnsupportedVariable)
		assert.Contains(t, err.Error(), "invalid payload")
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := LoadJetCorrectorParameters(testPayload("does_not_exist.txt"))

		require.Error(t, err)
	})
}

func TestCorrectionVariable(t *testing.T) {
	t.Run("name round trip", func(t *testing.T) {
		for _, name := range []string{"JetEta", "JetPt", "JetE", "JetPhi", "JetA", "Rho", "NPV"} {
			v, err := NewCorrectionVariable(name)
			require.NoError(t, err)
			assert.Equal(t, name, v.ToString())
		}
	})

	t.Run("reads value from inputs", func(t *testing.T) {
		in := CorrectionInputs{Eta: 1, Pt: 2, Energy: 3, Phi: 4, Area: 5, Rho: 6, NPV: 7}

		assert.Equal(t, 1.0, VariableJetEta.valueFrom(in))
		assert.Equal(t, 3.0, VariableJetE.valueFrom(in))
		assert.Equal(t, 6.0, VariableRho.valueFrom(in))
		assert.Equal(t, 7.0, VariableNPV.valueFrom(in))
	})
}
