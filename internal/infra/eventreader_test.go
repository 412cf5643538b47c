package infra

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONEvents(t *testing.T) {
	t.Run("reads one event per line", func(t *testing.T) {
		input := `{"run":1,"event":10,"rho":12.5,"jets":[{"rawP4":{"px":20,"py":0,"pz":0,"e":20},"area":0.5}],"mets":[{"rawPt":5,"rawPhi":0,"rawSumEt":100}]}
{"run":1,"event":11,"vertices":[{"z":0.1},{"z":-2.3}]}
`
		events, err := ReadJSONEvents(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, uint64(10), events[0].Event)
		assert.Equal(t, 12.5, events[0].Rho)
		require.Len(t, events[0].Jets, 1)
		assert.Equal(t, 20.0, events[0].Jets[0].RawP4.Px)
		assert.Equal(t, 0.5, events[0].Jets[0].Area)
		assert.Equal(t, 100.0, events[0].METs[0].RawSumEt)
		assert.Len(t, events[1].Vertices, 2)
	})

	t.Run("empty input yields no events", func(t *testing.T) {
		events, err := ReadJSONEvents(strings.NewReader(""))

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("malformed event reports its index", func(t *testing.T) {
		_, err := ReadJSONEvents(strings.NewReader("{\"run\":1}\n{\"run\":\n"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "event 1")
	})
}

func TestReadYAMLEvents(t *testing.T) {
	t.Run("reads one event per document", func(t *testing.T) {
		input := `run: 2
event: 1
jets:
  - rawP4: {px: 30, py: 1, pz: 2, e: 31}
    constituents:
      - p4: {px: 5, py: 0, pz: 0, e: 5}
        pfCandidate:
          muonRef: {isGlobalMuon: true}
---
run: 2
event: 2
`
		events, err := ReadYAMLEvents(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Len(t, events[0].Jets[0].Constituents, 1)
		constituent := events[0].Jets[0].Constituents[0]
		require.NotNil(t, constituent.PFCandidate)
		require.NotNil(t, constituent.PFCandidate.MuonRef)
		assert.True(t, constituent.PFCandidate.MuonRef.IsGlobalMuon)
		assert.Equal(t, uint64(2), events[1].Event)
	})
}

func TestReadEventsFile(t *testing.T) {
	t.Run("picks decoder from extension", func(t *testing.T) {
		dir := t.TempDir()
		yamlPath := filepath.Join(dir, "events.yml")
		jsonPath := filepath.Join(dir, "events.jsonl")
		require.NoError(t, os.WriteFile(yamlPath, []byte("run: 7\n"), 0o600))
		require.NoError(t, os.WriteFile(jsonPath, []byte("{\"run\":8}\n"), 0o600))

		fromYAML, err := ReadEventsFile(yamlPath)
		require.NoError(t, err)
		fromJSON, err := ReadEventsFile(jsonPath)
		require.NoError(t, err)

		assert.Equal(t, uint32(7), fromYAML[0].Run)
		assert.Equal(t, uint32(8), fromJSON[0].Run)
	})

	t.Run("with missing file returns error", func(t *testing.T) {
		_, err := ReadEventsFile(filepath.Join(t.TempDir(), "none.jsonl"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open events file")
	})
}
