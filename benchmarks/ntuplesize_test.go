package benchmarks

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/chrisconley/metcorr/internal/infra"
	"github.com/chrisconley/metcorr/specs"
)

// Compare the output size of one run as JSON records and as a parquet ntuple
func TestNtupleSizeBreakdown(t *testing.T) {
	for _, n := range []int{1, 100, 10000} {
		records := make([]specs.METRecordSpec, n)
		for i := range records {
			f := float64(i)
			records[i] = specs.METRecordSpec{
				RawEt: 30 + f/7, RawPhi: 0.5, RawSumEt: 1000 + f,
				Et: 28 + f/9, Phi: 0.45, SumEt: 1010 + f,
				CorrPx: -1.5, CorrPy: 0.25,
			}
		}

		var jsonSize int
		for _, r := range records {
			data, err := json.Marshal(r)
			if err != nil {
				t.Fatal(err)
			}
			jsonSize += len(data) + 1
		}

		var buf bytes.Buffer
		w := infra.NewNtupleWriter(&buf, "size-breakdown")
		w.WriteRecords(1, 1, records)
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}

		t.Logf("records=%d json=%dB (%.1fB/record) parquet=%dB (%.1fB/record)",
			n, jsonSize, float64(jsonSize)/float64(n), buf.Len(), float64(buf.Len())/float64(n))
	}
}

// Benchmark writing one event's record into the ntuple
func BenchmarkNtupleWriter_WriteRecords(b *testing.B) {
	var buf bytes.Buffer
	w := infra.NewNtupleWriter(&buf, "bench")
	records := []specs.METRecordSpec{{RawEt: 35, RawPhi: 0.4, RawSumEt: 1200, Et: 33, Phi: 0.41, SumEt: 1210, CorrPx: -1.2, CorrPy: 0.3}}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		w.WriteRecords(1, uint64(i), records)
	}
	b.StopTimer()
	if err := w.Close(); err != nil {
		b.Fatal(err)
	}
}
