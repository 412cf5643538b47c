package infra

import (
	"fmt"
	"io"

	parquet "github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog/log"

	"github.com/chrisconley/metcorr/specs"
)

// ntupleRow is the on-disk layout of one MET record.
type ntupleRow struct {
	Run       uint32  `parquet:"run"`
	Event     uint64  `parquet:"event"`
	METrawEt  float64 `parquet:"METraw_et"`
	METrawPhi float64 `parquet:"METraw_phi"`
	METrawSum float64 `parquet:"METraw_sumEt"`
	METEt     float64 `parquet:"MET_et"`
	METPhi    float64 `parquet:"MET_phi"`
	METSumEt  float64 `parquet:"MET_sumEt"`
	METCorrPx float64 `parquet:"MET_corrPx"`
	METCorrPy float64 `parquet:"MET_corrPy"`
}

// NtupleWriter streams MET records into a parquet file, one row per record.
type NtupleWriter struct {
	w    *parquet.GenericWriter[ntupleRow]
	rows int
	err  error
}

// NewNtupleWriter writes to out. The run ID is stored as file metadata.
func NewNtupleWriter(out io.Writer, runID string) *NtupleWriter {
	return &NtupleWriter{
		w: parquet.NewGenericWriter[ntupleRow](out, parquet.KeyValueMetadata("run_id", runID)),
	}
}

// Subscribe attaches the writer to the run's bus: records are written as
// events are corrected and the file is closed when the run completes.
func (n *NtupleWriter) Subscribe(bus *Bus) {
	bus.Subscribe(EventCorrected, func(e Event) {
		ev := e.(EventCorrectedEvent)
		n.WriteRecords(ev.Run, ev.Event, ev.Records)
	})
	bus.Subscribe(RunCompleted, func(e Event) {
		if err := n.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close ntuple writer")
		}
	})
}

// WriteRecords appends the records of one event. The first error is kept and
// reported by Err and Close; later writes are dropped.
func (n *NtupleWriter) WriteRecords(run uint32, event uint64, records []specs.METRecordSpec) {
	if n.w == nil || n.err != nil || len(records) == 0 {
		return
	}
	rows := make([]ntupleRow, len(records))
	for i, r := range records {
		rows[i] = ntupleRow{
			Run:       run,
			Event:     event,
			METrawEt:  r.RawEt,
			METrawPhi: r.RawPhi,
			METrawSum: r.RawSumEt,
			METEt:     r.Et,
			METPhi:    r.Phi,
			METSumEt:  r.SumEt,
			METCorrPx: r.CorrPx,
			METCorrPy: r.CorrPy,
		}
	}
	if _, err := n.w.Write(rows); err != nil {
		n.err = fmt.Errorf("failed to write ntuple rows: %w", err)
		return
	}
	n.rows += len(rows)
}

// Rows returns the number of rows written so far.
func (n *NtupleWriter) Rows() int {
	return n.rows
}

// Err returns the first write error, if any.
func (n *NtupleWriter) Err() error {
	return n.err
}

// Close flushes the file footer. Closing twice is a no-op.
func (n *NtupleWriter) Close() error {
	if n.w == nil {
		return n.err
	}
	w := n.w
	n.w = nil
	if err := w.Close(); err != nil && n.err == nil {
		n.err = fmt.Errorf("failed to close ntuple: %w", err)
	}
	return n.err
}
