package specs

// EventSpec is the per-event handle the host framework passes to the
// ntuplizer.
//
// Every collection is borrowed for the duration of one call only. The
// correction engine reads them, writes output records, and keeps no
// reference once the call returns.
type EventSpec struct {
	// Run number of the event.
	Run uint32 `json:"run" yaml:"run"`

	// Luminosity block of the event.
	LumiBlock uint32 `json:"lumiBlock" yaml:"lumiBlock"`

	// Event number within the run.
	Event uint64 `json:"event" yaml:"event"`

	// Clustered jets used to derive the Type-I correction.
	Jets []JetSpec `json:"jets,omitempty" yaml:"jets,omitempty"`

	// MET candidates. Usually exactly one, but every candidate present
	// produces one output record.
	METs []METSpec `json:"mets,omitempty" yaml:"mets,omitempty"`

	// Reconstructed muons of the event.
	//
	// Jet constituents reference muons directly; the collection itself is
	// read to honour the host contract but not iterated by the algorithm.
	Muons []MuonSpec `json:"muons,omitempty" yaml:"muons,omitempty"`

	// Median pileup energy density of the event (rho).
	Rho float64 `json:"rho" yaml:"rho"`

	// Reconstructed primary vertices.
	//
	// Only the size of the collection is used, as the pileup multiplicity
	// input (NPV) of the correction levels.
	Vertices []VertexSpec `json:"vertices,omitempty" yaml:"vertices,omitempty"`
}

// VertexSpec represents a reconstructed primary vertex.
type VertexSpec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}
