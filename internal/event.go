package internal

import "github.com/chrisconley/metcorr/specs"

// Event is the domain view of one host event. It is built per call and not
// retained by the engine.
type Event struct {
	run         uint32
	event       uint64
	jets        []Jet
	mets        []MET
	rho         float64
	vertexCount int
}

func NewEvent(spec specs.EventSpec) Event {
	jets := make([]Jet, len(spec.Jets))
	for i, j := range spec.Jets {
		jets[i] = NewJet(j)
	}
	mets := make([]MET, len(spec.METs))
	for i, m := range spec.METs {
		mets[i] = NewMET(m)
	}
	return Event{
		run:         spec.Run,
		event:       spec.Event,
		jets:        jets,
		mets:        mets,
		rho:         spec.Rho,
		vertexCount: len(spec.Vertices),
	}
}

func (e Event) Run() uint32      { return e.run }
func (e Event) Number() uint64   { return e.event }
func (e Event) Jets() []Jet      { return e.jets }
func (e Event) METs() []MET      { return e.mets }
func (e Event) Rho() float64     { return e.rho }
func (e Event) VertexCount() int { return e.vertexCount }
