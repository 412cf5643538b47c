package internal

import (
	"math"

	"github.com/chrisconley/metcorr/specs"
)

type MET struct {
	rawPt    float64
	rawPhi   float64
	rawSumEt float64
	px       float64
	py       float64
	et       float64
	sumEt    float64
}

func NewMET(spec specs.METSpec) MET {
	return MET{
		rawPt:    spec.RawPt,
		rawPhi:   spec.RawPhi,
		rawSumEt: spec.RawSumEt,
		px:       spec.Px,
		py:       spec.Py,
		et:       spec.Et,
		sumEt:    spec.SumEt,
	}
}

func (m MET) RawPx() float64    { return m.rawPt * math.Cos(m.rawPhi) }
func (m MET) RawPy() float64    { return m.rawPt * math.Sin(m.rawPhi) }
func (m MET) RawPhi() float64   { return m.rawPhi }
func (m MET) RawSumEt() float64 { return m.rawSumEt }
func (m MET) Px() float64       { return m.px }
func (m MET) Py() float64       { return m.py }
func (m MET) Et() float64       { return m.et }
func (m MET) SumEt() float64    { return m.sumEt }

// metPhi is the azimuth of a transverse vector, zero for the null vector.
func metPhi(px, py float64) float64 {
	if px == 0 && py == 0 {
		return 0
	}
	return math.Atan2(py, px)
}
