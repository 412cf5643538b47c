package internal

import (
	"math"

	"github.com/chrisconley/metcorr/specs"
)

// etaMaxForZeroPt mirrors the convention for eta of a purely longitudinal
// vector: a large finite value carrying the sign of pz.
const etaMaxForZeroPt = 22756.0

// LorentzVector is a four-momentum in (px, py, pz, E) form.
type LorentzVector struct {
	px, py, pz, e float64
}

func NewLorentzVector(spec specs.FourMomentumSpec) LorentzVector {
	return LorentzVector{px: spec.Px, py: spec.Py, pz: spec.Pz, e: spec.E}
}

func NewLorentzVectorPxPyPzE(px, py, pz, e float64) LorentzVector {
	return LorentzVector{px: px, py: py, pz: pz, e: e}
}

// NewLorentzVectorPtEtaPhiM builds a vector from collider coordinates.
func NewLorentzVectorPtEtaPhiM(pt, eta, phi, m float64) LorentzVector {
	px := pt * math.Cos(phi)
	py := pt * math.Sin(phi)
	pz := pt * math.Sinh(eta)
	p2 := px*px + py*py + pz*pz
	return LorentzVector{px: px, py: py, pz: pz, e: math.Sqrt(p2 + m*m)}
}

func (v LorentzVector) Px() float64 { return v.px }
func (v LorentzVector) Py() float64 { return v.py }
func (v LorentzVector) Pz() float64 { return v.pz }
func (v LorentzVector) E() float64  { return v.e }

// Pt returns the transverse momentum.
func (v LorentzVector) Pt() float64 {
	return math.Hypot(v.px, v.py)
}

// Eta returns the pseudorapidity.
func (v LorentzVector) Eta() float64 {
	pt := v.Pt()
	if pt > 0 {
		return math.Asinh(v.pz / pt)
	}
	switch {
	case v.pz > 0:
		return v.pz + etaMaxForZeroPt
	case v.pz < 0:
		return v.pz - etaMaxForZeroPt
	default:
		return 0
	}
}

// Phi returns the azimuthal angle in (-pi, pi]; zero for a vector with no
// transverse component.
func (v LorentzVector) Phi() float64 {
	if v.px == 0 && v.py == 0 {
		return 0
	}
	return math.Atan2(v.py, v.px)
}

// Et returns the transverse energy E*pt/|p|, signed like E.
func (v LorentzVector) Et() float64 {
	pt2 := v.px*v.px + v.py*v.py
	if pt2 == 0 {
		return 0
	}
	et := math.Sqrt(v.e * v.e * pt2 / (pt2 + v.pz*v.pz))
	if v.e < 0 {
		return -et
	}
	return et
}

// Scale returns the vector multiplied component-wise by f.
func (v LorentzVector) Scale(f float64) LorentzVector {
	return LorentzVector{px: v.px * f, py: v.py * f, pz: v.pz * f, e: v.e * f}
}

// Sub returns v - o.
func (v LorentzVector) Sub(o LorentzVector) LorentzVector {
	return LorentzVector{px: v.px - o.px, py: v.py - o.py, pz: v.pz - o.pz, e: v.e - o.e}
}

// Add returns v + o.
func (v LorentzVector) Add(o LorentzVector) LorentzVector {
	return LorentzVector{px: v.px + o.px, py: v.py + o.py, pz: v.pz + o.pz, e: v.e + o.e}
}

func (v LorentzVector) ToSpec() specs.FourMomentumSpec {
	return specs.FourMomentumSpec{Px: v.px, Py: v.py, Pz: v.pz, E: v.e}
}
