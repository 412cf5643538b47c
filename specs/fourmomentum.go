package specs

// FourMomentumSpec represents a relativistic four-momentum in Cartesian form.
//
// All reconstructed objects handed over by the host framework (jets, jet
// constituents, muons) carry their kinematics in this representation. Units
// follow the host convention (GeV); the correction algorithm never converts
// units, it only scales and subtracts momenta.
type FourMomentumSpec struct {
	// Momentum component along the x axis of the detector frame.
	Px float64 `json:"px" yaml:"px"`

	// Momentum component along the y axis of the detector frame.
	Py float64 `json:"py" yaml:"py"`

	// Momentum component along the beam axis.
	Pz float64 `json:"pz" yaml:"pz"`

	// Energy component.
	//
	// For massless objects E equals the magnitude of the three-momentum, which
	// makes transverse energy and transverse momentum coincide.
	E float64 `json:"e" yaml:"e"`
}
