package core

// Physical constants of the simulated system. The hole sits at the origin.
const (
	SpeedOfLight = 299792458.0 // m/s
	Mass         = 8.3e36      // kg
	Gravitation  = 6.6743e-11  // m^3 kg^-1 s^-2

	// HorizonRadius is the absorption radius used by the integrator, a third
	// of the Schwarzschild radius of Mass.
	HorizonRadius = 2.0 / 3.0 * Gravitation * Mass / SpeedOfLight / SpeedOfLight
)
