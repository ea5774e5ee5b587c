package lava

// Vector is a two component force vector.
type Vector struct {
	X, Y float64
}

// Pointer is an external stirring point, usually a mouse cursor or a
// tracked face. A nil *Pointer handed to Step means no pointer is active;
// the origin is a perfectly valid pointer position.
type Pointer struct {
	X, Y   float64
	Vx, Vy float64
}

// Config holds the tunable simulation parameters. Step receives it by
// value on every call, so the frame driver is free to mutate its own copy
// between two frames and the change takes effect on the next tick.
type Config struct {
	Gravity       Vector
	Viscosity     float64
	HeatSpeed     float64
	Spacing       float64
	Stiffness     float64
	Dampening     float64
	RepulseRadius float64
	RepulseForce  float64
	Swirl         bool
	SwirlStrength float64
}

// DefaultConfig returns the parameter set used by the demos.
func DefaultConfig() Config {
	return Config{
		Gravity:       Vector{X: 0, Y: 0.05},
		Viscosity:     0.98,
		HeatSpeed:     0.003,
		Spacing:       16,
		Stiffness:     0.12,
		Dampening:     0.5,
		RepulseRadius: 100,
		RepulseForce:  2.0,
		Swirl:         true,
		SwirlStrength: 0.012,
	}
}

// normalize clamps the parameters to their documented ranges so that a
// step can never blow up mid frame, whatever the caller sends in.
func (c *Config) normalize() {
	c.Viscosity = clamp(c.Viscosity, 0, 1)
	c.Dampening = clamp(c.Dampening, 0, 1)
	if c.HeatSpeed < 0 {
		c.HeatSpeed = 0
	}
	if c.Spacing < 0 {
		c.Spacing = 0
	}
	if c.Stiffness < 0 {
		c.Stiffness = 0
	}
	if c.RepulseRadius < 0 {
		c.RepulseRadius = 0
	}
}
