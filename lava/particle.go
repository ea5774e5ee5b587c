package lava

// Particle defines the basic components of the particle system.
// The temperature drives the convection cycle: it climbs towards 1
// near the heater at the bottom and falls back to 0 at the top.
type Particle struct {
	x, y   float64
	vx, vy float64
	temp   float64
}

// NewParticle spawns a new particle at rest at the coordinates defined by {x, y}.
func NewParticle(x, y float64) Particle {
	return Particle{x: x, y: y}
}

// GetX retrieve the particle value at {x} position.
func (p *Particle) GetX() float64 {
	return p.x
}

// SetX set the particle value at {x} position.
func (p *Particle) SetX(val float64) {
	p.x = val
}

// GetY retrieve the particle value at {y} position.
func (p *Particle) GetY() float64 {
	return p.y
}

// SetY set the particle value at {y} position.
func (p *Particle) SetY(val float64) {
	p.y = val
}

// GetVx get the particle velocity at {x} position.
func (p *Particle) GetVx() float64 {
	return p.vx
}

// SetVx set the particle velocity at {x} position.
func (p *Particle) SetVx(val float64) {
	p.vx = val
}

// GetVy get the particle velocity at {y} position.
func (p *Particle) GetVy() float64 {
	return p.vy
}

// SetVy set the particle velocity at {y} position.
func (p *Particle) SetVy(val float64) {
	p.vy = val
}

// GetTemp get the particle temperature.
func (p *Particle) GetTemp() float64 {
	return p.temp
}

// SetTemp set the particle temperature, clamped to the [0, 1] range.
func (p *Particle) SetTemp(val float64) {
	p.temp = clamp01(val)
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
