package lava

import (
	"math"
	"math/rand"
	"time"
)

// Model constants that belong to the lamp itself rather than to the
// runtime configuration.
const (
	dt             = 1.0    // one tick
	thermalBand    = 150.0  // depth of the heating and cooling zones
	buoyancyFactor = 2.5    // puts the lift crossover at temperature 0.4
	swirlFreq      = 0.005  // spatial frequency of the ambient swirl
	swirlTimeStep  = 0.01   // swirl phase advance per step
	dragStrength   = 0.5    // share of the pointer velocity passed on
	minPairDist    = 0.0001 // below this distance a pair is left alone
	minGridCell    = 32.0   // bucket size floor, keeps 3x3 lookups valid
)

// Defaults for deriving the particle count from the domain area.
const (
	particleArea = 800.0
	minParticles = 200
	maxParticles = 5000
)

// Simulator owns the particle pool and advances the lamp one tick at a
// time. It is strictly single threaded: one Step runs to completion
// before the next one starts and nothing else may touch the pool in
// between.
type Simulator struct {
	width, height float64
	particles     []Particle
	grid          *spatialGrid
	neighbors     []int // scratch buffer for the grid queries
	swirlTime     float64
	rng           *rand.Rand
}

// NewSimulator creates a lamp of the given size. A non positive count
// derives the particle number from the domain area, a non positive seed
// picks the clock.
func NewSimulator(width, height float64, count int, seed int64) *Simulator {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if count <= 0 {
		count = DefaultParticleCount(width, height)
	}
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}

	s := &Simulator{
		width:  width,
		height: height,
		grid:   newSpatialGrid(width, height, minGridCell),
		rng:    rand.New(rand.NewSource(seed)),
	}
	s.particles = make([]Particle, 0, count)
	for i := 0; i < count; i++ {
		s.particles = append(s.particles, s.spawn())
	}
	return s
}

// DefaultParticleCount derives a particle number from the domain area,
// one particle per 800 square units, clamped to [200, 5000].
func DefaultParticleCount(width, height float64) int {
	n := int(width * height / particleArea)
	return clampInt(n, minParticles, maxParticles)
}

// spawn places a particle in the upper half of the domain with a small
// random velocity and a random temperature.
func (s *Simulator) spawn() Particle {
	p := NewParticle(s.rng.Float64()*s.width, s.rng.Float64()*s.height*0.5)
	p.vx = s.rng.Float64()*2 - 1
	p.vy = s.rng.Float64()*2 - 1
	p.temp = s.rng.Float64()
	return p
}

// Step advances the simulation by one tick. The configuration is read
// fresh on every call; the pointer may be nil when no external point is
// active. A step always runs to completion, out of range parameters are
// clamped rather than rejected.
func (s *Simulator) Step(cfg Config, ptr *Pointer) {
	cfg.normalize()
	s.swirlTime += swirlTimeStep

	cell := cfg.Spacing
	if cell < minGridCell {
		cell = minGridCell
	}
	s.grid.rebuild(s.particles, s.width, s.height, cell)

	for i := range s.particles {
		p := &s.particles[i]

		// Thermal zones. The heater sits at the bottom, the cooler at
		// the top; in very short domains both may apply in one tick.
		if p.y > s.height-thermalBand {
			p.temp = clamp01(p.temp + cfg.HeatSpeed)
		}
		if p.y < thermalBand {
			p.temp = clamp01(p.temp - cfg.HeatSpeed)
		}

		gx, gy := cfg.Gravity.X, cfg.Gravity.Y
		if cfg.Swirl && cfg.SwirlStrength != 0 {
			gx += math.Sin(p.y*swirlFreq+s.swirlTime) * cfg.SwirlStrength
			gy += math.Cos(p.x*swirlFreq+s.swirlTime) * cfg.SwirlStrength
		}

		// Hot particles rise against gravity, cold ones sink with it.
		// The crossover sits at temperature 0.4.
		lift := 1 - buoyancyFactor*p.temp
		p.vx += gx * lift
		p.vy += gy * lift

		p.vx *= cfg.Viscosity
		p.vy *= cfg.Viscosity
	}

	s.separate(cfg)
	s.repulse(cfg, ptr)

	for i := range s.particles {
		p := &s.particles[i]
		p.x += p.vx * dt
		p.y += p.vy * dt
		s.bounce(p, cfg.Dampening)
	}
}

// separate nudges overlapping particles apart. Every particle scans its
// 3x3 bucket neighborhood and pushes itself away from each neighbor
// closer than the spacing, so each unordered pair ends up with equal and
// opposite impulses.
func (s *Simulator) separate(cfg Config) {
	if cfg.Spacing <= 0 || cfg.Stiffness == 0 {
		return
	}
	for i := range s.particles {
		p := &s.particles[i]
		s.neighbors = s.grid.neighborsInto(s.neighbors[:0], p.x, p.y)

		for _, j := range s.neighbors {
			if j == i {
				continue
			}
			q := &s.particles[j]
			dx := p.x - q.x
			dy := p.y - q.y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist >= cfg.Spacing || dist < minPairDist {
				continue
			}
			push := (1 - dist/cfg.Spacing) * cfg.Stiffness
			p.vx += dx / dist * push
			p.vy += dy / dist * push
		}
	}
}

// repulse applies the external pointer: a radial push away from it plus
// a share of the pointer velocity, both fading linearly with distance.
// Particles sitting exactly on the pointer are skipped, there is no
// meaningful push direction for them.
func (s *Simulator) repulse(cfg Config, ptr *Pointer) {
	if ptr == nil || cfg.RepulseRadius <= 0 {
		return
	}
	for i := range s.particles {
		p := &s.particles[i]
		dx := p.x - ptr.X
		dy := p.y - ptr.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist >= cfg.RepulseRadius || dist < minPairDist {
			continue
		}
		influence := 1 - dist/cfg.RepulseRadius

		p.vx += dx / dist * influence * cfg.RepulseForce
		p.vy += dy / dist * influence * cfg.RepulseForce

		p.vx += ptr.Vx * influence * dragStrength
		p.vy += ptr.Vy * influence * dragStrength
	}
}

// bounce clamps a particle into the domain and reflects the velocity
// component normal to the wall it hit, scaled down by the dampening
// factor. The axes are handled independently, so a corner hit reflects
// both components.
func (s *Simulator) bounce(p *Particle, dampening float64) {
	if p.x < 0 {
		p.x = 0
		p.vx = -p.vx * dampening
	} else if p.x > s.width {
		p.x = s.width
		p.vx = -p.vx * dampening
	}
	if p.y < 0 {
		p.y = 0
		p.vy = -p.vy * dampening
	} else if p.y > s.height {
		p.y = s.height
		p.vy = -p.vy * dampening
	}
}

// Particles exposes the particle pool for the renderers. The slice is
// owned by the simulator and must not be resized by the caller.
func (s *Simulator) Particles() []Particle {
	return s.particles
}

// Count returns the number of live particles.
func (s *Simulator) Count() int {
	return len(s.particles)
}

// Size returns the domain dimensions.
func (s *Simulator) Size() (float64, float64) {
	return s.width, s.height
}

// Resize updates the domain without touching the particles. Anything
// left outside the new bounds is pulled back by the boundary pass of the
// next step.
func (s *Simulator) Resize(width, height float64) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s.width = width
	s.height = height
}

// SetParticleCount grows or shrinks the pool. New particles spawn in the
// upper half of the domain, surplus ones are cut off the tail.
func (s *Simulator) SetParticleCount(n int) {
	if n < 0 {
		n = 0
	}
	for len(s.particles) < n {
		s.particles = append(s.particles, s.spawn())
	}
	if n < len(s.particles) {
		s.particles = s.particles[:n]
	}
}
