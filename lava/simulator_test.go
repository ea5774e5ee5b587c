package lava

import (
	"math"
	"testing"
)

// stillConfig switches every force off so that single effects can be
// observed in isolation.
func stillConfig() Config {
	return Config{
		Viscosity: 1,
		Dampening: 0.5,
	}
}

// newTestSim returns a simulator with an empty particle pool, ready to
// be populated with hand placed particles.
func newTestSim(width, height float64) *Simulator {
	s := NewSimulator(width, height, 1, 1)
	s.particles = s.particles[:0]
	return s
}

func TestDefaultParticleCount(t *testing.T) {
	if n := DefaultParticleCount(100, 100); n != 200 {
		t.Errorf("small domains should clamp to the minimum, got %d", n)
	}
	if n := DefaultParticleCount(4000, 1000); n != 5000 {
		t.Errorf("large domains should clamp to the maximum, got %d", n)
	}
	if n := DefaultParticleCount(800, 800); n != 800 {
		t.Errorf("expected one particle per 800 square units, got %d", n)
	}
	if got := NewSimulator(100, 100, 0, 1).Count(); got != 200 {
		t.Errorf("constructor should fall back to the derived count, got %d", got)
	}
}

func TestSpawnedParticlesStartInUpperHalf(t *testing.T) {
	s := NewSimulator(800, 600, 100, 9)

	moving := false
	for i := range s.particles {
		p := s.particles[i]
		if p.y >= 300 {
			t.Fatalf("particle %d spawned in the lower half, y = %f", i, p.y)
		}
		if p.x < 0 || p.x > 800 {
			t.Fatalf("particle %d spawned outside the domain, x = %f", i, p.x)
		}
		if p.temp < 0 || p.temp > 1 {
			t.Fatalf("particle %d spawned with temperature %f", i, p.temp)
		}
		if p.vx != 0 || p.vy != 0 {
			moving = true
		}
	}
	if !moving {
		t.Error("spawned particles should carry a random initial velocity")
	}
}

func TestBuoyancyDirection(t *testing.T) {
	cfg := stillConfig()
	cfg.Gravity = Vector{Y: 0.1}

	// Hot particles rise against gravity.
	s := newTestSim(640, 480)
	hot := NewParticle(320, 240)
	hot.temp = 1
	s.particles = append(s.particles, hot)
	s.Step(cfg, nil)
	if vy := s.particles[0].vy; vy >= 0 {
		t.Errorf("particle at temperature 1 should rise, got vy = %f", vy)
	}

	// Cold particles sink with gravity.
	s = newTestSim(640, 480)
	s.particles = append(s.particles, NewParticle(320, 240))
	s.Step(cfg, nil)
	if vy := s.particles[0].vy; vy <= 0 {
		t.Errorf("particle at temperature 0 should sink, got vy = %f", vy)
	}

	// The crossover temperature stays put.
	s = newTestSim(640, 480)
	neutral := NewParticle(320, 240)
	neutral.temp = 0.4
	s.particles = append(s.particles, neutral)
	s.Step(cfg, nil)
	if vy := s.particles[0].vy; math.Abs(vy) > 1e-12 {
		t.Errorf("particle at temperature 0.4 should hover, got vy = %f", vy)
	}
}

func TestThermalZones(t *testing.T) {
	cfg := stillConfig()
	cfg.HeatSpeed = 0.01

	s := newTestSim(640, 480)
	bottom := NewParticle(320, 400) // inside the heater band
	bottom.temp = 0.5
	top := NewParticle(320, 100) // inside the cooler band
	top.temp = 0.5
	middle := NewParticle(320, 240)
	middle.temp = 0.5
	s.particles = append(s.particles, bottom, top, middle)

	s.Step(cfg, nil)

	if got := s.particles[0].temp; math.Abs(got-0.51) > 1e-12 {
		t.Errorf("bottom particle should heat up by heatSpeed, got %f", got)
	}
	if got := s.particles[1].temp; math.Abs(got-0.49) > 1e-12 {
		t.Errorf("top particle should cool down by heatSpeed, got %f", got)
	}
	if got := s.particles[2].temp; got != 0.5 {
		t.Errorf("particle outside both bands should keep its temperature, got %f", got)
	}
}

func TestTemperatureStaysInRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeatSpeed = 0.75 // deliberately absurd
	cfg.SwirlStrength = 0.4

	s := NewSimulator(400, 300, 80, 7)
	for i := 0; i < 300; i++ {
		s.Step(cfg, nil)
	}
	for i := range s.particles {
		if tv := s.particles[i].temp; tv < 0 || tv > 1 {
			t.Fatalf("particle %d left the temperature range: %f", i, tv)
		}
	}
}

func TestOverlappingThermalZonesBothApply(t *testing.T) {
	cfg := stillConfig()
	cfg.HeatSpeed = 0.01

	// A domain shorter than twice the band depth: heater and cooler
	// overlap and their adjustments cancel out.
	s := newTestSim(640, 200)
	p := NewParticle(320, 100)
	p.temp = 0.5
	s.particles = append(s.particles, p)

	s.Step(cfg, nil)
	if got := s.particles[0].temp; math.Abs(got-0.5) > 1e-12 {
		t.Errorf("overlapping zones should cancel, got %f", got)
	}
}

func TestViscosityDampsVelocity(t *testing.T) {
	cfg := stillConfig()
	cfg.Viscosity = 0.5

	s := newTestSim(640, 480)
	p := NewParticle(320, 240)
	p.vx = 8
	s.particles = append(s.particles, p)

	s.Step(cfg, nil)
	if vx := s.particles[0].vx; math.Abs(vx-4) > 1e-12 {
		t.Errorf("viscosity 0.5 should halve the velocity, got %f", vx)
	}
}

func TestPositionsStayInsideDomain(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSimulator(300, 200, 60, 3)

	// Give everything a violent shove and make sure the boundary pass
	// still pins the pool inside.
	for i := range s.particles {
		s.particles[i].vx = float64(i%7)*300 - 900
		s.particles[i].vy = float64(i%5)*250 - 500
	}
	for n := 0; n < 25; n++ {
		s.Step(cfg, nil)
		for i := range s.particles {
			p := s.particles[i]
			if p.x < 0 || p.x > 300 || p.y < 0 || p.y > 200 {
				t.Fatalf("step %d: particle %d escaped to (%f, %f)", n, i, p.x, p.y)
			}
		}
	}
}

func TestBounceReflectsAndDampens(t *testing.T) {
	cfg := stillConfig()

	s := newTestSim(300, 200)
	p := NewParticle(299, 100)
	p.vx = 10
	s.particles = append(s.particles, p)

	s.Step(cfg, nil)
	got := s.particles[0]
	if got.x != 300 {
		t.Errorf("particle should be clamped to the wall, got x = %f", got.x)
	}
	if math.Abs(got.vx+5) > 1e-12 {
		t.Errorf("velocity should reflect and halve, got vx = %f", got.vx)
	}
}

func TestBounceZeroDampeningStopsParticle(t *testing.T) {
	cfg := stillConfig()
	cfg.Dampening = 0

	s := newTestSim(300, 200)
	p := NewParticle(100, 199)
	p.vy = 50
	s.particles = append(s.particles, p)

	s.Step(cfg, nil)
	if vy := s.particles[0].vy; vy != 0 {
		t.Errorf("zero dampening should zero the normal velocity, got %f", vy)
	}
}

func TestCornerBounceReflectsBothAxes(t *testing.T) {
	cfg := stillConfig()

	s := newTestSim(300, 200)
	p := NewParticle(1, 1)
	p.vx = -10
	p.vy = -10
	s.particles = append(s.particles, p)

	s.Step(cfg, nil)
	got := s.particles[0]
	if got.x != 0 || got.y != 0 {
		t.Errorf("corner hit should clamp both axes, got (%f, %f)", got.x, got.y)
	}
	if got.vx <= 0 || got.vy <= 0 {
		t.Errorf("corner hit should reflect both components, got (%f, %f)", got.vx, got.vy)
	}
}

func TestSeparationPushesOverlappingPairApart(t *testing.T) {
	cfg := stillConfig()
	cfg.Spacing = 16
	cfg.Stiffness = 0.12

	s := newTestSim(640, 480)
	s.particles = append(s.particles, NewParticle(100, 100), NewParticle(105, 100))

	s.Step(cfg, nil)
	a, b := s.particles[0], s.particles[1]
	if dist := b.x - a.x; dist <= 5 {
		t.Errorf("overlapping pair should drift apart, distance went from 5 to %f", dist)
	}
	if math.Abs(a.vx+b.vx) > 1e-12 {
		t.Errorf("separation impulses should be equal and opposite, got %f and %f", a.vx, b.vx)
	}
	if a.vy != 0 || b.vy != 0 {
		t.Errorf("horizontal pair should only separate horizontally, got vy %f and %f", a.vy, b.vy)
	}
}

func TestSeparationIgnoresPairBeyondSpacing(t *testing.T) {
	cfg := stillConfig()
	cfg.Spacing = 16
	cfg.Stiffness = 0.12

	s := newTestSim(640, 480)
	s.particles = append(s.particles, NewParticle(100, 100), NewParticle(120, 100))

	s.Step(cfg, nil)
	a, b := s.particles[0], s.particles[1]
	if a.vx != 0 || b.vx != 0 {
		t.Errorf("pair at distance 20 must not interact, got vx %f and %f", a.vx, b.vx)
	}
	if a.x != 100 || b.x != 120 {
		t.Errorf("non interacting pair should not move, got x %f and %f", a.x, b.x)
	}
}

func TestSeparationImpulseShrinksWithDistance(t *testing.T) {
	cfg := stillConfig()
	cfg.Spacing = 16
	cfg.Stiffness = 0.12

	near := newTestSim(640, 480)
	near.particles = append(near.particles, NewParticle(100, 100), NewParticle(103, 100))
	near.Step(cfg, nil)

	far := newTestSim(640, 480)
	far.particles = append(far.particles, NewParticle(100, 100), NewParticle(110, 100))
	far.Step(cfg, nil)

	if math.Abs(near.particles[0].vx) <= math.Abs(far.particles[0].vx) {
		t.Errorf("closer pairs should feel the stronger push: |%f| vs |%f|",
			near.particles[0].vx, far.particles[0].vx)
	}
}

func TestCoincidentPairIsSkipped(t *testing.T) {
	cfg := stillConfig()
	cfg.Spacing = 16
	cfg.Stiffness = 0.12

	s := newTestSim(640, 480)
	s.particles = append(s.particles, NewParticle(100, 100), NewParticle(100, 100))

	s.Step(cfg, nil)
	for i := range s.particles {
		p := s.particles[i]
		if math.IsNaN(p.x) || math.IsNaN(p.y) || math.IsNaN(p.vx) || math.IsNaN(p.vy) {
			t.Fatalf("coincident pair produced NaN: particle %d", i)
		}
		if p.vx != 0 || p.vy != 0 {
			t.Errorf("coincident pair should receive no impulse, got (%f, %f)", p.vx, p.vy)
		}
	}
}

func TestAbsentPointerLeavesParticlesAlone(t *testing.T) {
	cfg := stillConfig()
	cfg.RepulseRadius = 100
	cfg.RepulseForce = 5

	s := newTestSim(640, 480)
	s.particles = append(s.particles, NewParticle(150, 150))

	s.Step(cfg, nil)
	p := s.particles[0]
	if p.vx != 0 || p.vy != 0 {
		t.Errorf("nil pointer must exert no force, got velocity (%f, %f)", p.vx, p.vy)
	}
	if p.x != 150 || p.y != 150 {
		t.Errorf("nil pointer must not move particles, got (%f, %f)", p.x, p.y)
	}
}

func TestPointerPushesParticlesAway(t *testing.T) {
	cfg := stillConfig()
	cfg.RepulseRadius = 100
	cfg.RepulseForce = 5

	s := newTestSim(640, 480)
	s.particles = append(s.particles, NewParticle(160, 150), NewParticle(300, 150))

	s.Step(cfg, &Pointer{X: 150, Y: 150})
	inside := s.particles[0]
	if want := 4.5; math.Abs(inside.vx-want) > 1e-12 { // (1 - 10/100) * 5
		t.Errorf("particle 10 units from the pointer should get vx = %f, got %f", want, inside.vx)
	}
	if inside.vy != 0 {
		t.Errorf("push should point straight away from the pointer, got vy = %f", inside.vy)
	}
	outside := s.particles[1]
	if outside.vx != 0 || outside.vy != 0 {
		t.Errorf("particle beyond the radius must not move, got (%f, %f)", outside.vx, outside.vy)
	}
}

func TestPointerDragTransfersVelocity(t *testing.T) {
	cfg := stillConfig()
	cfg.RepulseRadius = 100
	cfg.RepulseForce = 0 // isolate the drag share

	s := newTestSim(640, 480)
	s.particles = append(s.particles, NewParticle(150, 160))

	s.Step(cfg, &Pointer{X: 150, Y: 150, Vx: 10})
	p := s.particles[0]
	if want := 4.5; math.Abs(p.vx-want) > 1e-12 { // 10 * 0.9 * 0.5
		t.Errorf("drag should hand over half the pointer velocity by influence, want vx = %f, got %f", want, p.vx)
	}
}

func TestParticleExactlyOnPointerIsSkipped(t *testing.T) {
	cfg := stillConfig()
	cfg.RepulseRadius = 100
	cfg.RepulseForce = 5

	s := newTestSim(640, 480)
	s.particles = append(s.particles, NewParticle(150, 150))

	s.Step(cfg, &Pointer{X: 150, Y: 150, Vx: 3})
	p := s.particles[0]
	if math.IsNaN(p.vx) || math.IsNaN(p.vy) {
		t.Fatal("pointer sitting on a particle produced NaN")
	}
	if p.vx != 0 || p.vy != 0 {
		t.Errorf("undefined push direction should skip the particle, got (%f, %f)", p.vx, p.vy)
	}
}

func TestSwirlJogsTheGravityField(t *testing.T) {
	base := stillConfig()

	swirled := base
	swirled.Swirl = true
	swirled.SwirlStrength = 0.02

	s := newTestSim(640, 480)
	s.particles = append(s.particles, NewParticle(100, 100))
	s.Step(swirled, nil)
	if p := s.particles[0]; p.vx == 0 && p.vy == 0 {
		t.Error("swirl should perturb a particle even without gravity")
	}

	s = newTestSim(640, 480)
	s.particles = append(s.particles, NewParticle(100, 100))
	s.Step(base, nil)
	if p := s.particles[0]; p.vx != 0 || p.vy != 0 {
		t.Errorf("with swirl off and no gravity nothing should move, got (%f, %f)", p.vx, p.vy)
	}
}

func TestSetParticleCount(t *testing.T) {
	s := NewSimulator(800, 600, 300, 5)

	before := make([]Particle, 300)
	copy(before, s.particles)

	s.SetParticleCount(350)
	if s.Count() != 350 {
		t.Fatalf("expected 350 particles after growing, got %d", s.Count())
	}
	for i := 0; i < 300; i++ {
		if s.particles[i] != before[i] {
			t.Fatalf("growing the pool must not disturb existing particles, index %d changed", i)
		}
	}
	for i := 300; i < 350; i++ {
		p := s.particles[i]
		if p.y >= 300 {
			t.Errorf("new particle %d should spawn in the upper half, got y = %f", i, p.y)
		}
		if p.x < 0 || p.x > 800 {
			t.Errorf("new particle %d spawned outside the domain, x = %f", i, p.x)
		}
	}

	s.SetParticleCount(100)
	if s.Count() != 100 {
		t.Fatalf("expected 100 particles after shrinking, got %d", s.Count())
	}
	for i := 0; i < 100; i++ {
		if s.particles[i] != before[i] {
			t.Fatalf("shrinking must keep the head of the pool, index %d changed", i)
		}
	}

	s.SetParticleCount(-5)
	if s.Count() != 0 {
		t.Errorf("negative counts clamp to an empty pool, got %d", s.Count())
	}
}

func TestStepOnEmptyPool(t *testing.T) {
	s := NewSimulator(640, 480, 10, 1)
	s.SetParticleCount(0)
	s.Step(DefaultConfig(), &Pointer{X: 10, Y: 10}) // must not panic
}

func TestResizeKeepsParticlesUntilNextStep(t *testing.T) {
	s := newTestSim(640, 480)
	s.particles = append(s.particles, NewParticle(600, 400))

	s.Resize(320, 240)
	if p := s.particles[0]; p.x != 600 || p.y != 400 {
		t.Errorf("resize must not reposition particles, got (%f, %f)", p.x, p.y)
	}

	s.Step(stillConfig(), nil)
	p := s.particles[0]
	if p.x > 320 || p.y > 240 {
		t.Errorf("next boundary pass should pull strays inside, got (%f, %f)", p.x, p.y)
	}
}

func TestStepIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	a := NewSimulator(640, 480, 120, 42)
	b := NewSimulator(640, 480, 120, 42)

	ptr := &Pointer{X: 320, Y: 240, Vx: 2}
	for i := 0; i < 50; i++ {
		a.Step(cfg, ptr)
		b.Step(cfg, ptr)
	}
	for i := range a.particles {
		if a.particles[i] != b.particles[i] {
			t.Fatalf("same seed and inputs should replay identically, particle %d differs", i)
		}
	}
}

func TestConfigNormalizeClampsRanges(t *testing.T) {
	cfg := Config{
		Viscosity:     4,
		Dampening:     2,
		HeatSpeed:     -1,
		Spacing:       -16,
		Stiffness:     -3,
		RepulseRadius: -100,
	}
	cfg.normalize()

	if cfg.Viscosity != 1 {
		t.Errorf("viscosity should clamp to 1, got %f", cfg.Viscosity)
	}
	if cfg.Dampening != 1 {
		t.Errorf("dampening should clamp to 1, got %f", cfg.Dampening)
	}
	if cfg.HeatSpeed != 0 || cfg.Spacing != 0 || cfg.Stiffness != 0 || cfg.RepulseRadius != 0 {
		t.Errorf("negative parameters should clamp to zero: %+v", cfg)
	}
}

func BenchmarkStep(b *testing.B) {
	cfg := DefaultConfig()
	s := NewSimulator(1600, 900, 2000, 1)
	ptr := &Pointer{X: 800, Y: 450, Vx: 1, Vy: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(cfg, ptr)
	}
}
