// Package effect animates short-lived particles over the board, such as the burst
// shown when food is eaten. Coordinates are in board cells.
package effect

import (
	"math"
	"sync"
)

// Rand is the random source for particle spread. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	Float64() float64
}

// particlePool reuses Particle objects across bursts.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect.
type Particle struct {
	X, Y        float64 // Position in cells
	VX, VY      float64 // Velocity in cells per second
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime, for fading
	Drag        float64 // Velocity decay per 1/60 s (1.0 = no drag)
}

// NewParticle takes a particle from the pool.
func NewParticle(x, y, vx, vy, lifetime, drag float64) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{X: x, Y: y, VX: vx, VY: vy, Lifetime: lifetime, MaxLifetime: lifetime, Drag: drag}
	return p
}

// Release returns the particle to the pool.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Update advances the particle by dt seconds. It reports true once the particle
// has expired.
func (p *Particle) Update(dt float64) bool {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}
	drag := math.Pow(p.Drag, dt*60)
	p.VX *= drag
	p.VY *= drag
	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false
}

// Intensity is the remaining lifetime as a fraction in [0, 1].
func (p *Particle) Intensity() float64 {
	if p.MaxLifetime <= 0 {
		return 0
	}
	return max(0, min(1, p.Lifetime/p.MaxLifetime))
}

// Cell returns the board cell the particle is over.
func (p *Particle) Cell() (x, y int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

// System owns a set of live particles.
type System struct {
	rng       Rand
	particles []*Particle
}

// NewSystem creates an empty particle system.
func NewSystem(rng Rand) *System {
	return &System{rng: rng}
}

// Burst spawns count particles radiating from the center of cell (x, y).
// Speed and lifetime vary randomly between 50% and 150% and 50% and 100% of the
// given values.
func (s *System) Burst(x, y, count int, speed, lifetime, drag float64) {
	cx, cy := float64(x)+0.5, float64(y)+0.5
	for range count {
		angle := s.rng.Float64() * 2 * math.Pi
		spd := speed * (0.5 + s.rng.Float64())
		life := lifetime * (0.5 + s.rng.Float64()*0.5)
		s.particles = append(s.particles,
			NewParticle(cx, cy, math.Cos(angle)*spd, math.Sin(angle)*spd, life, drag))
	}
}

// Update advances every particle and drops the expired ones.
func (s *System) Update(dt float64) {
	live := s.particles[:0]
	for _, p := range s.particles {
		if p.Update(dt) {
			p.Release()
			continue
		}
		live = append(live, p)
	}
	clear(s.particles[len(live):])
	s.particles = live
}

// Len returns the number of live particles.
func (s *System) Len() int {
	return len(s.particles)
}

// Each calls fn for every live particle.
func (s *System) Each(fn func(p *Particle)) {
	for _, p := range s.particles {
		fn(p)
	}
}

// Reset drops every particle.
func (s *System) Reset() {
	for _, p := range s.particles {
		p.Release()
	}
	clear(s.particles)
	s.particles = s.particles[:0]
}
