package lighting

import (
	"math"
	"sync"

	"github.com/taigrr/lumen/pkg/config"
	"github.com/taigrr/lumen/pkg/models"
)

// cacheKey identifies one light's contribution to one polygon of one object
// at specific versions of both. Any setter on either side changes the key,
// so stale entries are simply never hit again.
type cacheKey struct {
	object       uint64
	objectVer    uint64
	light        uint64
	lightVer     uint64
	polygonIndex int
}

// Stats reports cache behaviour since the System was created.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
	Resets  int // Times the table was dropped for exceeding the limit
}

// System shades polygons and memoizes per-light contributions. It is safe
// for concurrent use by multiple goroutines.
type System struct {
	cfg config.Config

	mu     sync.Mutex
	cache  map[cacheKey][3]float64
	hits   uint64
	misses uint64
	resets int
}

// NewSystem creates a lighting system.
func NewSystem(cfg config.Config) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &System{
		cfg:   cfg,
		cache: make(map[cacheKey][3]float64),
	}, nil
}

// Shade returns the lit color of a world-space polygon under lights: the sum
// of every light's contribution plus the ambient floor, clamped per channel
// to [0, 255] and rounded.
func (s *System) Shade(p models.Polygon, lights []*Light) models.RGB {
	var sum [3]float64
	for _, l := range lights {
		c := s.contribution(p, l)
		sum[0] += c[0]
		sum[1] += c[1]
		sum[2] += c[2]
	}
	base := [3]float64{float64(p.Color.R), float64(p.Color.G), float64(p.Color.B)}
	return models.RGB{
		R: toChannel(sum[0] + base[0]*s.cfg.Ambient),
		G: toChannel(sum[1] + base[1]*s.cfg.Ambient),
		B: toChannel(sum[2] + base[2]*s.cfg.Ambient),
	}
}

// Irradiance returns the scalar light intensity reaching p's centroid:
// power * lambert * cone / max(distance², ε).
func (s *System) Irradiance(p models.Polygon, l *Light) float64 {
	if p.Degenerate {
		return 0
	}
	center := p.Centroid()
	toLight := l.position.Sub(center)
	dir, err := toLight.Unit()
	if err != nil {
		// Light sits on the centroid, no defined incidence
		return 0
	}
	lambert := math.Max(0, p.FacingNormal().Dot(dir))
	if lambert == 0 {
		return 0
	}
	cone := l.coneFactor(toLight.Negate())
	if cone == 0 {
		return 0
	}
	return l.power * lambert * cone / math.Max(toLight.LenSq(), s.cfg.Epsilon)
}

// contribution returns l's per-channel contribution to p, from the cache when
// the polygon has an owner.
func (s *System) contribution(p models.Polygon, l *Light) [3]float64 {
	if p.Owner == nil {
		return s.compute(p, l)
	}
	key := cacheKey{
		object:       p.Owner.ID(),
		objectVer:    p.Owner.Version(),
		light:        l.id,
		lightVer:     l.version,
		polygonIndex: p.Index,
	}

	s.mu.Lock()
	c, ok := s.cache[key]
	if ok {
		s.hits++
		s.mu.Unlock()
		return c
	}
	s.misses++
	s.mu.Unlock()

	c = s.compute(p, l)

	s.mu.Lock()
	if len(s.cache) >= s.cfg.CacheLimit {
		clear(s.cache)
		s.resets++
	}
	s.cache[key] = c
	s.mu.Unlock()
	return c
}

func (s *System) compute(p models.Polygon, l *Light) [3]float64 {
	intensity := s.Irradiance(p, l)
	if intensity == 0 {
		return [3]float64{}
	}
	return [3]float64{
		float64(p.Color.R) * float64(l.color.R) / 255 * intensity,
		float64(p.Color.G) * float64(l.color.G) / 255 * intensity,
		float64(p.Color.B) * float64(l.color.B) / 255 * intensity,
	}
}

// Stats returns the cache counters.
func (s *System) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Hits:    s.hits,
		Misses:  s.misses,
		Entries: len(s.cache),
		Resets:  s.resets,
	}
}

// Reset drops every cached contribution. Results are unaffected.
func (s *System) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.cache)
}

func toChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
