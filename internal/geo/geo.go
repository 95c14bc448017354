// Package geo contains distance calculations and filtering over the gym directory.
package geo

import (
	"math"
	"sort"
	"strings"

	"github.com/gymblog/gymblog/internal/entities"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Valid returns true if p has latitude in [-90, 90] and longitude in [-180, 180].
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Distance returns great-circle distance between a and b in kilometres.
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding may push h out of [0, 1] for antipodal points
	h = math.Min(1, math.Max(0, h))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// GymDistance is a gym annotated with distance from the search origin.
type GymDistance struct {
	Gym        *entities.Gym
	DistanceKm float64
}

// Nearby returns gyms that have a location within radiusKm (inclusive) of origin,
// sorted ascending by distance. Gyms at equal distance keep their input order.
// The result is never nil.
func Nearby(origin Point, radiusKm float64, gyms []*entities.Gym) []GymDistance {
	out := make([]GymDistance, 0)

	for _, g := range gyms {
		if g == nil || g.Location == nil {
			continue
		}

		d := Distance(origin, Point{Lat: g.Location.Lat, Lng: g.Location.Lng})
		if d <= radiusKm {
			out = append(out, GymDistance{Gym: g, DistanceKm: d})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})

	return out
}

// Filter returns gyms matching query and type.
// Query is matched case-insensitively against name, city, address and description; empty query matches all.
// Type must match exactly unless it is empty.
func Filter(gyms []*entities.Gym, query, typ string) []*entities.Gym {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]*entities.Gym, 0, len(gyms))
	for _, g := range gyms {
		if typ != "" && g.Type != typ {
			continue
		}

		if query != "" && !matches(g, query) {
			continue
		}

		out = append(out, g)
	}

	return out
}

func matches(g *entities.Gym, query string) bool {
	for _, v := range []string{g.Name, g.City, g.Address, g.Description} {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

// Types returns distinct non-empty gym types in ascending order.
func Types(gyms []*entities.Gym) []string {
	m := make(map[string]struct{}, len(gyms))
	out := make([]string, 0)

	for _, g := range gyms {
		if g.Type == "" {
			continue
		}
		if _, ok := m[g.Type]; !ok {
			m[g.Type] = struct{}{}
			out = append(out, g.Type)
		}
	}

	sort.Strings(out)

	return out
}
