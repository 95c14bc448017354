package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymblog/gymblog/internal/entities"
)

var lviv = Point{Lat: 49.8397, Lng: 24.0297}

func gym(id string, lat, lng float64) *entities.Gym {
	return &entities.Gym{ID: id, Location: &entities.Location{Lat: lat, Lng: lng}}
}

func TestDistance(t *testing.T) {
	tt := []struct {
		name string
		a, b Point
	}{
		{name: "same point", a: lviv, b: lviv},
		{name: "lviv-kyiv", a: lviv, b: Point{Lat: 50.4501, Lng: 30.5234}},
		{name: "antimeridian", a: Point{Lat: 0, Lng: 179.5}, b: Point{Lat: 0, Lng: -179.5}},
		{name: "poles", a: Point{Lat: 90}, b: Point{Lat: -90}},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			ab, ba := Distance(tc.a, tc.b), Distance(tc.b, tc.a)

			assert.GreaterOrEqual(t, ab, 0.0)
			assert.InDelta(t, ab, ba, 1e-9)
		})
	}

	assert.Zero(t, Distance(lviv, lviv))
	assert.InDelta(t, 468, Distance(lviv, Point{Lat: 50.4501, Lng: 30.5234}), 3)
	assert.InDelta(t, 111.19, Distance(Point{Lat: 0, Lng: 179.5}, Point{Lat: 0, Lng: -179.5}), 0.1)
	assert.InDelta(t, 20015, Distance(Point{Lat: 90}, Point{Lat: -90}), 1)
}

func TestDistance_Antipodal(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 0.5 {
		for lng := -180.0; lng <= 180; lng += 0.5 {
			a := Point{Lat: lat, Lng: lng}
			b := Point{Lat: -lat, Lng: lng + 180}
			if b.Lng > 180 {
				b.Lng -= 360
			}

			d := Distance(a, b)
			require.False(t, math.IsNaN(d), "%v %v", a, b)
			require.InDelta(t, math.Pi*EarthRadiusKm, d, 1)
		}
	}
}

func TestNearby(t *testing.T) {
	gyms := []*entities.Gym{
		gym("1", 49.8400, 24.0300),
		gym("2", 49.8500, 24.0600),
		{ID: "3"},
	}

	out := Nearby(lviv, 2, gyms)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].Gym.ID)
	assert.Less(t, out[0].DistanceKm, 0.1)

	out = Nearby(lviv, 5, gyms)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].Gym.ID)
	assert.Equal(t, "2", out[1].Gym.ID)
	assert.InDelta(t, 2.46, out[1].DistanceKm, 0.1)
}

func TestNearby_Scenario(t *testing.T) {
	tt := []struct {
		name   string
		origin Point
		radius float64
		gyms   []*entities.Gym
		ids    []string
	}{
		{
			name:   "gym at user location and gym in kyiv",
			origin: Point{Lat: 49.8397, Lng: 24.0297},
			radius: 2,
			gyms:   []*entities.Gym{gym("1", 49.8397, 24.0297), gym("2", 50.4501, 30.5234)},
			ids:    []string{"1"},
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			out := Nearby(tc.origin, tc.radius, tc.gyms)

			ids := make([]string, len(out))
			for i, v := range out {
				ids[i] = v.Gym.ID
			}
			assert.Equal(t, tc.ids, ids)
			assert.Zero(t, out[0].DistanceKm)
		})
	}
}

func TestNearby_Sorted(t *testing.T) {
	gyms := []*entities.Gym{
		gym("far", 49.87, 24.03),
		gym("near", 49.84, 24.03),
		gym("mid", 49.85, 24.03),
		gym("near-twin", 49.84, 24.03),
	}

	out := Nearby(lviv, 10, gyms)
	require.Len(t, out, 4)

	ids := make([]string, len(out))
	for i, v := range out {
		ids[i] = v.Gym.ID
		if i > 0 {
			assert.LessOrEqual(t, out[i-1].DistanceKm, v.DistanceKm)
		}
		assert.LessOrEqual(t, v.DistanceKm, 10.0)
	}
	assert.Equal(t, []string{"near", "near-twin", "mid", "far"}, ids)
}

func TestNearby_Inclusive(t *testing.T) {
	g := gym("1", 49.85, 24.05)
	d := Distance(lviv, Point{Lat: 49.85, Lng: 24.05})

	assert.Len(t, Nearby(lviv, d, []*entities.Gym{g}), 1)
	assert.Len(t, Nearby(lviv, d-1e-6, []*entities.Gym{g}), 0)
}

func TestNearby_Empty(t *testing.T) {
	out := Nearby(lviv, 1, []*entities.Gym{gym("1", 50.45, 30.52), {ID: "2"}})
	assert.NotNil(t, out)
	assert.Len(t, out, 0)

	assert.NotNil(t, Nearby(lviv, 1, nil))
}

func TestPoint_Valid(t *testing.T) {
	assert.True(t, lviv.Valid())
	assert.True(t, Point{Lat: -90, Lng: 180}.Valid())
	assert.False(t, Point{Lat: 91}.Valid())
	assert.False(t, Point{Lng: -181}.Valid())
}

func TestFilter(t *testing.T) {
	gyms := []*entities.Gym{
		{ID: "1", Name: "Iron Gym", City: "Lviv", Type: "gym"},
		{ID: "2", Name: "Aqua", City: "Kyiv", Type: "pool", Address: "Iron street 1"},
		{ID: "3", Name: "Yoga", City: "Lviv", Type: "studio", Description: "quiet place"},
	}

	ids := func(gg []*entities.Gym) []string {
		out := make([]string, len(gg))
		for i, g := range gg {
			out[i] = g.ID
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(gyms, "", "")))
	assert.Equal(t, []string{"1", "2"}, ids(Filter(gyms, "IRON", "")))
	assert.Equal(t, []string{"2"}, ids(Filter(gyms, "iron", "pool")))
	assert.Equal(t, []string{"1", "3"}, ids(Filter(gyms, " lviv ", "")))
	assert.Equal(t, []string{"3"}, ids(Filter(gyms, "quiet", "")))
	assert.Empty(t, Filter(gyms, "", "sauna"))
}

func TestTypes(t *testing.T) {
	gyms := []*entities.Gym{
		{Type: "pool"}, {Type: "gym"}, {Type: ""}, {Type: "pool"},
	}

	assert.Equal(t, []string{"gym", "pool"}, Types(gyms))
	assert.Equal(t, []string{}, Types(nil))
}
