package server

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/geo"
	"github.com/gymblog/gymblog/internal/service"
)

func Test_listGyms(t *testing.T) {
	router, m := newRouter(t)

	g := &entities.Gym{
		ID:       "1",
		Name:     "Iron",
		City:     "Lviv",
		Type:     "gym",
		Location: &entities.Location{Lat: 49.84, Lng: 24.03},
		Rating:   4.5,
	}

	m.s.EXPECT().ListGyms(gomock.Any(), service.ListGymsParams{
		Origin:   &geo.Point{Lat: 49.84, Lng: 24.03},
		RadiusKm: 2,
	}).Return([]geo.GymDistance{{Gym: g, DistanceKm: 0.5}}, nil).Times(1)

	expected := `{"gyms":[{
		"id":"1",
		"name":"Iron",
		"city":"Lviv",
		"type":"gym",
		"location":{"lat":49.84,"lng":24.03},
		"rating":4.5,
		"reviewsCount":0,
		"distanceKm":0.5
	}],"nearby":true}`

	w := do(router, http.MethodGet, "/v1/gyms?lat=49.84&lng=24.03&radius=2", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.JSONEq(t, expected, w.Body.String())

	w = do(router, http.MethodGet, "/v1/gyms?lat=49.84&lng=24.03&radius=2", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.JSONEq(t, expected, w.Body.String())
}

func Test_listGyms_RadiusTooBig(t *testing.T) {
	router, m := newRouter(t)

	m.s.EXPECT().ListGyms(gomock.Any(), gomock.Any()).Return(nil, service.ErrInvalidRequest).Times(2)

	for i := 0; i < 2; i++ {
		w := do(router, http.MethodGet, "/v1/gyms?lat=1&lng=1&radius=51", "", false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	}
}

func Test_extractGymsParamsFromQuery(t *testing.T) {
	p, err := extractGymsParamsFromQuery(url.Values{"q": {"iron"}, "type": {"gym"}, "city": {"Lviv"}})
	require.NoError(t, err)
	assert.Equal(t, &service.ListGymsParams{Query: "iron", Type: "gym", City: "Lviv"}, p)

	for _, q := range []string{"lat=1", "lng=1", "lat=a&lng=1", "lat=1&lng=b", "radius=far", "radius=NaN", "lat=1&lng=1&radius=nan"} {
		v, err := url.ParseQuery(q)
		require.NoError(t, err)

		_, err = extractGymsParamsFromQuery(v)
		require.ErrorIs(t, err, errInvalidRequest, q)
	}
}

func Test_gymTypes(t *testing.T) {
	router, m := newRouter(t)

	m.s.EXPECT().GymTypes(gomock.Any()).Return([]string{"fitness_centre", "gym"}, nil)

	w := do(router, http.MethodGet, "/v1/gyms/types", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"types":["fitness_centre","gym"]}`, w.Body.String())
}

func Test_listGyms_NothingNearby(t *testing.T) {
	router, m := newRouter(t)

	m.s.EXPECT().ListGyms(gomock.Any(), service.ListGymsParams{
		Origin: &geo.Point{Lat: 1, Lng: 1},
	}).Return([]geo.GymDistance{}, nil)

	w := do(router, http.MethodGet, "/v1/gyms?lat=1&lng=1", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"gyms":[],"nearby":false}`, w.Body.String())
}

func Test_getGym(t *testing.T) {
	router, m := newRouter(t)

	m.s.EXPECT().GetGym(gomock.Any(), "x").Return(nil, service.ErrNotFound)

	w := do(router, http.MethodGet, "/v1/gyms/x", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
