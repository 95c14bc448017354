package impl

import (
	"context"
	"math"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/geo"
	"github.com/gymblog/gymblog/internal/inference"
	"github.com/gymblog/gymblog/internal/service"
	storageinterface "github.com/gymblog/gymblog/internal/storage"
)

// nolint:gochecknoglobals
var gyms = []*entities.Gym{
	{ID: "1", Name: "Iron", City: "Lviv", Type: "fitness_centre", Address: "Shevchenka St. 12", Location: &entities.Location{Lat: 49.84, Lng: 24.03}},
	{ID: "2", Name: "Far Gym", City: "Lviv", Type: "gym", Location: &entities.Location{Lat: 49.85, Lng: 24.06}},
	{ID: "3", Name: "Nowhere", City: "Lviv", Type: "gym"},
}

func TestSrv_ListGyms(t *testing.T) {
	lviv := geo.Point{Lat: 49.8397, Lng: 24.0297}

	tt := []struct {
		name string
		p    service.ListGymsParams
		ids  []string
		err  error
	}{
		{name: "all", p: service.ListGymsParams{City: "Lviv"}, ids: []string{"1", "2", "3"}},
		{name: "query", p: service.ListGymsParams{Query: "iron"}, ids: []string{"1"}},
		{name: "nearby", p: service.ListGymsParams{Origin: &lviv, RadiusKm: 2}, ids: []string{"1"}},
		{name: "default radius", p: service.ListGymsParams{Origin: &lviv}, ids: []string{"1", "2"}},
		{name: "radius too big", p: service.ListGymsParams{Origin: &lviv, RadiusKm: 51}, err: service.ErrInvalidRequest},
		{name: "radius is nan", p: service.ListGymsParams{Origin: &lviv, RadiusKm: math.NaN()}, err: service.ErrInvalidRequest},
		{name: "bad origin", p: service.ListGymsParams{Origin: &geo.Point{Lat: 91}}, err: service.ErrInvalidRequest},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			s, m := newService(t)

			if tc.err == nil {
				m.s.EXPECT().ListGyms(gomock.Any(), &storageinterface.ListGymsParams{City: tc.p.City}).Return(gyms, nil)
			}

			out, err := s.ListGyms(ctx, tc.p)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)

			ids := make([]string, len(out))
			for i, v := range out {
				ids[i] = v.Gym.ID
			}
			assert.Equal(t, tc.ids, ids)
		})
	}
}

func TestSrv_GymTypes(t *testing.T) {
	s, m := newService(t)

	m.s.EXPECT().ListGyms(gomock.Any(), &storageinterface.ListGymsParams{}).Return(gyms, nil)

	types, err := s.GymTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fitness_centre", "gym"}, types)
}

func TestSrv_GetGym(t *testing.T) {
	s, m := newService(t)

	m.s.EXPECT().GetGym(gomock.Any(), "1").Return(gyms[0], nil)
	g, err := s.GetGym(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, gyms[0], g)

	m.s.EXPECT().GetGym(gomock.Any(), "x").Return(nil, errNotFound)
	_, err = s.GetGym(ctx, "x")
	require.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, "gym not found", err.Error())
}

func TestSrv_ImportGyms(t *testing.T) {
	fetched := []*entities.Gym{
		{ID: "osm-node-1", Name: "Iron", Address: "shevchenka st, 12"},
		{ID: "osm-node-2", Name: "New", Address: "Franka 1"},
		{ID: "osm-node-3", Name: "No address"},
	}

	s, m := newService(t)

	m.s.EXPECT().GetUser(gomock.Any(), "admin").Return(newUser("admin", entities.AdminRole, entities.ActiveStatus), nil)
	m.gyms.EXPECT().FetchGyms(gomock.Any(), "Lviv", 49.84, 24.03, service.ImportRadiusMeters).Return(fetched, nil)
	m.s.EXPECT().GymAddresses(gomock.Any()).Return(map[string]struct{}{"shevchenka st 12": {}}, nil)
	m.s.EXPECT().CreateGyms(gomock.Any(), fetched[1:]).Return(2, nil)

	res, err := s.ImportGyms(ctx, "admin", service.ImportGymsParams{City: " Lviv ", Lat: 49.84, Lng: 24.03})
	require.NoError(t, err)
	assert.Equal(t, &service.ImportResult{Fetched: 3, Inserted: 2, Skipped: 1}, res)
}

func TestSrv_ImportGyms_Errors(t *testing.T) {
	s, m := newService(t)

	_, err := s.ImportGyms(ctx, "admin", service.ImportGymsParams{Lat: 1, Lng: 1})
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = s.ImportGyms(ctx, "admin", service.ImportGymsParams{City: "Lviv", Lat: 100})
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	m.s.EXPECT().GetUser(gomock.Any(), "u").Return(activeUser("u"), nil)
	_, err = s.ImportGyms(ctx, "u", service.ImportGymsParams{City: "Lviv"})
	require.ErrorIs(t, err, service.ErrForbidden)

	m.s.EXPECT().GetUser(gomock.Any(), "admin").Return(newUser("admin", entities.AdminRole, entities.ActiveStatus), nil)
	m.gyms.EXPECT().FetchGyms(gomock.Any(), "Lviv", 0.0, 0.0, service.ImportRadiusMeters).Return(nil, assert.AnError)
	_, err = s.ImportGyms(ctx, "admin", service.ImportGymsParams{City: "Lviv"})
	require.ErrorIs(t, err, assert.AnError)
}

func TestImportGyms(t *testing.T) {
	s, m := newService(t)

	m.gyms.EXPECT().FetchGyms(gomock.Any(), "Lviv", 1.0, 2.0, 500).Return(gyms[2:], nil)
	m.s.EXPECT().GymAddresses(gomock.Any()).Return(map[string]struct{}{}, nil)
	m.s.EXPECT().CreateGyms(gomock.Any(), gyms[2:]).Return(1, nil)

	res, err := ImportGyms(ctx, Dependencies{Storage: s.s, Overpass: s.gyms}, service.ImportGymsParams{City: "Lviv", Lat: 1, Lng: 2, RadiusMeters: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	_, err = ImportGyms(ctx, Dependencies{Storage: s.s}, service.ImportGymsParams{City: "Lviv"})
	require.ErrorIs(t, err, service.ErrNotConfigured)
}

func TestSrv_Chat(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s, m := newService(t)

		m.s.EXPECT().GetUser(gomock.Any(), "u").Return(activeUser("u"), nil)
		m.gen.EXPECT().Generate(gomock.Any(), "how to grow?").Return(" Eat and sleep. ", nil)

		reply, err := s.Chat(ctx, "u", " how to grow? ")
		require.NoError(t, err)
		assert.Equal(t, "Eat and sleep.", reply)
	})

	t.Run("empty response", func(t *testing.T) {
		s, m := newService(t)

		m.s.EXPECT().GetUser(gomock.Any(), "u").Return(activeUser("u"), nil)
		m.gen.EXPECT().Generate(gomock.Any(), "hi").Return("", inference.ErrEmptyResponse)

		_, err := s.Chat(ctx, "u", "hi")
		require.ErrorIs(t, err, inference.ErrEmptyResponse)
	})

	t.Run("not configured", func(t *testing.T) {
		s, m := newService(t)
		s.gen = nil

		m.s.EXPECT().GetUser(gomock.Any(), "u").Return(activeUser("u"), nil)

		_, err := s.Chat(ctx, "u", "hi")
		require.ErrorIs(t, err, service.ErrNotConfigured)
	})

	t.Run("empty", func(t *testing.T) {
		s, _ := newService(t)

		_, err := s.Chat(context.Background(), "u", "  ")
		require.ErrorIs(t, err, service.ErrInvalidRequest)
	})
}
