package impl

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gymblog/gymblog/internal/entities"
	"github.com/gymblog/gymblog/internal/geo"
	"github.com/gymblog/gymblog/internal/service"
	"github.com/gymblog/gymblog/internal/storage"
)

func (s *srv) ListGyms(ctx context.Context, p service.ListGymsParams) ([]geo.GymDistance, error) {
	radius := p.RadiusKm
	if p.Origin != nil {
		if !p.Origin.Valid() {
			return nil, invalid("coordinates are out of range")
		}
		if radius == 0 {
			radius = service.DefaultRadiusKm
		}
		if math.IsNaN(radius) || radius < 0 || radius > service.MaxRadiusKm {
			return nil, invalid("radius should be between 0 and %d km", service.MaxRadiusKm)
		}
	}

	gyms, err := s.s.ListGyms(ctx, &storage.ListGymsParams{
		City: strings.TrimSpace(p.City),
		Type: strings.TrimSpace(p.Type),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list gyms: %w", err)
	}

	gyms = geo.Filter(gyms, p.Query, strings.TrimSpace(p.Type))

	if p.Origin != nil {
		return geo.Nearby(*p.Origin, radius, gyms), nil
	}

	out := make([]geo.GymDistance, len(gyms))
	for i, g := range gyms {
		out[i] = geo.GymDistance{Gym: g}
	}

	return out, nil
}

func (s *srv) GymTypes(ctx context.Context) ([]string, error) {
	gyms, err := s.s.ListGyms(ctx, &storage.ListGymsParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to list gyms: %w", err)
	}

	return geo.Types(gyms), nil
}

func (s *srv) GetGym(ctx context.Context, id string) (*entities.Gym, error) {
	g, err := s.s.GetGym(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("gym")
		}
		return nil, fmt.Errorf("failed to get gym: %w", err)
	}

	return g, nil
}

// ImportGyms fetches gyms around the city and inserts ones with unknown address.
func (s *srv) ImportGyms(ctx context.Context, actor string, p service.ImportGymsParams) (*service.ImportResult, error) {
	p.City = strings.TrimSpace(p.City)
	if p.City == "" {
		return nil, invalid("city is required")
	}
	if !(geo.Point{Lat: p.Lat, Lng: p.Lng}).Valid() {
		return nil, invalid("coordinates are out of range")
	}

	if _, err := s.requireRole(ctx, actor, entities.AdminRole); err != nil {
		return nil, err
	}

	return s.importGyms(ctx, p)
}

func (s *srv) importGyms(ctx context.Context, p service.ImportGymsParams) (*service.ImportResult, error) {
	if s.gyms == nil {
		return nil, fmt.Errorf("gyms import is %w", service.ErrNotConfigured)
	}

	radius := p.RadiusMeters
	if radius <= 0 {
		radius = service.ImportRadiusMeters
	}

	fetched, err := s.gyms.FetchGyms(ctx, p.City, p.Lat, p.Lng, radius)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gyms: %w", err)
	}

	known, err := s.s.GymAddresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gym addresses: %w", err)
	}

	fresh := make([]*entities.Gym, 0, len(fetched))
	for _, g := range fetched {
		if a := entities.NormalizeAddress(g.Address); a != "" {
			if _, ok := known[a]; ok {
				continue
			}
		}
		fresh = append(fresh, g)
	}

	inserted := 0
	if len(fresh) > 0 {
		if inserted, err = s.s.CreateGyms(ctx, fresh); err != nil {
			return nil, fmt.Errorf("failed to create gyms: %w", err)
		}
	}

	res := &service.ImportResult{
		Fetched:  len(fetched),
		Inserted: inserted,
		Skipped:  len(fetched) - inserted,
	}

	log.WithField("city", p.City).WithField("fetched", res.Fetched).WithField("inserted", res.Inserted).Info("gyms imported")

	return res, nil
}

// ImportGyms imports gyms on behalf of the operator, e.g. from command line tool.
func ImportGyms(ctx context.Context, d Dependencies, p service.ImportGymsParams) (*service.ImportResult, error) {
	return (&srv{s: d.Storage, gyms: d.Overpass}).importGyms(ctx, p)
}
