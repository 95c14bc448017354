// Package overpass contains a client of OpenStreetMap Overpass API which looks for gyms.
package overpass

//go:generate mockgen -destination=./mock/overpass.go -package=mock -source=overpass.go

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gymblog/gymblog/internal/entities"
)

// DefaultURL is the public Overpass API endpoint.
const DefaultURL = "https://overpass-api.de/api/interpreter"

// UnnamedGym is used for elements without name tag.
const UnnamedGym = "Unnamed gym"

var log = logrus.WithField("layer", "client").WithField("package", "overpass")

// nolint:gochecknoglobals
var selectors = []string{
	`["leisure"="fitness_centre"]`,
	`["leisure"="sports_centre"]`,
	`["amenity"="gym"]`,
	`["sport"="fitness"]`,
}

// Fetcher fetches gyms around a point.
type Fetcher interface {
	FetchGyms(ctx context.Context, city string, lat, lng float64, radiusMeters int) ([]*entities.Gym, error)
}

// Client ...
type Client struct {
	url string
	c   *http.Client
	now func() time.Time
}

// New creates new instance of Client.
func New(url string, c *http.Client) *Client {
	if c == nil {
		c = http.DefaultClient
	}

	return &Client{
		url: url,
		c:   c,
		now: time.Now,
	}
}

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *center           `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Query returns Overpass QL query for gyms within radiusMeters around (lat, lng).
func Query(lat, lng float64, radiusMeters int) string {
	var b strings.Builder

	b.WriteString("[out:json][timeout:25];\n(\n")
	around := fmt.Sprintf("(around:%d,%f,%f);\n", radiusMeters, lat, lng)
	for _, s := range selectors {
		b.WriteString("  node" + s + around)
		b.WriteString("  way" + s + around)
		b.WriteString("  relation" + s + around)
	}
	b.WriteString(");\nout center;\n")

	return b.String()
}

// FetchGyms returns de-duplicated gyms within radiusMeters around (lat, lng).
// City is used for gyms which have no addr:city tag.
func (c *Client) FetchGyms(ctx context.Context, city string, lat, lng float64, radiusMeters int) ([]*entities.Gym, error) {
	form := url.Values{"data": {Query(lat, lng, radiusMeters)}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode >= 300 {
		body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("overpass responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	gyms := Dedupe(c.toGyms(city, r.Elements))
	log.WithField("elements", len(r.Elements)).WithField("gyms", len(gyms)).Debug("gyms fetched")

	return gyms, nil
}

func (c *Client) toGyms(city string, elements []element) []*entities.Gym {
	now := c.now().UTC()
	out := make([]*entities.Gym, 0, len(elements))

	for _, e := range elements {
		loc := e.location()
		if loc == nil {
			continue
		}

		g := &entities.Gym{
			ID:          fmt.Sprintf("osm-%s-%d", e.Type, e.ID),
			Name:        firstTag(e.Tags, "name"),
			City:        firstTag(e.Tags, "addr:city"),
			Type:        firstTag(e.Tags, "leisure", "amenity", "sport"),
			Description: firstTag(e.Tags, "description"),
			Address:     address(e.Tags),
			Location:    loc,
			Phone:       firstTag(e.Tags, "phone", "contact:phone"),
			Website:     firstTag(e.Tags, "website", "contact:website"),
			Hours:       firstTag(e.Tags, "opening_hours"),
			ImageURL:    firstTag(e.Tags, "image"),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if g.Name == "" {
			g.Name = UnnamedGym
		}
		if g.City == "" {
			g.City = city
		}

		out = append(out, g)
	}

	return out
}

func (e element) location() *entities.Location {
	switch {
	case e.Lat != nil && e.Lon != nil:
		return &entities.Location{Lat: *e.Lat, Lng: *e.Lon}
	case e.Center != nil:
		return &entities.Location{Lat: e.Center.Lat, Lng: e.Center.Lon}
	default:
		return nil
	}
}

func address(tags map[string]string) string {
	street := strings.TrimSpace(firstTag(tags, "addr:street") + " " + firstTag(tags, "addr:housenumber"))
	if street == "" {
		return ""
	}

	if city := firstTag(tags, "addr:city"); city != "" {
		return street + ", " + city
	}

	return street
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(tags[k]); v != "" {
			return v
		}
	}
	return ""
}

// Key returns de-duplication key of gym: normalized address,
// or name with coordinates when address is empty.
func Key(g *entities.Gym) string {
	if a := entities.NormalizeAddress(g.Address); a != "" {
		return a
	}

	k := "name:" + strings.ToLower(g.Name)
	if g.Location != nil {
		k += fmt.Sprintf("@%.5f,%.5f", g.Location.Lat, g.Location.Lng)
	}

	return k
}

// Dedupe drops gyms with repeated Key keeping the first one.
func Dedupe(gyms []*entities.Gym) []*entities.Gym {
	seen := make(map[string]struct{}, len(gyms))
	out := make([]*entities.Gym, 0, len(gyms))

	for _, g := range gyms {
		k := Key(g)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, g)
	}

	return out
}
