package server

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/gymblog/gymblog/internal/geo"
	"github.com/gymblog/gymblog/internal/service"
)

func (s server) listGyms(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /gyms Gyms ListGyms
	//
	// Returns gyms. When lat and lng are set returns gyms within radius sorted by distance.
	//
	// ---
	// parameters:
	// - name: q
	//   description: matches name, city, address and description
	//   in: query
	//   required: false
	// - name: type
	//   in: query
	//   required: false
	// - name: city
	//   in: query
	//   required: false
	// - name: lat
	//   in: query
	//   required: false
	//   example: 49.8397
	// - name: lng
	//   in: query
	//   required: false
	//   example: 24.0297
	// - name: radius
	//   description: search radius in kilometers
	//   in: query
	//   required: false
	//   default: 5
	//   maximum: 50
	// responses:
	//   '200':
	//     description: Gyms
	//     schema:
	//       "$ref": "#/definitions/ListGymsResponse"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"

	p, err := extractGymsParamsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gyms, err := s.s.ListGyms(r.Context(), *p)
	if err != nil {
		writeServiceError(w, r, "failed to list gyms", err)
		return
	}

	nearby := p.Origin != nil
	writeOK(w, http.StatusOK, ListGymsResponse{
		Gyms:   toAPIGyms(gyms, nearby),
		Nearby: nearby && len(gyms) > 0,
	})
}

func (s server) gymTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.s.GymTypes(r.Context())
	if err != nil {
		writeServiceError(w, r, "failed to list gym types", err)
		return
	}

	writeOK(w, http.StatusOK, GymTypesResponse{Types: types})
}

func (s server) getGym(w http.ResponseWriter, r *http.Request) {
	g, err := s.s.GetGym(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "failed to get gym", err)
		return
	}

	writeOK(w, http.StatusOK, toAPIGym(g))
}

func (s server) importGyms(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /admin/gyms/import Admin ImportGyms
	//
	// Imports gyms around the point from OpenStreetMap. Gyms with known addresses are skipped.
	//
	// ---
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/ImportGymsRequest"
	// responses:
	//   '200':
	//     description: Import result
	//     schema:
	//       "$ref": "#/definitions/ImportGymsResponse"
	//   '403':
	//     description: forbidden
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req ImportGymsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.s.ImportGyms(r.Context(), viewer(r), service.ImportGymsParams{
		City: req.City,
		Lat:  req.Lat,
		Lng:  req.Lng,
	})
	if err != nil {
		writeServiceError(w, r, "failed to import gyms", err)
		return
	}

	writeOK(w, http.StatusOK, ImportGymsResponse{
		Fetched:  res.Fetched,
		Inserted: res.Inserted,
		Skipped:  res.Skipped,
	})
}

func extractGymsParamsFromQuery(q url.Values) (*service.ListGymsParams, error) {
	out := service.ListGymsParams{
		Query: q.Get("q"),
		Type:  q.Get("type"),
		City:  q.Get("city"),
	}

	lat, lng := q.Get("lat"), q.Get("lng")
	if (lat == "") != (lng == "") {
		return nil, fmt.Errorf("%w: lat and lng should be set together", errInvalidRequest)
	}

	if lat != "" {
		var (
			p   geo.Point
			err error
		)
		if p.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
			return nil, fmt.Errorf("%w: failed to parse lat", errInvalidRequest)
		}
		if p.Lng, err = strconv.ParseFloat(lng, 64); err != nil {
			return nil, fmt.Errorf("%w: failed to parse lng", errInvalidRequest)
		}
		out.Origin = &p
	}

	if s := q.Get("radius"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: failed to parse radius", errInvalidRequest)
		}
		out.RadiusKm = v
	}

	return &out, nil
}
