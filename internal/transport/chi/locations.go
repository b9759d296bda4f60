package chi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dira-homes/dira/internal/schema"
)

const uploadedMessage = "upload to redis is successful"

// Cities handles GET /locations/cities.
func (s *Server) Cities(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.Locations.Cities(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

// StreetsGraph handles GET /locations/streets-graph?city=.
func (s *Server) StreetsGraph(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.Locations.StreetsGraph(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

// InsertCities handles POST /locations/insert/cities.
func (s *Server) InsertCities(w http.ResponseWriter, r *http.Request) {
	s.insertLocationFile(w, r, s.svc.Locations.SetCities)
}

// InsertStreetsGraph handles POST /locations/insert/streets-graph.
func (s *Server) InsertStreetsGraph(w http.ResponseWriter, r *http.Request) {
	s.insertLocationFile(w, r, s.svc.Locations.SetStreetsGraph)
}

func (s *Server) insertLocationFile(
	w http.ResponseWriter,
	r *http.Request,
	set func(ctx context.Context, file json.RawMessage) error,
) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	var req struct {
		File json.RawMessage `json:"file"`
	}
	if !s.decodeValidated(w, schema.Location, body, &req) {
		return
	}
	if err := set(r.Context(), req.File); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeText(w, http.StatusOK, uploadedMessage)
}
