package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	domlst "github.com/dira-homes/dira/internal/domain/listing"
	"github.com/dira-homes/dira/internal/domain/search/query"
	"github.com/dira-homes/dira/internal/schema"
)

// SearchListings handles GET /apartments.
func (s *Server) SearchListings(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	var skip int
	if err := runtime.BindQueryParameter("form", true, false, "skipCounter", values, &skip); err != nil || skip < 0 {
		skip = 0
	}

	in := query.Input{
		Params:     query.ParseParams(r.URL.RawQuery),
		Types:      query.ListValues(values, "types"),
		Conditions: query.ListValues(values, "conditions"),
		Exclude:    query.ListValues(values, "apartmentIds"),
	}

	results, err := s.svc.Search.Search(r.Context(), in, skip)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsToResponse(results))
}

// PublishListing handles POST /apartments/publish.
func (s *Server) PublishListing(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, notAuthenticated)
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	// Missing publishers are reported before any other problem.
	var head struct {
		Publishers []json.RawMessage `json:"publishers"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(head.Publishers) == 0 {
		s.handleDomainError(w, domlst.RequirePublishers(nil))
		return
	}

	var req PublishRequest
	if !s.decodeValidated(w, schema.Listing, body, &req) {
		return
	}
	draft, err := draftFromRequest(&req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	l, err := s.svc.Listings.Publish(r.Context(), draft, sess.user.ID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l.ID)
}

// GetListing handles GET /apartments/{apartmentId}.
func (s *Server) GetListing(w http.ResponseWriter, r *http.Request) {
	l, files, err := s.svc.Listings.Get(r.Context(), chi.URLParam(r, "apartmentId"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListingWithFiles{
		Apartment: listingToResponse(&l),
		Files:     filesToResponse(files),
	})
}

// MyListings handles GET /users/me/apartments.
func (s *Server) MyListings(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, notAuthenticated)
		return
	}
	results, err := s.svc.Listings.ListMine(r.Context(), sess.user.ID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsToResponse(results))
}
