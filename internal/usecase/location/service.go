// Package location serves the cities list and per-city street graphs used
// by the publish form.
package location

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dira-homes/dira/internal/domain"
)

// Service reads and replaces location documents.
type Service struct {
	repo Repository
}

// New creates a location service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Cities returns the stored cities document as is.
func (s *Service) Cities(ctx context.Context) (json.RawMessage, error) {
	data, err := s.repo.Cities(ctx)
	if err != nil {
		return nil, fmt.Errorf("get cities: %w", err)
	}
	return data, nil
}

// StreetsGraph returns the graph entry of one city.
func (s *Service) StreetsGraph(ctx context.Context, city string) (json.RawMessage, error) {
	if city == "" {
		return nil, domain.NewValidationError("city", "city query parameter is required")
	}
	data, err := s.repo.StreetsGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("get streets graph: %w", err)
	}

	var graph map[string]json.RawMessage
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, fmt.Errorf("decode streets graph: %w", err)
	}
	entry, ok := graph[city]
	if !ok {
		return nil, fmt.Errorf("streets of %s: %w", city, domain.ErrNotFound)
	}
	return entry, nil
}

// SetCities replaces the cities document. file must be valid JSON.
func (s *Service) SetCities(ctx context.Context, file json.RawMessage) error {
	if len(file) == 0 || !json.Valid(file) {
		return domain.NewValidationError("file", "file must be a JSON document")
	}
	if err := s.repo.SetCities(ctx, file); err != nil {
		return fmt.Errorf("set cities: %w", err)
	}
	return nil
}

// SetStreetsGraph replaces the streets graph. file must be a JSON object
// keyed by city name.
func (s *Service) SetStreetsGraph(ctx context.Context, file json.RawMessage) error {
	var graph map[string]json.RawMessage
	if err := json.Unmarshal(file, &graph); err != nil || graph == nil {
		return domain.NewValidationError("file", "file must be a JSON object keyed by city")
	}
	if err := s.repo.SetStreetsGraph(ctx, file); err != nil {
		return fmt.Errorf("set streets graph: %w", err)
	}
	return nil
}
