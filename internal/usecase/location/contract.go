package location

import "context"

// Repository stores the raw location documents.
type Repository interface {
	Cities(ctx context.Context) ([]byte, error)
	SetCities(ctx context.Context, data []byte) error
	StreetsGraph(ctx context.Context) ([]byte, error)
	SetStreetsGraph(ctx context.Context, data []byte) error
}
