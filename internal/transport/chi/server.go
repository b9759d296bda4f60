package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dira-homes/dira/internal/blob"
	"github.com/dira-homes/dira/internal/domain"
	domatt "github.com/dira-homes/dira/internal/domain/attachment"
	domlst "github.com/dira-homes/dira/internal/domain/listing"
	"github.com/dira-homes/dira/internal/domain/search/query"
	"github.com/dira-homes/dira/internal/domain/user"
	attachmentuc "github.com/dira-homes/dira/internal/usecase/attachment"
	authuc "github.com/dira-homes/dira/internal/usecase/auth"
	healthuc "github.com/dira-homes/dira/internal/usecase/health"
	searchuc "github.com/dira-homes/dira/internal/usecase/search"
)

const defaultMaxBodyBytes = 1 << 20

// Searcher runs listing searches.
type Searcher interface {
	Search(ctx context.Context, in query.Input, skip int) ([]searchuc.Result, error)
}

// Listings publishes and reads listings.
type Listings interface {
	Publish(ctx context.Context, d domlst.Draft, owner string) (domlst.Listing, error)
	Get(ctx context.Context, id string) (domlst.Listing, []domatt.Attachment, error)
	ListMine(ctx context.Context, owner string) ([]searchuc.Result, error)
}

// Files stores and serves listing attachments.
type Files interface {
	Upload(ctx context.Context, listingID string, files []attachmentuc.File) ([]domatt.Attachment, error)
	GetFile(ctx context.Context, key string) (*blob.Object, error)
}

// Accounts manages users and sessions.
type Accounts interface {
	Authenticator
	Signup(ctx context.Context, in user.Signup) (authuc.Session, error)
	Login(ctx context.Context, email, password string) (authuc.Session, error)
	Logout(ctx context.Context, userID, token string) error
}

// Locations serves and replaces the location documents.
type Locations interface {
	Cities(ctx context.Context) (json.RawMessage, error)
	StreetsGraph(ctx context.Context, city string) (json.RawMessage, error)
	SetCities(ctx context.Context, file json.RawMessage) error
	SetStreetsGraph(ctx context.Context, file json.RawMessage) error
}

// HealthChecker pings dependencies.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// SchemaValidator checks request bodies against named JSON Schemas.
type SchemaValidator interface {
	Validate(name string, body []byte) error
}

// Services bundles the application services behind the HTTP API.
type Services struct {
	Search    Searcher
	Listings  Listings
	Files     Files
	Accounts  Accounts
	Locations Locations
	Health    HealthChecker
	Schemas   SchemaValidator
}

// Options tunes request limits.
type Options struct {
	MaxBodyBytes   int64
	MaxUploadBytes int64
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the listings HTTP API.
type Server struct {
	svc           Services
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, opts Options, logger *zap.Logger) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 64 << 20
	}
	s := &Server{svc: svc, opts: opts, logger: logger}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrInvalidFilterValue, http.StatusBadRequest),
		sentinelHandler(domain.ErrListingNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusBadRequest),
		sentinelHandler(domain.ErrUnauthenticated, http.StatusForbidden),
		sentinelHandler(domain.ErrNoFiles, http.StatusUnprocessableEntity),
	}
	return s
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Post("/signup", s.Signup)
	r.Post("/login", s.Login)

	r.Get("/locations/cities", s.Cities)
	r.Get("/locations/streets-graph", s.StreetsGraph)

	r.Get("/apartments", s.SearchListings)
	r.Get("/apartments/", s.SearchListings)
	r.Get("/apartments/get-file", s.GetFile)
	r.Get("/apartments/{apartmentId}", s.GetListing)

	r.Group(func(r chi.Router) {
		r.Use(TokenAuthMiddleware(s.svc.Accounts))

		r.Post("/logout", s.Logout)
		r.Post("/apartments/publish", s.PublishListing)
		r.Post("/apartments/publish/upload-files", s.UploadFiles)
		r.Get("/users/me/apartments", s.MyListings)
		r.Post("/locations/insert/cities", s.InsertCities)
		r.Post("/locations/insert/streets-graph", s.InsertStreetsGraph)
	})
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "API is Working!")
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// readBody reads a size-limited request body.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return body, true
}

// decodeValidated checks body against a schema and decodes it into dst.
func (s *Server) decodeValidated(w http.ResponseWriter, schemaName string, body []byte, dst any) bool {
	if err := s.svc.Schemas.Validate(schemaName, body); err != nil {
		s.handleDomainError(w, err)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Status: status, Message: message})
}

// validationHandler surfaces the field message of a ValidationError.
func validationHandler(w http.ResponseWriter, err error) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Status:  http.StatusBadRequest,
		Message: ve.Message,
		Field:   ve.Field,
	})
	return true
}

// sentinelHandler maps a sentinel to a status; the client sees only the
// sentinel's own message, never the wrapping context.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if sentinel == domain.ErrUnauthenticated {
			msg = notAuthenticated
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
