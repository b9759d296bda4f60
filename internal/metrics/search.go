package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Listing search and attachment Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dira",
			Name:      "search_requests_total",
			Help:      "Total number of apartment searches",
		},
		[]string{"status"}, // ok / invalid / error
	)

	SearchClauses = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dira",
			Name:      "search_filter_clauses",
			Help:      "Number of clauses in composed search filters",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dira",
			Name:      "search_results",
			Help:      "Listings returned per search page",
			Buckets:   []float64{0, 1, 2, 5, 10, 20},
		},
	)

	AttachmentResolveFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dira",
			Name:      "attachment_resolve_failures_total",
			Help:      "Listings whose attachments could not be resolved",
		},
	)

	UploadedFilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dira",
			Name:      "uploaded_files_total",
			Help:      "Uploaded attachment files by outcome",
		},
		[]string{"status"}, // saved / failed
	)
)

var registerDomainOnce sync.Once

// RegisterDomainMetrics registers search and upload metrics. Call once from main.
func RegisterDomainMetrics() {
	registerDomainOnce.Do(func() {
		prometheus.MustRegister(
			SearchRequestsTotal,
			SearchClauses,
			SearchResults,
			AttachmentResolveFailuresTotal,
			UploadedFilesTotal,
		)
	})
}
