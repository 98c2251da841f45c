package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airport_http_requests_total",
			Help: "Total HTTP requests processed by route, method, and status code",
		},
		[]string{"route", "method", "status_code"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "airport_http_request_duration_seconds",
			Help:    "HTTP request latency distribution in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"route", "method"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airport_validation_failures_total",
			Help: "Writes rejected before commit, by entity and error kind",
		},
		[]string{"entity", "kind"},
	)

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airport_orders_created_total",
		Help: "Orders committed together with their tickets",
	})
	TicketsSold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airport_tickets_sold_total",
		Help: "Tickets committed",
	})

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airport_cache_hits_total",
			Help: "Cache hits by key",
		},
		[]string{"key"},
	)
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airport_cache_misses_total",
			Help: "Cache misses by key",
		},
		[]string{"key"},
	)

	OutboxPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airport_outbox_events_published_total",
		Help: "The total number of outbox events published to Kafka",
	})
	OutboxPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airport_outbox_publish_errors_total",
		Help: "The total number of failed outbox publish attempts",
	})
)
