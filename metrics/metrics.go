// Package metrics holds the Prometheus collectors. They live in their own
// package so auth and the HTTP layer can both record without importing each other.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Token event labels.
const (
	TokenIssued    = "issued"
	TokenRefreshed = "refreshed"
	TokenRevoked   = "revoked"
	TokenRejected  = "rejected"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cafehere_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cafehere_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	TokenEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cafehere_auth_token_events_total",
		Help: "JWT lifecycle events",
	}, []string{"event"})
)

// Register adds every collector to reg (or the default registry if nil).
// Registering twice is not an error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{HTTPRequests, HTTPDuration, TokenEvents} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

func RecordToken(event string) {
	TokenEvents.WithLabelValues(event).Inc()
}

// Middleware records request count and latency labelled by the matched route
// pattern, so ids in the path do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
