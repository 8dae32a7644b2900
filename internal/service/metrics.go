package service

import (
	"fmt"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"resty.dev/v3"
)

var (
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_mutations_total",
		Help: "Number of mutation operations by outcome.",
	}, []string{"operation", "result"})

	cdnLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feed_cdn_request_latency",
		Help:    "Histogram of CDN request latency in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method", "path", "status_code"})
)

func observeMutation(operation string, err error) {
	mutationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

func cdnMetricMiddleware(_ *resty.Client, response *resty.Response) error {
	reqURL, err := url.Parse(response.Request.URL)
	if err != nil {
		return err
	}

	cdnLatency.WithLabelValues(
		response.Request.Method,
		reqURL.Path,
		fmt.Sprintf("%d", response.StatusCode()),
	).Observe(response.Duration().Seconds())

	return nil
}
