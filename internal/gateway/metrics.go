package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of backend requests by classification and status",
		},
		[]string{"class", "status"}, // status: HTTP code or "error"
	)

	gatewaySessionExpiriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_session_expiries_total",
			Help: "Total number of sessions torn down after a protected call was rejected",
		},
		[]string{"status"},
	)

	gatewayServerErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_server_errors_total",
			Help: "Total number of protected calls answered with 500",
		},
	)
)
