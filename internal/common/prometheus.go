package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_request_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	DrawWinnerTotal            = "draw_winner_total"
	TicketIssuedTotal          = "ticket_issued_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		DrawWinnerTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: DrawWinnerTotal,
			Help: "Count of committed draw winners",
		}, []string{"kind", "redraw"}),
		TicketIssuedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: TicketIssuedTotal,
			Help: "Count of issued tickets",
		}, []string{"station_id"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}
)
