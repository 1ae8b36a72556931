package trivia

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	startedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_started_total",
		Help: "Trivias started, by difficulty level.",
	}, []string{"level"})

	completedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_completed_total",
		Help: "Trivias played to the end, by difficulty level.",
	}, []string{"level"})

	outOfOrderTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trivia_out_of_order_requests_total",
		Help: "Question requests rejected for skipping ahead or replaying.",
	})
)
