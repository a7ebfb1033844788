package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttemptsTotal counts submitted attempts by their resulting status
	// (right, wrong, error).
	AttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sqldrill_attempts_total",
		Help: "Total number of submitted SQL attempts by verdict.",
	}, []string{"verdict"})

	// PlaySessionsTotal counts started play sessions.
	PlaySessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sqldrill_play_sessions_total",
		Help: "Total number of started play sessions.",
	})

	// SetsCompletedTotal counts sessions in which every problem reached right.
	SetsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sqldrill_sets_completed_total",
		Help: "Total number of fully solved problem set sessions.",
	})
)
