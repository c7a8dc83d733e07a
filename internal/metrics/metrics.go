package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	QueueJoins = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "beatcode_queue_joins_total", Help: "Total matchmaking queue joins"},
	)
	MatchesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "beatcode_matches_created_total", Help: "Total matches created by pairing"},
	)
	MatchesCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "beatcode_matches_completed_total", Help: "Total matches driven to completion"},
	)
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "beatcode_submissions_total", Help: "Total graded submissions by verdict"},
		[]string{"verdict"},
	)
)

func Register() {
	prometheus.MustRegister(QueueJoins, MatchesCreated, MatchesCompleted, Submissions)
}
