package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var PostsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gatehouse",
	Name:      "posts_submitted_total",
	Help:      "Posts accepted into the pending state.",
})

var SubmissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gatehouse",
	Name:      "submissions_rejected_total",
	Help:      "Submissions refused before any state was created.",
}, []string{"reason"})

var NotificationsFanned = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gatehouse",
	Name:      "notifications_fanned_out_total",
	Help:      "Moderator notifications created by submission fan-out.",
})

var ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gatehouse",
	Name:      "moderation_decisions_total",
	Help:      "Accept/reject decisions by outcome.",
}, []string{"outcome"})
