// Package metrics holds the service's prometheus collectors. They register
// with the default registry, which /metrics serves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeAccepted  = "accepted"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
)

// Blog lookup results.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

var (
	CareerSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zymo",
		Name:      "career_submissions_total",
		Help:      "Career application submissions by outcome.",
	}, []string{"outcome"})

	BlogLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zymo",
		Name:      "blog_lookups_total",
		Help:      "Blog detail lookups against the visitor cache.",
	}, []string{"result"})

	ResumeUploadSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "zymo",
		Name:      "resume_upload_seconds",
		Help:      "Time spent uploading résumés to object storage.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	WorkerMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zymo",
		Name:      "worker_messages_total",
		Help:      "Queue messages handled by the worker.",
	}, []string{"type", "result"})
)
