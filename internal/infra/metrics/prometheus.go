package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skitrack_jobs_processed_total",
		Help: "Total number of jobs processed, by status",
	}, []string{"status"})

	JobProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skitrack_job_processing_duration_seconds",
		Help:    "Duration of the video analysis pipeline",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	FramesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skitrack_frames_processed_total",
		Help: "Total number of frames run through the tracking pipeline",
	})

	AnglesMeasuredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skitrack_angles_measured_total",
		Help: "Total number of frames that produced a valid angle",
	})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "skitrack_active_workers",
		Help: "Number of currently active workers processing jobs",
	})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skitrack_retry_total",
		Help: "Total number of retries",
	}, []string{"attempt"})
)
