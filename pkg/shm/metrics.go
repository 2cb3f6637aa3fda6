package shm

import "github.com/prometheus/client_golang/prometheus"

var (
	segmentCreates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shmkit_segment_creates_total",
		Help: "Total number of shared memory segments created by this process.",
	})
	segmentOpens = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shmkit_segment_opens_total",
		Help: "Total number of attaches to existing shared memory segments.",
	})
	bytesRead = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shmkit_segment_read_bytes_total",
		Help: "Total bytes read out of shared memory segments.",
	})
	bytesWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shmkit_segment_written_bytes_total",
		Help: "Total bytes written into shared memory segments.",
	})
	boundsViolations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shmkit_segment_bounds_violations_total",
		Help: "Total rejected out-of-bounds accesses, by direction.",
	}, []string{"direction"})
)

func init() {
	prometheus.MustRegister(segmentCreates, segmentOpens, bytesRead, bytesWritten, boundsViolations)
}
