package messages

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botResponseTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "expense_tracker",
			Subsystem: "bot",
			Name:      "response_time_seconds",
			Help:      "Time spent answering one chat message.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"command", "failed"},
	)
	botMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expense_tracker",
			Subsystem: "bot",
			Name:      "messages_total",
			Help:      "Chat messages received, by command.",
		},
		[]string{"command"},
	)
)

// observeResponse records one answered message. Free text is counted
// under the "text" command so label values stay bounded.
func observeResponse(command string, elapsed time.Duration, failed bool) {
	if _, known := knownCommands[command]; !known {
		command = "text"
	}
	botMessages.WithLabelValues(command).Inc()
	botResponseTime.
		WithLabelValues(command, strconv.FormatBool(failed)).
		Observe(elapsed.Seconds())
}
