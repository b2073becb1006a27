package observability

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	messagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netlinklib",
			Subsystem: "transport",
			Name:      "messages_total",
			Help:      "Netlink messages received, by message type.",
		},
		[]string{"type"},
	)
	bytesReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "netlinklib",
			Subsystem: "transport",
			Name:      "bytes_received_total",
			Help:      "Payload bytes received from the kernel.",
		},
	)
	dumps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netlinklib",
			Subsystem: "transport",
			Name:      "dumps_total",
			Help:      "Dump requests issued, by outcome.",
		},
		[]string{"outcome"},
	)
	events = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netlinklib",
			Subsystem: "monitor",
			Name:      "events_total",
			Help:      "Multicast events received, by message type.",
		},
		[]string{"type"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(messagesReceived, bytesReceived, dumps, events)
	})
}

func RecordMessage(msgType uint16, payloadBytes int) {
	RegisterMetrics()
	messagesReceived.WithLabelValues(strconv.Itoa(int(msgType))).Inc()
	bytesReceived.Add(float64(payloadBytes))
}

// RecordDump counts a finished dump; outcome is "ok", "interrupted" or
// "error".
func RecordDump(outcome string) {
	RegisterMetrics()
	dumps.WithLabelValues(outcome).Inc()
}

func RecordEvent(msgType uint16) {
	RegisterMetrics()
	events.WithLabelValues(strconv.Itoa(int(msgType))).Inc()
}
