package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for the chat path.
type AssistantMetrics struct {
	chatTotal  *prometheus.CounterVec
	llmLatency *prometheus.HistogramVec
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		chatTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "assistant",
			Name:      "chat_total",
			Help:      "Total assistant turns by operation and resolution path",
		}, []string{"operation", "path"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "assistant",
			Name:      "llm_latency_seconds",
			Help:      "Latency of hosted model completions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"model", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.chatTotal, m.llmLatency)
	return m
}

// ObserveChat records one assistant turn. path is how the reply was produced:
// llm or fallback for free-text turns, direct for button clicks, error when
// the turn failed before a reply.
func (m *AssistantMetrics) ObserveChat(operation, path string) {
	if m == nil {
		return
	}
	m.chatTotal.WithLabelValues(operation, path).Inc()
}

// ObserveLLMLatency records one model completion.
func (m *AssistantMetrics) ObserveLLMLatency(model, status string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(model, status).Observe(seconds)
}

// BookingMetrics counts booking outcomes.
type BookingMetrics struct {
	bookingsTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "requests_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal)
	return m
}

// ObserveBooking records a booking attempt (booked, conflict, error).
func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}
