package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service-level counters exposed on /metrics.
type Metrics struct {
	WebhookEvents      *prometheus.CounterVec
	CertificatesIssued prometheus.Counter
	DeliveryFailures   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		WebhookEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "giftcert",
			Name:      "payment_webhook_events_total",
			Help:      "Inbound payment webhook events by acknowledgment outcome.",
		}, []string{"outcome"}),
		CertificatesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "giftcert",
			Name:      "certificates_issued_total",
			Help:      "Certificates issued with a bound serial.",
		}),
		DeliveryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "giftcert",
			Name:      "artifact_delivery_failures_total",
			Help:      "Render or send failures after a serial was committed.",
		}),
	}
}

func (m *Metrics) RecordWebhookEvent(outcome string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordIssued() {
	if m == nil {
		return
	}
	m.CertificatesIssued.Inc()
}

func (m *Metrics) RecordDeliveryFailure() {
	if m == nil {
		return
	}
	m.DeliveryFailures.Inc()
}
