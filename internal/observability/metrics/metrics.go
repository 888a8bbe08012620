package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters for the lead capture pipeline.
type LeadMetrics struct {
	submissionsTotal   *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	crmSyncTotal       *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "housewash",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total lead form submissions by outcome",
		}, []string{"status"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "housewash",
			Subsystem: "notify",
			Name:      "notifications_total",
			Help:      "Total admin notification dispatches by outcome",
		}, []string{"outcome"}),
		crmSyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "housewash",
			Subsystem: "crm",
			Name:      "sync_total",
			Help:      "Total CRM sync attempts by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.notificationsTotal, m.crmSyncTotal)
	return m
}

func (m *LeadMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
}

func (m *LeadMetrics) ObserveNotification(outcome string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveCRMSync(status string) {
	if m == nil {
		return
	}
	m.crmSyncTotal.WithLabelValues(status).Inc()
}
