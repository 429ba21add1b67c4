package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts provider activity.
type Metrics struct {
	devices         prometheus.Gauge
	open            *prometheus.GaugeVec
	commands        *prometheus.CounterVec
	announcements   *prometheus.CounterVec
	creationsFailed prometheus.Counter
	settingsApplied prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		devices: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shades_devices",
			Help: "Shade devices held by the provider",
		}),
		open: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "shades_entry_open",
			Help: "Entry state per shade (1=open, 0=closed)",
		}, []string{"native_id"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shades_commands_total",
			Help: "Open and close commands handled",
		}, []string{"command"}),
		announcements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shades_announcements_total",
			Help: "Discovery announcements sent to the host",
		}, []string{"result"}),
		creationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shades_creations_rejected_total",
			Help: "Device creations rejected for missing settings",
		}),
		settingsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shades_settings_applied_total",
			Help: "Debounced settings changes that settled",
		}),
	}
}

// Collectors returns every collector for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.devices,
		m.open,
		m.commands,
		m.announcements,
		m.creationsFailed,
		m.settingsApplied,
	}
}

// Registry builds a private registry holding the provider collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	for _, c := range m.Collectors() {
		registry.MustRegister(c)
	}
	return registry
}

func (m *Metrics) entryState(nativeID string, open bool) {
	v := 0.0
	if open {
		v = 1
	}
	m.open.WithLabelValues(nativeID).Set(v)
}
