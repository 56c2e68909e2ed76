// Package metrics exposes dashboard figures as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/starford/digimark/internal/aggregate"
	"github.com/starford/digimark/internal/models"
	"github.com/starford/digimark/internal/schema"
)

const namespace = "digimark"

// Collector holds every dashboard gauge on a private registry.
type Collector struct {
	registry *prometheus.Registry

	records *prometheus.GaugeVec
	spend   *prometheus.GaugeVec
	revenue *prometheus.GaugeVec
	leads   *prometheus.GaugeVec
	reach   *prometheus.GaugeVec
	tasks   *prometheus.GaugeVec
	logins  *prometheus.CounterVec
}

// New registers the collectors, plus Go runtime and process collectors.
func New() *Collector {
	byChannel := []string{"category", "channel"}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "records",
			Help: "Marketing records per channel.",
		}, byChannel),
		spend: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "spend_total",
			Help: "Spend (or budget when spend is absent) per channel.",
		}, byChannel),
		revenue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "revenue_total",
			Help: "Revenue per channel.",
		}, byChannel),
		leads: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "leads_total",
			Help: "Leads per channel.",
		}, byChannel),
		reach: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "reach_total",
			Help: "Reach per channel.",
		}, byChannel),
		tasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "tasks",
			Help: "Tasks per board status.",
		}, []string{"status"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "login_attempts_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
	}
	c.registry.MustRegister(
		c.records, c.spend, c.revenue, c.leads, c.reach, c.tasks, c.logins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Observe replaces every gauge with figures computed from the collections.
// Channels and statuses without entries report zero.
func (c *Collector) Observe(records []models.MarketingRecord, tasks []models.Task) {
	for _, cat := range schema.Categories() {
		for _, ch := range schema.ChannelsFor(cat) {
			subset := aggregate.Apply(records, aggregate.Filter{Category: cat, Channel: ch})
			t := aggregate.Summarize(subset)
			labels := prometheus.Labels{"category": string(cat), "channel": string(ch)}
			c.records.With(labels).Set(float64(len(subset)))
			c.spend.With(labels).Set(t.Spend)
			c.revenue.With(labels).Set(t.Revenue)
			c.leads.With(labels).Set(t.Leads)
			c.reach.With(labels).Set(t.Reach)
		}
	}

	counts := make(map[models.TaskStatus]int, 3)
	for _, t := range tasks {
		counts[t.Status]++
	}
	for _, st := range models.TaskStatuses() {
		c.tasks.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}

// LoginAttempt counts one login by result.
func (c *Collector) LoginAttempt(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
