package metrics

import (
	"context"

	"handyhub-session-svc/src/internal/models"
	"handyhub-session-svc/src/internal/session"

	"github.com/prometheus/client_golang/prometheus"
)

var _ session.Notifier = (*Collector)(nil)

// Collector turns session events into prometheus series.
type Collector struct {
	events    *prometheus.CounterVec
	loggedIn  prometheus.Gauge
	expiresAt prometheus.Gauge
}

func New(namespace string, reg prometheus.Registerer) *Collector {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Session lifecycle events by action.",
		}, []string{"action"}),
		loggedIn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "logged_in",
			Help:      "1 while a session is active.",
		}),
		expiresAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expires_at_seconds",
			Help:      "Unix time the active session expires, 0 when logged out.",
		}),
	}

	reg.MustRegister(c.events, c.loggedIn, c.expiresAt)
	return c
}

func (c *Collector) Notify(_ context.Context, event session.Event) {
	c.events.WithLabelValues(event.Action).Inc()

	switch event.Action {
	case models.ActionLogin, models.ActionRestored:
		c.loggedIn.Set(1)
		c.expiresAt.Set(float64(event.ExpiresAt.Unix()))
	case models.ActionLogout, models.ActionExpired:
		c.loggedIn.Set(0)
		c.expiresAt.Set(0)
	}
}
