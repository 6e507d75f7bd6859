package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "tms_ui"

// metrics holds the UI server's Prometheus collectors.
type metrics struct {
	pagesRendered *prometheus.CounterVec
	themeToggles  *prometheus.CounterVec
	notices       *prometheus.CounterVec
	prerenderErrs prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		pagesRendered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pages_rendered_total",
			Help:      "Pages prerendered, by resolved theme and auth state.",
		}, []string{"theme", "auth"}),
		themeToggles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "theme_toggles_total",
			Help:      "Theme toggles submitted without scripts, by the theme switched to.",
		}, []string{"theme"}),
		notices: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notices_rendered_total",
			Help:      "Flash notifications rendered into pages, by kind.",
		}, []string{"kind"}),
		prerenderErrs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "prerender_errors_total",
			Help:      "Page prerenders that failed.",
		}),
	}
}

func authLabel(signedIn bool) string {
	if signedIn {
		return "signed_in"
	}
	return "guest"
}
