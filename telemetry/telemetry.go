/*------------------------------------------------------------------------------
* telemetry.go : Prometheus export of fusion/EKF/DR/geofence tick state
*
* grounded on gnssgo/app/plot/plot.go, which derives prometheus.Gauge
* values from parsed solution streams and pushes them to a push gateway.
* This package instead registers gauges/counters on a private registry and
* exposes it through Registry(), which the embedder serves as a pull-based
* /metrics endpoint via promhttp.HandlerFor, since the
* embedder here is a long-running onboard process rather than a one-shot
* export CLI. The core package (vpscore) never imports this package or
* knows it exists — Observe is called once per tick by the embedder.
*-----------------------------------------------------------------------------*/
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	vps "github.com/DaBubi/drone-visual-positioning"
)

// Exporter holds the gauges/counters for one fusion engine's telemetry.
type Exporter struct {
	registry *prometheus.Registry

	gateDistance       prometheus.Gauge
	acceptedTotal      prometheus.Counter
	rejectedTotal      prometheus.Counter
	hdop               prometheus.Gauge
	fixQuality         prometheus.Gauge
	drActive           prometheus.Gauge
	geofenceViolations prometheus.Counter
	sourceGauge        *prometheus.GaugeVec
}

// NewExporter registers a fresh set of metrics on a private registry.
func NewExporter() *Exporter {
	reg := prometheus.NewRegistry()

	e := &Exporter{
		registry: reg,
		gateDistance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vps_ekf_gate_distance",
			Help: "Last Mahalanobis gate distance computed by the EKF.",
		}),
		acceptedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vps_ekf_accepted_total",
			Help: "Number of EKF updates accepted.",
		}),
		rejectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vps_ekf_rejected_total",
			Help: "Number of EKF updates rejected (stale, degenerate, or gated).",
		}),
		hdop: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vps_fusion_hdop",
			Help: "HDOP of the current fusion output.",
		}),
		fixQuality: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vps_fusion_fix_quality",
			Help: "FixQuality of the current fusion output (0=none,1=visual,2=ekf,3=dr).",
		}),
		drActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vps_dr_active",
			Help: "1 when the current tick's position came from dead reckoning.",
		}),
		geofenceViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vps_geofence_violations_total",
			Help: "Number of ticks where a candidate position failed the geofence check.",
		}),
		sourceGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vps_fusion_source",
			Help: "1 for the active fix source this tick, 0 otherwise.",
		}, []string{"source"}),
	}

	reg.MustRegister(
		e.gateDistance, e.acceptedTotal, e.rejectedTotal, e.hdop,
		e.fixQuality, e.drActive, e.geofenceViolations, e.sourceGauge,
	)
	return e
}

// Registry returns the private registry, for wiring into promhttp.HandlerFor.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

var allSources = []vps.FixSource{
	vps.SourceNone, vps.SourceVisual, vps.SourceEKFPredict, vps.SourceDeadReckoning,
}

// Observe records one fusion tick's outcome. It is the only write path
// into this package's metrics and must be called at most once per tick,
// by the embedder's own loop — never by vpscore internals.
func (e *Exporter) Observe(out vps.FusionOutput, ekfGate float64, ekfUpdateCalled bool) {
	e.gateDistance.Set(ekfGate)
	if ekfUpdateCalled {
		if out.EKFAccepted {
			e.acceptedTotal.Inc()
		} else {
			e.rejectedTotal.Inc()
		}
	}

	e.hdop.Set(out.HDOP)
	e.fixQuality.Set(float64(out.FixQuality))

	drActive := 0.0
	if out.Source == vps.SourceDeadReckoning {
		drActive = 1.0
	}
	e.drActive.Set(drActive)

	if !out.GeofenceOK {
		e.geofenceViolations.Inc()
	}

	for _, src := range allSources {
		v := 0.0
		if out.Source == src {
			v = 1.0
		}
		e.sourceGauge.WithLabelValues(src.String()).Set(v)
	}
}
