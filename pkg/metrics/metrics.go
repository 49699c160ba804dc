// Package metrics provides Prometheus metrics for the wagering engine.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// EngineMetrics collects and exposes engine Prometheus metrics.
type EngineMetrics struct {
	registry *prometheus.Registry

	// Feed metrics
	SnapshotsTotal  *prometheus.CounterVec
	SnapshotLag     *prometheus.HistogramVec
	OutOfOrderTotal *prometheus.CounterVec
	TrackedGames    *prometheus.GaugeVec
	GamesCompleted  *prometheus.CounterVec

	// Trigger metrics
	TriggersTotal  *prometheus.CounterVec
	FilterVetoes   *prometheus.CounterVec
	PaceEdge       *prometheus.HistogramVec
	RequiredPace   *prometheus.HistogramVec
	FoulGameActive *prometheus.GaugeVec

	// Ticket metrics
	TicketsTotal *prometheus.CounterVec
	TicketStake  *prometheus.HistogramVec
	RealizedPnL  *prometheus.GaugeVec
	Bankroll     *prometheus.GaugeVec
	OpenExposure *prometheus.GaugeVec

	// Analytics API metrics
	AnalyticsRequests *prometheus.CounterVec
}

// NewEngineMetrics creates a new engine metrics collector.
func NewEngineMetrics() *EngineMetrics {
	registry := prometheus.NewRegistry()

	em := &EngineMetrics{
		registry: registry,

		SnapshotsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liveunder_snapshots_total",
				Help: "Total number of game snapshots processed",
			},
			[]string{"status"},
		),
		SnapshotLag: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "liveunder_snapshot_lag_seconds",
				Help:    "Delay between snapshot creation and processing",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~100s
			},
			[]string{},
		),
		OutOfOrderTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liveunder_out_of_order_total",
				Help: "Snapshots rejected for arriving out of order",
			},
			[]string{},
		),
		TrackedGames: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "liveunder_tracked_games",
				Help: "Number of games currently tracked",
			},
			[]string{},
		),
		GamesCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liveunder_games_completed_total",
				Help: "Games evicted after completion",
			},
			[]string{},
		),

		TriggersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liveunder_triggers_total",
				Help: "Trigger classifications by type",
			},
			[]string{"trigger"},
		),
		FilterVetoes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liveunder_filter_vetoes_total",
				Help: "Triggers suppressed by the team direction filter",
			},
			[]string{"direction"},
		),
		PaceEdge: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "liveunder_pace_edge_ppm",
				Help:    "Required minus current pace in points per minute",
				Buckets: prometheus.LinearBuckets(-3, 0.5, 13), // -3 to +3
			},
			[]string{},
		),
		RequiredPace: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "liveunder_required_pace_ppm",
				Help:    "Pace required to land on the posted total",
				Buckets: prometheus.LinearBuckets(2, 0.5, 13), // 2 to 8
			},
			[]string{},
		),
		FoulGameActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "liveunder_foul_game_active",
				Help: "Games inside the foul-game adjustment window",
			},
			[]string{},
		),

		TicketsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liveunder_tickets_total",
				Help: "Paper tickets by side and status",
			},
			[]string{"side", "status"},
		),
		TicketStake: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "liveunder_ticket_stake_usd",
				Help:    "Ticket stake in USD",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"side"},
		),
		RealizedPnL: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "liveunder_realized_pnl_usd",
				Help: "Cumulative realized P&L in USD (can be negative)",
			},
			[]string{},
		),
		Bankroll: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "liveunder_bankroll_usd",
				Help: "Current paper bankroll in USD",
			},
			[]string{},
		),
		OpenExposure: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "liveunder_open_exposure_usd",
				Help: "Stake tied up in open tickets",
			},
			[]string{},
		),

		AnalyticsRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liveunder_analytics_requests_total",
				Help: "Analytics endpoint requests",
			},
			[]string{"endpoint", "status"},
		),
	}

	em.registerAll()
	return em
}

func (em *EngineMetrics) registerAll() {
	em.registry.MustRegister(
		em.SnapshotsTotal,
		em.SnapshotLag,
		em.OutOfOrderTotal,
		em.TrackedGames,
		em.GamesCompleted,
		em.TriggersTotal,
		em.FilterVetoes,
		em.PaceEdge,
		em.RequiredPace,
		em.FoulGameActive,
		em.TicketsTotal,
		em.TicketStake,
		em.RealizedPnL,
		em.Bankroll,
		em.OpenExposure,
		em.AnalyticsRequests,
	)
}

// Registry returns the prometheus registry.
func (em *EngineMetrics) Registry() *prometheus.Registry {
	return em.registry
}

// RecordSnapshot records a processed or rejected snapshot.
func (em *EngineMetrics) RecordSnapshot(status string, lagSec float64) {
	em.SnapshotsTotal.WithLabelValues(status).Inc()
	if lagSec > 0 {
		em.SnapshotLag.WithLabelValues().Observe(lagSec)
	}
}

// RecordOutOfOrder records a rejected out-of-order snapshot.
func (em *EngineMetrics) RecordOutOfOrder() {
	em.OutOfOrderTotal.WithLabelValues().Inc()
}

// UpdateTrackedGames updates the tracked game count.
func (em *EngineMetrics) UpdateTrackedGames(count int) {
	em.TrackedGames.WithLabelValues().Set(float64(count))
}

// RecordGameCompleted records an eviction.
func (em *EngineMetrics) RecordGameCompleted() {
	em.GamesCompleted.WithLabelValues().Inc()
}

// RecordTrigger records a classification and its pace readings.
func (em *EngineMetrics) RecordTrigger(trigger string, requiredPPM, edgePPM *float64) {
	em.TriggersTotal.WithLabelValues(trigger).Inc()
	if requiredPPM != nil {
		em.RequiredPace.WithLabelValues().Observe(*requiredPPM)
	}
	if edgePPM != nil {
		em.PaceEdge.WithLabelValues().Observe(*edgePPM)
	}
}

// RecordFilterVeto records a suppressed trigger.
func (em *EngineMetrics) RecordFilterVeto(direction string) {
	em.FilterVetoes.WithLabelValues(direction).Inc()
}

// RecordTicket records a ticket event.
func (em *EngineMetrics) RecordTicket(side, status string, stakeUSD float64) {
	em.TicketsTotal.WithLabelValues(side, status).Inc()
	if stakeUSD > 0 {
		em.TicketStake.WithLabelValues(side).Observe(stakeUSD)
	}
}

// RecordRealizedPnL records graded-ticket P&L.
func (em *EngineMetrics) RecordRealizedPnL(pnlUSD float64) {
	em.RealizedPnL.WithLabelValues().Add(pnlUSD)
}

// UpdateBankroll updates bankroll and exposure gauges.
func (em *EngineMetrics) UpdateBankroll(balanceUSD, exposureUSD float64) {
	em.Bankroll.WithLabelValues().Set(balanceUSD)
	em.OpenExposure.WithLabelValues().Set(exposureUSD)
}

// RecordAnalyticsRequest records an analytics endpoint hit.
func (em *EngineMetrics) RecordAnalyticsRequest(endpoint, status string) {
	em.AnalyticsRequests.WithLabelValues(endpoint, status).Inc()
}

// DecimalToFloat64 safely converts decimal.Decimal to float64 for metrics.
func DecimalToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Global instance for convenience
var defaultMetrics *EngineMetrics
var once sync.Once

// Default returns the default global metrics instance.
func Default() *EngineMetrics {
	once.Do(func() {
		defaultMetrics = NewEngineMetrics()
	})
	return defaultMetrics
}
