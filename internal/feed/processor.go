package feed

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/ledger"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/metrics"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/pace"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/streaming"
)

// Processor routes feed messages into the tracker and the paper book,
// recording metrics and broadcasting engine events along the way.
type Processor struct {
	tracker *pace.Tracker
	book    *ledger.Book
	metrics *metrics.EngineMetrics
	hub     *streaming.Hub
	logger  *zap.Logger
}

// NewProcessor wires the engine components behind the feed.
func NewProcessor(tracker *pace.Tracker, book *ledger.Book, em *metrics.EngineMetrics, hub *streaming.Hub, logger *zap.Logger) *Processor {
	if em == nil {
		em = metrics.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		tracker: tracker,
		book:    book,
		metrics: em,
		hub:     hub,
		logger:  logger,
	}
}

// HandleSnapshot classifies a snapshot and publishes the evaluation.
func (p *Processor) HandleSnapshot(ctx context.Context, msg SnapshotMessage) error {
	snap := pace.Snapshot{
		GameID:           msg.GameID,
		HomeTeam:         msg.HomeTeam,
		AwayTeam:         msg.AwayTeam,
		HomeScore:        msg.HomeScore,
		AwayScore:        msg.AwayScore,
		Period:           msg.Period,
		Clock:            msg.Clock,
		MinutesRemaining: msg.MinutesRemaining,
		TotalLine:        msg.TotalLine,
		CreatedAt:        msg.CreatedAt,
	}

	eval, err := p.tracker.Observe(snap)
	if err != nil {
		if errors.Is(err, pace.ErrOutOfOrder) {
			p.metrics.RecordOutOfOrder()
			p.metrics.RecordSnapshot("rejected", 0)
			p.logger.Debug("snapshot rejected out of order",
				zap.String("game_id", msg.GameID),
				zap.Time("created_at", msg.CreatedAt))
			return nil
		}
		p.metrics.RecordSnapshot("error", 0)
		return err
	}

	lag := time.Since(msg.CreatedAt).Seconds()
	p.metrics.RecordSnapshot("ok", lag)
	p.metrics.UpdateTrackedGames(p.tracker.ActiveGames())
	p.metrics.RecordTrigger(string(eval.Trigger), eval.RequiredPPM, eval.Edge)
	if eval.FilterReason != "" {
		p.metrics.RecordFilterVeto(string(eval.RawTrigger))
	}

	if p.hub != nil {
		p.hub.BroadcastSnapshot(msg)
		if eval.Actionable() {
			p.hub.BroadcastTrigger(eval)
		}
	}

	if eval.Actionable() {
		p.logger.Info("trigger fired",
			zap.String("game_id", eval.GameID),
			zap.String("trigger", string(eval.Trigger)),
			zap.Float64p("required_ppm", eval.RequiredPPM),
			zap.Float64p("current_ppm", eval.CurrentPPM),
			zap.Float64p("edge", eval.Edge))
	}

	return nil
}

// HandleCompletion settles the game's open tickets and evicts its state.
func (p *Processor) HandleCompletion(ctx context.Context, msg CompletionMessage) error {
	if p.tracker.Complete(msg.GameID) {
		p.metrics.RecordGameCompleted()
		p.metrics.UpdateTrackedGames(p.tracker.ActiveGames())
	}

	var graded []*ledger.Ticket
	if p.book != nil {
		graded = p.book.SettleGame(msg.GameID, decimal.NewFromFloat(msg.FinalTotal))
		for _, ticket := range graded {
			p.metrics.RecordTicket(ticket.Side.String(), ticket.Status.String(), 0)
			p.metrics.RecordRealizedPnL(metrics.DecimalToFloat64(ticket.PnL))
			if p.hub != nil {
				p.hub.BroadcastTicket(ticket)
			}
		}
		stats := p.book.Stats()
		p.metrics.UpdateBankroll(
			metrics.DecimalToFloat64(p.book.Balance()),
			metrics.DecimalToFloat64(stats.OpenExposure))
	}

	if p.hub != nil {
		p.hub.BroadcastGameStatus(msg.GameID, "final")
	}

	p.logger.Info("game settled",
		zap.String("game_id", msg.GameID),
		zap.Float64("final_total", msg.FinalTotal),
		zap.Int("tickets_graded", len(graded)))

	return nil
}
