package feed

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/ledger"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/metrics"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/pace"
)

func newTestProcessor(t *testing.T) (*Processor, *pace.Tracker, *ledger.Book) {
	t.Helper()
	tracker := pace.NewTracker(pace.NewClassifier(nil, nil))
	book := ledger.NewBook(nil)
	return NewProcessor(tracker, book, metrics.NewEngineMetrics(), nil, nil), tracker, book
}

func snapshotMsg(gameID string, minutes float64, total int, line *float64, at time.Time) SnapshotMessage {
	return SnapshotMessage{
		GameID:           gameID,
		HomeTeam:         "Denver Nuggets",
		AwayTeam:         "Phoenix Suns",
		HomeScore:        total,
		MinutesRemaining: minutes,
		TotalLine:        line,
		CreatedAt:        at,
	}
}

func TestProcessor_HandleSnapshot(t *testing.T) {
	p, tracker, _ := newTestProcessor(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC)
	line := 200.0

	if err := p.HandleSnapshot(ctx, snapshotMsg("g1", 11, 141, &line, base)); err != nil {
		t.Fatal(err)
	}
	if err := p.HandleSnapshot(ctx, snapshotMsg("g1", 6, 164, &line, base.Add(time.Minute))); err != nil {
		t.Fatal(err)
	}

	eval, ok := tracker.LastEvaluation("g1")
	if !ok {
		t.Fatal("game must be tracked after snapshots")
	}
	if eval.Trigger != pace.TriggerUnder {
		t.Errorf("Trigger = %v, want under", eval.Trigger)
	}
}

func TestProcessor_OutOfOrderIsSwallowed(t *testing.T) {
	p, tracker, _ := newTestProcessor(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC)

	if err := p.HandleSnapshot(ctx, snapshotMsg("g1", 11, 141, nil, base)); err != nil {
		t.Fatal(err)
	}
	// Out of order stays out of the history but must not poison the stream.
	if err := p.HandleSnapshot(ctx, snapshotMsg("g1", 12, 130, nil, base.Add(-time.Minute))); err != nil {
		t.Fatalf("out-of-order snapshot must not surface an error: %v", err)
	}
	if tracker.ActiveGames() != 1 {
		t.Errorf("ActiveGames = %d, want 1", tracker.ActiveGames())
	}
}

func TestProcessor_HandleCompletion(t *testing.T) {
	p, tracker, book := newTestProcessor(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC)
	line := 200.0

	if err := p.HandleSnapshot(ctx, snapshotMsg("g1", 11, 141, &line, base)); err != nil {
		t.Fatal(err)
	}
	ticket, err := book.PlaceWager(&ledger.WagerRequest{
		GameID: "g1",
		Side:   ledger.SideUnder,
		Line:   decimal.NewFromFloat(200),
		Odds:   -110,
		Stake:  decimal.NewFromInt(110),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := p.HandleCompletion(ctx, CompletionMessage{GameID: "g1", FinalTotal: 193}); err != nil {
		t.Fatal(err)
	}

	if tracker.ActiveGames() != 0 {
		t.Errorf("ActiveGames = %d, want 0 after completion", tracker.ActiveGames())
	}
	if _, ok := book.Ticket(ticket.ID); ok {
		t.Error("ticket must be graded on completion")
	}
	// $110 at -110 under 200 with a 193 final wins $100.
	if !book.Balance().Equal(decimal.NewFromInt(10100)) {
		t.Errorf("balance = %s, want 10100", book.Balance())
	}
}

func TestProcessor_CompletionForUnknownGame(t *testing.T) {
	p, _, _ := newTestProcessor(t)
	if err := p.HandleCompletion(context.Background(), CompletionMessage{GameID: "nope", FinalTotal: 200}); err != nil {
		t.Fatalf("unknown game completion must be a no-op: %v", err)
	}
}
