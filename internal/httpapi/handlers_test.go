package httpapi

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/ledger"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/metrics"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/pace"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/wager"
)

const tolerance = 1e-4

func newTestServer(t *testing.T) (*Server, *pace.Tracker, *ledger.Book) {
	t.Helper()
	tracker := pace.NewTracker(pace.NewClassifier(nil, nil))
	book := ledger.NewBook(nil)
	srv := NewServer(Options{
		Tracker: tracker,
		Book:    book,
		Metrics: metrics.NewEngineMetrics(),
	})
	return srv, tracker, book
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("{}")
	} else {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rec, req)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &fields); err != nil {
		t.Fatalf("response is not a JSON object: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, fields
}

func floatField(t *testing.T, fields map[string]json.RawMessage, key string) float64 {
	t.Helper()
	raw, ok := fields[key]
	if !ok {
		t.Fatalf("response missing field %q", key)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		t.Fatalf("field %q is not a number: %v", key, err)
	}
	return f
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("body = %s, want health report", rec.Body.String())
	}
}

func TestParlayEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec, fields := doJSON(t, srv, http.MethodPost, "/v1/parlay",
		`{"wager":100,"legs":[{"odds":-110,"description":"leg1"},{"odds":-110,"description":"leg2"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	dec := floatField(t, fields, "combined_decimal_odds")
	if math.Abs(dec-3.6446) > 1e-3 {
		t.Errorf("combined_decimal_odds = %v, want ~3.6446", dec)
	}
	american := floatField(t, fields, "combined_american_odds")
	if american < 264 || american > 265 {
		t.Errorf("combined_american_odds = %v, want in [264, 265]", american)
	}
	if _, ok := fields["ev"]; ok {
		t.Error("ev must be omitted without true probabilities")
	}
}

func TestParlayEndpointRejectsBadLeg(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec, _ := doJSON(t, srv, http.MethodPost, "/v1/parlay",
		`{"wager":100,"legs":[{"odds":0}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestKellyEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// +100 at p=0.55: full Kelly 10%, quarter Kelly 2.5% of 1000.
	rec, fields := doJSON(t, srv, http.MethodPost, "/v1/kelly",
		`{"bankroll":1000,"odds":100,"true_probability":0.55}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	stake := floatField(t, fields, "stake")
	if math.Abs(stake-25.0) > tolerance {
		t.Errorf("stake = %v, want 25.0", stake)
	}
	if f := floatField(t, fields, "fraction"); f != 0.25 {
		t.Errorf("fraction = %v, want default 0.25", f)
	}
}

func TestKellyEndpointRejectsBadProbability(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec, _ := doJSON(t, srv, http.MethodPost, "/v1/kelly",
		`{"bankroll":1000,"odds":100,"true_probability":1.2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHedgeEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec, fields := doJSON(t, srv, http.MethodPost, "/v1/hedge",
		`{"original_wager":100,"original_odds":150,"hedge_odds":-130}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if h := floatField(t, fields, "hedge_wager"); math.Abs(h-141.3043) > 1e-3 {
		t.Errorf("hedge_wager = %v, want ~141.3043", h)
	}
	if g := floatField(t, fields, "guaranteed_profit"); math.Abs(g-8.6957) > 1e-3 {
		t.Errorf("guaranteed_profit = %v, want ~8.6957", g)
	}
}

func TestTriggersEndpoint(t *testing.T) {
	srv, tracker, _ := newTestServer(t)
	base := time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC)
	line := 200.0

	for i, snap := range []pace.Snapshot{
		{GameID: "g1", MinutesRemaining: 11, HomeScore: 141, TotalLine: &line, CreatedAt: base},
		{GameID: "g1", MinutesRemaining: 6, HomeScore: 164, TotalLine: &line, CreatedAt: base.Add(time.Minute)},
		{GameID: "g2", MinutesRemaining: 20, HomeScore: 80, CreatedAt: base},
	} {
		if _, err := tracker.Observe(snap); err != nil {
			t.Fatalf("snapshot %d: %v", i, err)
		}
	}

	rec, fields := doJSON(t, srv, http.MethodGet, "/v1/triggers", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if c := floatField(t, fields, "count"); c != 2 {
		t.Errorf("count = %v, want 2 tracked games", c)
	}

	rec, fields = doJSON(t, srv, http.MethodGet, "/v1/triggers?actionable=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if c := floatField(t, fields, "count"); c != 1 {
		t.Errorf("actionable count = %v, want 1", c)
	}
	var triggers []pace.Evaluation
	if err := json.Unmarshal(fields["triggers"], &triggers); err != nil {
		t.Fatal(err)
	}
	if triggers[0].GameID != "g1" || triggers[0].Trigger != pace.TriggerUnder {
		t.Errorf("trigger = %+v, want g1 under", triggers[0])
	}
}

func TestTeamsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec, fields := doJSON(t, srv, http.MethodGet, "/v1/teams", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var teams []json.RawMessage
	if err := json.Unmarshal(fields["teams"], &teams); err != nil {
		t.Fatal(err)
	}
	if len(teams) == 0 {
		t.Error("curated team table must not be empty")
	}
}

func TestWagerLifecycle(t *testing.T) {
	srv, _, book := newTestServer(t)

	rec, fields := doJSON(t, srv, http.MethodPost, "/v1/wagers",
		`{"game_id":"g1","side":"under","line":215.5,"odds":-110,"stake":110}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("place status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var ticketID string
	if err := json.Unmarshal(fields["id"], &ticketID); err != nil {
		t.Fatal(err)
	}

	rec, fields = doJSON(t, srv, http.MethodPost, "/v1/wagers/"+ticketID+"/settle", `{"won":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("settle status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var pnl string
	if err := json.Unmarshal(fields["pnl"], &pnl); err != nil {
		t.Fatalf("pnl field: %v", err)
	}
	if pnl != "100" {
		t.Errorf("pnl = %s, want 100", pnl)
	}
	if book.Balance().String() != "10100" {
		t.Errorf("balance = %s, want 10100", book.Balance())
	}

	rec, _ = doJSON(t, srv, http.MethodPost, "/v1/wagers/"+ticketID+"/settle", `{"won":true}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double settle status = %d, want 404", rec.Code)
	}
}

func TestWagerValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec, _ := doJSON(t, srv, http.MethodPost, "/v1/wagers",
		`{"game_id":"g1","side":"sideways","line":215.5,"odds":-110,"stake":110}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown side status = %d, want 400", rec.Code)
	}

	rec, _ = doJSON(t, srv, http.MethodPost, "/v1/wagers",
		`{"game_id":"g1","side":"under","line":215.5,"odds":-110,"stake":99999}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("oversized stake status = %d, want 422", rec.Code)
	}
}

func TestAccountEndpoint(t *testing.T) {
	srv, _, book := newTestServer(t)
	if _, err := book.PlaceWager(&ledger.WagerRequest{
		GameID: "g1", Side: ledger.SideUnder, Odds: -110,
		Line: decimal.NewFromFloat(215.5), Stake: decimal.NewFromInt(110),
	}); err != nil {
		t.Fatal(err)
	}

	rec, fields := doJSON(t, srv, http.MethodGet, "/v1/account", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, ok := fields["account"]; !ok {
		t.Error("response missing account")
	}
	if _, ok := fields["stats"]; !ok {
		t.Error("response missing stats")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

// ParlayLeg round-trips through the request body; keep the wire name pinned.
func TestParlayLegWireFormat(t *testing.T) {
	var leg wager.ParlayLeg
	if err := json.Unmarshal([]byte(`{"odds":-110,"true_probability":0.55}`), &leg); err != nil {
		t.Fatal(err)
	}
	if leg.Odds != -110 || leg.TrueProbability == nil || *leg.TrueProbability != 0.55 {
		t.Errorf("decoded leg = %+v", leg)
	}
}
