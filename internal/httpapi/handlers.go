package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/bankroll"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/hedge"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/ledger"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/metrics"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/pace"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/wager"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "liveunderd",
	})
}

// --- Analytics ---

type parlayRequest struct {
	Wager float64           `json:"wager"`
	Legs  []wager.ParlayLeg `json:"legs"`
}

func (s *Server) handleParlay(w http.ResponseWriter, r *http.Request) {
	var req parlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordAnalyticsRequest("parlay", "bad_request")
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	result, err := wager.EvaluateParlay(req.Legs, req.Wager)
	if err != nil {
		s.metrics.RecordAnalyticsRequest("parlay", "bad_request")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.metrics.RecordAnalyticsRequest("parlay", "ok")
	respondJSON(w, http.StatusOK, result)
}

type kellyRequest struct {
	Bankroll        float64 `json:"bankroll"`
	Odds            int     `json:"odds"`
	TrueProbability float64 `json:"true_probability"`
	Fraction        float64 `json:"fraction,omitempty"`
}

type kellyResponse struct {
	Stake       float64 `json:"stake"`
	Fraction    float64 `json:"fraction"`
	BankrollPct float64 `json:"bankroll_pct"`
}

func (s *Server) handleKelly(w http.ResponseWriter, r *http.Request) {
	var req kellyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordAnalyticsRequest("kelly", "bad_request")
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	fraction := req.Fraction
	if fraction <= 0 {
		fraction = s.kellyFraction
	}
	if fraction <= 0 {
		fraction = bankroll.DefaultKellyFraction
	}

	stake, err := bankroll.KellyBetSize(req.Bankroll, req.Odds, req.TrueProbability, fraction)
	if err != nil {
		s.metrics.RecordAnalyticsRequest("kelly", "bad_request")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.metrics.RecordAnalyticsRequest("kelly", "ok")
	respondJSON(w, http.StatusOK, kellyResponse{
		Stake:       stake,
		Fraction:    fraction,
		BankrollPct: stake / req.Bankroll,
	})
}

type hedgeRequest struct {
	OriginalWager float64  `json:"original_wager"`
	OriginalOdds  int      `json:"original_odds"`
	HedgeOdds     int      `json:"hedge_odds"`
	TargetProfit  *float64 `json:"target_profit,omitempty"`
}

func (s *Server) handleHedge(w http.ResponseWriter, r *http.Request) {
	var req hedgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordAnalyticsRequest("hedge", "bad_request")
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	result, err := hedge.Calculate(req.OriginalWager, req.OriginalOdds, req.HedgeOdds, req.TargetProfit)
	if err != nil {
		s.metrics.RecordAnalyticsRequest("hedge", "bad_request")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.metrics.RecordAnalyticsRequest("hedge", "ok")
	respondJSON(w, http.StatusOK, result)
}

// --- Engine state ---

func (s *Server) handleTriggers(w http.ResponseWriter, r *http.Request) {
	evaluations := []pace.Evaluation{}
	if s.tracker != nil {
		evaluations = s.tracker.Evaluations()
	}

	actionableOnly := r.URL.Query().Get("actionable") == "true"
	if actionableOnly {
		filtered := evaluations[:0]
		for _, eval := range evaluations {
			if eval.Actionable() {
				filtered = append(filtered, eval)
			}
		}
		evaluations = filtered
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"triggers": evaluations,
		"count":    len(evaluations),
	})
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teams": s.filter.Entries(),
	})
}

// --- Paper book ---

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	if s.book == nil {
		respondError(w, http.StatusServiceUnavailable, "paper book not configured")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"account": s.book.Snapshot(),
		"stats":   s.book.Stats(),
	})
}

type placeWagerRequest struct {
	GameID      string  `json:"game_id"`
	Description string  `json:"description"`
	Side        string  `json:"side"`
	Line        float64 `json:"line"`
	Odds        int     `json:"odds"`
	Stake       float64 `json:"stake"`
	Trigger     string  `json:"trigger,omitempty"`
}

func (s *Server) handlePlaceWager(w http.ResponseWriter, r *http.Request) {
	if s.book == nil {
		respondError(w, http.StatusServiceUnavailable, "paper book not configured")
		return
	}

	var req placeWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	var side ledger.Side
	switch req.Side {
	case "under", "UNDER":
		side = ledger.SideUnder
	case "over", "OVER":
		side = ledger.SideOver
	default:
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown side %q", req.Side))
		return
	}

	ticket, err := s.book.PlaceWager(&ledger.WagerRequest{
		GameID:      req.GameID,
		Description: req.Description,
		Side:        side,
		Line:        decimal.NewFromFloat(req.Line),
		Odds:        req.Odds,
		Stake:       decimal.NewFromFloat(req.Stake),
		Trigger:     req.Trigger,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			status = http.StatusUnprocessableEntity
		}
		respondError(w, status, err.Error())
		return
	}

	s.metrics.RecordTicket(ticket.Side.String(), ticket.Status.String(), metrics.DecimalToFloat64(ticket.Stake))
	if s.hub != nil {
		s.hub.BroadcastTicket(ticket)
	}
	s.logger.Info("ticket opened",
		zap.String("ticket_id", ticket.ID),
		zap.String("game_id", ticket.GameID),
		zap.String("side", ticket.Side.String()),
		zap.Int("odds", ticket.Odds))

	respondJSON(w, http.StatusCreated, ticket)
}

type settleWagerRequest struct {
	Won bool `json:"won"`
}

func (s *Server) handleSettleWager(w http.ResponseWriter, r *http.Request) {
	if s.book == nil {
		respondError(w, http.StatusServiceUnavailable, "paper book not configured")
		return
	}

	ticketID := chi.URLParam(r, "ticketID")

	var req settleWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	ticket, err := s.book.Settle(ticketID, req.Won)
	if err != nil {
		if errors.Is(err, ledger.ErrTicketNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.metrics.RecordTicket(ticket.Side.String(), ticket.Status.String(), 0)
	s.metrics.RecordRealizedPnL(metrics.DecimalToFloat64(ticket.PnL))
	if s.hub != nil {
		s.hub.BroadcastTicket(ticket)
	}

	respondJSON(w, http.StatusOK, ticket)
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
