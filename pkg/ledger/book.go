package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientBalance is returned when a stake exceeds the bankroll.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidOdds is returned for a price outside the American convention.
	ErrInvalidOdds = errors.New("american odds must be >= +100 or <= -100")

	// ErrTicketNotFound is returned when grading an unknown or already
	// settled ticket.
	ErrTicketNotFound = errors.New("ticket not found")
)

// Book is the paper-trading engine. All mutation goes through the mutex; the
// feed consumer and the HTTP layer both call it.
type Book struct {
	config *Config

	mu      sync.RWMutex
	account *Account

	onTicket func(*Ticket)
}

// NewBook creates a book with a fresh account.
func NewBook(config *Config) *Book {
	if config == nil {
		config = DefaultConfig()
	}
	return &Book{
		config:  config,
		account: newAccount(config),
	}
}

func newAccount(config *Config) *Account {
	now := time.Now()
	return &Account{
		ID:              uuid.New().String(),
		Name:            config.Name,
		InitialBankroll: config.InitialBankroll,
		Balance:         config.InitialBankroll,
		OpenTickets:     make(map[string]*Ticket),
		History:         make([]Ticket, 0),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// OnTicket sets a callback invoked on every ticket open and settle.
func (b *Book) OnTicket(fn func(*Ticket)) {
	b.onTicket = fn
}

// PlaceWager opens a ticket, deducting the stake from the bankroll.
func (b *Book) PlaceWager(req *WagerRequest) (*Ticket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if req.Stake.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("stake must be positive, got %s", req.Stake)
	}
	if req.Odds > -100 && req.Odds < 100 {
		return nil, fmt.Errorf("odds %d: %w", req.Odds, ErrInvalidOdds)
	}
	if req.Stake.GreaterThan(b.account.Balance) {
		return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, b.account.Balance, req.Stake)
	}

	now := time.Now()
	ticket := &Ticket{
		ID:              uuid.New().String(),
		GameID:          req.GameID,
		Description:     req.Description,
		Side:            req.Side,
		Line:            req.Line,
		Odds:            req.Odds,
		Stake:           req.Stake,
		PotentialProfit: profitAt(req.Stake, req.Odds),
		Trigger:         req.Trigger,
		Status:          TicketOpen,
		PlacedAt:        now,
	}

	b.account.Balance = b.account.Balance.Sub(req.Stake)
	b.account.OpenTickets[ticket.ID] = ticket
	b.account.UpdatedAt = now

	b.notify(ticket)
	return ticket, nil
}

// profitAt is the win profit for a stake at American odds, exact in decimal.
func profitAt(stake decimal.Decimal, odds int) decimal.Decimal {
	if odds > 0 {
		return stake.Mul(decimal.NewFromInt(int64(odds))).Div(decimal.NewFromInt(100))
	}
	return stake.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(-odds)))
}

// Settle grades a single open ticket.
func (b *Book) Settle(ticketID string, won bool) (*Ticket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ticket, ok := b.account.OpenTickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ticketID, ErrTicketNotFound)
	}

	status := TicketLost
	if won {
		status = TicketWon
	}
	b.settleLocked(ticket, status)
	return ticket, nil
}

// Void refunds an open ticket without grading it.
func (b *Book) Void(ticketID string) (*Ticket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ticket, ok := b.account.OpenTickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ticketID, ErrTicketNotFound)
	}
	b.settleLocked(ticket, TicketVoided)
	return ticket, nil
}

// SettleGame grades every open ticket on a game against its final total.
// Unders win below the line, overs above; a landed line is a push. Returns
// the graded tickets.
func (b *Book) SettleGame(gameID string, finalTotal decimal.Decimal) []*Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()

	var graded []*Ticket
	for _, ticket := range b.account.OpenTickets {
		if ticket.GameID != gameID {
			continue
		}
		var status TicketStatus
		switch {
		case finalTotal.Equal(ticket.Line):
			status = TicketPush
		case ticket.Side == SideUnder && finalTotal.LessThan(ticket.Line):
			status = TicketWon
		case ticket.Side == SideOver && finalTotal.GreaterThan(ticket.Line):
			status = TicketWon
		default:
			status = TicketLost
		}
		b.settleLocked(ticket, status)
		graded = append(graded, ticket)
	}
	return graded
}

// settleLocked moves an open ticket into history and adjusts the bankroll.
// Caller holds the mutex and tickets must come from OpenTickets.
func (b *Book) settleLocked(ticket *Ticket, status TicketStatus) {
	now := time.Now()
	ticket.Status = status
	ticket.SettledAt = now

	switch status {
	case TicketWon:
		ticket.PnL = ticket.PotentialProfit
		b.account.Balance = b.account.Balance.Add(ticket.Stake).Add(ticket.PotentialProfit)
	case TicketLost:
		ticket.PnL = ticket.Stake.Neg()
	case TicketPush, TicketVoided:
		ticket.PnL = decimal.Zero
		b.account.Balance = b.account.Balance.Add(ticket.Stake)
	}

	delete(b.account.OpenTickets, ticket.ID)
	b.account.History = append(b.account.History, *ticket)
	b.account.UpdatedAt = now

	b.notify(ticket)
}

func (b *Book) notify(ticket *Ticket) {
	if b.onTicket != nil {
		t := *ticket
		b.onTicket(&t)
	}
}

// Balance returns the current bankroll.
func (b *Book) Balance() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.account.Balance
}

// Ticket returns an open ticket by ID.
func (b *Book) Ticket(ticketID string) (*Ticket, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ticket, ok := b.account.OpenTickets[ticketID]
	if !ok {
		return nil, false
	}
	t := *ticket
	return &t, true
}

// OpenTickets returns copies of all open tickets.
func (b *Book) OpenTickets() []*Ticket {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*Ticket, 0, len(b.account.OpenTickets))
	for _, ticket := range b.account.OpenTickets {
		t := *ticket
		out = append(out, &t)
	}
	return out
}

// Snapshot returns a copy of the account with history included.
func (b *Book) Snapshot() *Account {
	b.mu.RLock()
	defer b.mu.RUnlock()

	acc := *b.account
	acc.OpenTickets = make(map[string]*Ticket, len(b.account.OpenTickets))
	for id, ticket := range b.account.OpenTickets {
		t := *ticket
		acc.OpenTickets[id] = &t
	}
	acc.History = append([]Ticket(nil), b.account.History...)
	return &acc
}

// Stats aggregates graded-ticket performance.
func (b *Book) Stats() *Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := &Stats{OpenTickets: len(b.account.OpenTickets)}

	var totalWins, totalLosses decimal.Decimal
	for _, ticket := range b.account.History {
		if ticket.Status == TicketVoided {
			continue
		}
		stats.SettledTickets++
		stats.TotalStaked = stats.TotalStaked.Add(ticket.Stake)
		stats.RealizedPnL = stats.RealizedPnL.Add(ticket.PnL)

		switch ticket.Status {
		case TicketWon:
			stats.WinningTickets++
			totalWins = totalWins.Add(ticket.PnL)
			if ticket.PnL.GreaterThan(stats.LargestWin) {
				stats.LargestWin = ticket.PnL
			}
		case TicketLost:
			stats.LosingTickets++
			totalLosses = totalLosses.Add(ticket.PnL.Abs())
			if ticket.PnL.Abs().GreaterThan(stats.LargestLoss) {
				stats.LargestLoss = ticket.PnL.Abs()
			}
		case TicketPush:
			stats.Pushes++
		}
	}

	for _, ticket := range b.account.OpenTickets {
		stats.OpenExposure = stats.OpenExposure.Add(ticket.Stake)
	}

	decided := stats.WinningTickets + stats.LosingTickets
	if decided > 0 {
		stats.WinRate = decimal.NewFromInt(int64(stats.WinningTickets)).Div(decimal.NewFromInt(int64(decided)))
	}
	if stats.WinningTickets > 0 {
		stats.AvgWin = totalWins.Div(decimal.NewFromInt(int64(stats.WinningTickets)))
	}
	if stats.LosingTickets > 0 {
		stats.AvgLoss = totalLosses.Div(decimal.NewFromInt(int64(stats.LosingTickets)))
	}

	return stats
}

// Reset restores the initial bankroll and clears all tickets.
func (b *Book) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.account = newAccount(b.config)
}
