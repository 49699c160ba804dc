// Package ledger provides a paper-trading book for wager tickets. Stakes and
// balances use decimal arithmetic; nothing here touches a real sportsbook.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the over/under side of a totals ticket.
type Side int

const (
	SideUnder Side = iota
	SideOver
)

func (s Side) String() string {
	if s == SideOver {
		return "OVER"
	}
	return "UNDER"
}

// TicketStatus is the grading state of a ticket.
type TicketStatus int

const (
	TicketOpen TicketStatus = iota
	TicketWon
	TicketLost
	TicketPush
	TicketVoided
)

func (s TicketStatus) String() string {
	switch s {
	case TicketOpen:
		return "OPEN"
	case TicketWon:
		return "WON"
	case TicketLost:
		return "LOST"
	case TicketPush:
		return "PUSH"
	case TicketVoided:
		return "VOIDED"
	default:
		return "UNKNOWN"
	}
}

// Ticket is a single paper wager.
type Ticket struct {
	ID              string          `json:"id"`
	GameID          string          `json:"game_id"`
	Description     string          `json:"description"`
	Side            Side            `json:"side"`
	Line            decimal.Decimal `json:"line"`
	Odds            int             `json:"odds"`
	Stake           decimal.Decimal `json:"stake"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
	Trigger         string          `json:"trigger,omitempty"`
	Status          TicketStatus    `json:"status"`
	PnL             decimal.Decimal `json:"pnl"`
	PlacedAt        time.Time       `json:"placed_at"`
	SettledAt       time.Time       `json:"settled_at,omitempty"`
}

// WagerRequest asks the book to open a ticket.
type WagerRequest struct {
	GameID      string          `json:"game_id"`
	Description string          `json:"description"`
	Side        Side            `json:"side"`
	Line        decimal.Decimal `json:"line"`
	Odds        int             `json:"odds"`
	Stake       decimal.Decimal `json:"stake"`
	Trigger     string          `json:"trigger,omitempty"`
}

// Account is the paper bankroll plus its ticket history.
type Account struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	InitialBankroll decimal.Decimal    `json:"initial_bankroll"`
	Balance         decimal.Decimal    `json:"balance"`
	OpenTickets     map[string]*Ticket `json:"open_tickets"`
	History         []Ticket           `json:"history"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Stats aggregates graded-ticket performance.
type Stats struct {
	RealizedPnL    decimal.Decimal `json:"realized_pnl"`
	TotalStaked    decimal.Decimal `json:"total_staked"`
	SettledTickets int             `json:"settled_tickets"`
	WinningTickets int             `json:"winning_tickets"`
	LosingTickets  int             `json:"losing_tickets"`
	Pushes         int             `json:"pushes"`
	WinRate        decimal.Decimal `json:"win_rate"`
	AvgWin         decimal.Decimal `json:"avg_win"`
	AvgLoss        decimal.Decimal `json:"avg_loss"`
	LargestWin     decimal.Decimal `json:"largest_win"`
	LargestLoss    decimal.Decimal `json:"largest_loss"`
	OpenTickets    int             `json:"open_tickets"`
	OpenExposure   decimal.Decimal `json:"open_exposure"`
}

// Config configures a Book.
type Config struct {
	Name            string          `json:"name"`
	InitialBankroll decimal.Decimal `json:"initial_bankroll"`
}

// DefaultConfig returns the default paper bankroll.
func DefaultConfig() *Config {
	return &Config{
		Name:            "Paper Wagering Account",
		InitialBankroll: decimal.NewFromInt(10000),
	}
}
