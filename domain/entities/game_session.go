package entities

import (
	"fmt"
	"time"
)

// GameType identifies the game a session belongs to
type GameType string

const (
	GameTypeCryptoRoulette GameType = "crypto_roulette"
)

// SessionStatus represents the lifecycle state of a game session
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusCompleted SessionStatus = "COMPLETED"
)

// ParseSessionStatus validates a status read from storage
func ParseSessionStatus(s string) (SessionStatus, error) {
	switch SessionStatus(s) {
	case SessionStatusActive, SessionStatusCompleted:
		return SessionStatus(s), nil
	}
	return "", fmt.Errorf("unknown session status %q", s)
}

// GameSession is a single provably-fair roulette round
type GameSession struct {
	ID              int64         `db:"id"`
	UserID          int64         `db:"user_id"`
	GameType        GameType      `db:"game_type"`
	ServerSeed      string        `db:"server_seed"`
	ServerSeedHash  string        `db:"server_seed_hash"`
	ClientSeed      string        `db:"client_seed"`
	Nonce           int64         `db:"nonce"`
	Status          SessionStatus `db:"status"`
	WinningNumber   *int          `db:"winning_number"`
	WinningCrypto   *string       `db:"winning_crypto"`
	TotalBetAmount  int64         `db:"total_bet_amount"`
	TotalWinnings   int64         `db:"total_winnings"`
	HouseEdgeAmount int64         `db:"house_edge_amount"`
	CreatedAt       time.Time     `db:"created_at"`
	CompletedAt     *time.Time    `db:"completed_at"`
}

// IsActive returns true if bets may still be placed and the wheel spun
func (s *GameSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// IsCompleted returns true once the session has been settled
func (s *GameSession) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}

// IsOwnedBy reports whether the session belongs to the given user
func (s *GameSession) IsOwnedBy(userID int64) bool {
	return s.UserID == userID
}

// NetResult is the player's net for the session (winnings minus stakes)
func (s *GameSession) NetResult() int64 {
	return s.TotalWinnings - s.TotalBetAmount
}

// IsWin reports whether the player came out ahead. A push counts as a loss.
func (s *GameSession) IsWin() bool {
	return s.TotalWinnings > s.TotalBetAmount
}

// Complete records the outcome and moves the session to its terminal state
func (s *GameSession) Complete(winningNumber int, winningCrypto string, totalWinnings int64, at time.Time) error {
	if !s.IsActive() {
		return fmt.Errorf("session %d is %s, expected %s", s.ID, s.Status, SessionStatusActive)
	}
	s.WinningNumber = &winningNumber
	s.WinningCrypto = &winningCrypto
	s.TotalWinnings = totalWinnings
	s.HouseEdgeAmount = s.TotalBetAmount - totalWinnings
	s.Status = SessionStatusCompleted
	s.CompletedAt = &at
	return nil
}

// PublicView strips the server seed until the session is completed
func (s *GameSession) PublicView() *GameSession {
	view := *s
	if !s.IsCompleted() {
		view.ServerSeed = ""
	}
	return &view
}

// SessionReveal carries everything needed to independently verify a round
type SessionReveal struct {
	SessionID      int64
	ServerSeed     string
	ServerSeedHash string
	ClientSeed     string
	Nonce          int64
	WinningNumber  int
	WinningCrypto  string
	Verified       bool
}

// SessionHistoryFilter narrows session history queries
type SessionHistoryFilter struct {
	UserID int64
	Status *SessionStatus
	Since  *time.Time
	Limit  int
	Offset int
}
