// models/bet.go
package models

import "time"

// Bet outcomes as settled by the external betting pipeline. This engine
// only reads them.
const (
	BetPending    = "pending"
	BetWon        = "won"
	BetLost       = "lost"
	BetPartialWin = "partial" // exactly 2 of 3 picks correct
)

// Bet represents one prediction slip: three picks on a race card.
type Bet struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"-"`

	Status       string  `gorm:"default:'pending';size:20;index" json:"status"`
	Points       int     `gorm:"default:0" json:"points"`
	CorrectCount int     `gorm:"default:0" json:"correct_count"`
	TotalCount   int     `gorm:"default:3" json:"total_count"`
	IsPerfect    bool    `gorm:"default:false" json:"is_perfect"`
	IsBoosted    bool    `gorm:"default:false" json:"is_boosted"`
	Odds         float64 `gorm:"default:0" json:"odds"`

	CreatedAt time.Time  `json:"created_at"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

func (Bet) TableName() string {
	return "bets"
}
