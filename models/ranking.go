// models/ranking.go
package models

import "time"

// MonthlyRanking is one user's rank for one calendar month, produced by the
// external ranking pipeline. The snapshot builder reads the current month's
// row and the full history (best-ever rank, consecutive #1 run).
type MonthlyRanking struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"not null;index;uniqueIndex:idx_ranking_user_month" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"-"`

	Year   int `gorm:"not null;uniqueIndex:idx_ranking_user_month" json:"year"`
	Month  int `gorm:"not null;uniqueIndex:idx_ranking_user_month" json:"month"`
	Rank   int `gorm:"not null" json:"rank"`
	Points int `gorm:"default:0" json:"points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MonthlyRanking) TableName() string {
	return "monthly_rankings"
}
