// models/competitor.go
package models

import "time"

// Competitor holds the career aggregates and skill rating maintained by the
// external race-rating updater. The progression engine reads this row to
// evaluate racing-domain achievements; it never writes the rating fields.
type Competitor struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;uniqueIndex" json:"name"`

	CareerWins        int     `gorm:"default:0" json:"career_wins"`
	RaceCount         int     `gorm:"default:0" json:"race_count"`
	CurrentWinStreak  int     `gorm:"default:0" json:"current_win_streak"`
	BestWinStreak     int     `gorm:"default:0" json:"best_win_streak"`
	CurrentPlayStreak int     `gorm:"default:0" json:"current_play_streak"`
	BestPlayStreak    int     `gorm:"default:0" json:"best_play_streak"`
	SkillMean         float64 `gorm:"default:25" json:"skill_mean"`
	SkillSigma        float64 `gorm:"default:8.333" json:"skill_sigma"`
	RecentAvgFinish   float64 `gorm:"default:0" json:"recent_avg_finish"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RaceResult is one competitor's finishing position in a recorded race.
type RaceResult struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	RaceID       string      `gorm:"not null;index" json:"race_id"`
	CompetitorID uint        `gorm:"not null;index" json:"competitor_id"`
	Competitor   *Competitor `gorm:"foreignKey:CompetitorID" json:"competitor,omitempty"`
	FinishRank   int         `gorm:"not null" json:"finish_rank"`
	RecordedAt   time.Time   `json:"recorded_at"`
}

func (Competitor) TableName() string {
	return "competitors"
}

func (RaceResult) TableName() string {
	return "race_results"
}
