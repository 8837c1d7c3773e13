package domain

import "time"

// UserActivity holds the behavioural counters the campaign classifier is
// trained on. One row per user, created at signup and mutated by every
// tracked interaction.
type UserActivity struct {
	UserID        uint      `gorm:"column:user_id;primaryKey" json:"user_id"`
	OffersOpened  int       `gorm:"column:offers_opened;not null;default:0" json:"offers_opened"`
	OffersClicked int       `gorm:"column:offers_clicked;not null;default:0" json:"offers_clicked"`
	Purchases     int       `gorm:"column:purchases;not null;default:0" json:"purchases"`
	LastOpenDays  int       `gorm:"column:last_open_days;not null;default:0" json:"last_open_days"`
	TotalVisits   int       `gorm:"column:total_visits;not null;default:0" json:"total_visits"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserActivity) TableName() string {
	return "user_activities"
}
