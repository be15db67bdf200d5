package models

import "time"

// Review carries a star rating for a spot. The spot endpoints only read
// reviews for aggregation (average rating, review count).
type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SpotID    uint      `gorm:"not null;index" json:"spotId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Review    string    `gorm:"type:text" json:"review"`
	Stars     int       `gorm:"not null;check:stars >= 1 AND stars <= 5" json:"stars"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for Review
func (Review) TableName() string {
	return "reviews"
}
