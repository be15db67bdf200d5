package models

import "time"

// SpotImage represents an image attached to a spot. The image with
// Preview=true is the one used for thumbnail display.
type SpotImage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SpotID    uint      `gorm:"not null;index" json:"spotId"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	Preview   bool      `gorm:"not null;default:false" json:"preview"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for SpotImage
func (SpotImage) TableName() string {
	return "spot_images"
}
