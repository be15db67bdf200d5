package models

import "time"

// Spot represents a rentable listing owned by exactly one user.
type Spot struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     uint    `gorm:"not null;index" json:"ownerId"`
	Address     string  `gorm:"type:varchar(255);not null" json:"address"`
	City        string  `gorm:"type:varchar(100);not null;index" json:"city"`
	State       string  `gorm:"type:varchar(100);not null" json:"state"`
	Country     string  `gorm:"type:varchar(100);not null" json:"country"`
	Lat         float64 `gorm:"type:decimal(10,7);not null" json:"lat"`
	Lng         float64 `gorm:"type:decimal(10,7);not null" json:"lng"`
	Name        string  `gorm:"type:varchar(50);not null" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index:idx_spots_created_at,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updatedAt"`

	Owner   *User       `gorm:"foreignKey:OwnerID" json:"-"`
	Images  []SpotImage `gorm:"foreignKey:SpotID" json:"-"`
	Reviews []Review    `gorm:"foreignKey:SpotID" json:"-"`
}

// TableName specifies the table name for Spot
func (Spot) TableName() string {
	return "spots"
}

// PreviewImageURL returns the url of the first image flagged as preview,
// or nil when the spot has none. When multiple images carry the flag the
// first one wins.
func (s *Spot) PreviewImageURL() *string {
	for i := range s.Images {
		if s.Images[i].Preview {
			return &s.Images[i].URL
		}
	}
	return nil
}
