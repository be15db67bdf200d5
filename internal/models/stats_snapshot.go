package models

import "time"

// SpotStatsSnapshot is a daily snapshot of a spot's derived stats. Snapshots
// let admins see how a listing's rating and price evolved over time without
// touching the live aggregation path.
type SpotStatsSnapshot struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SpotID     uint      `gorm:"not null;index:idx_spot_snapshot_date" json:"spotId"`
	SnapshotAt time.Time `gorm:"type:date;not null;index:idx_spot_snapshot_date,priority:2" json:"snapshotAt"`

	AvgRating  *float64 `gorm:"type:decimal(3,1)" json:"avgRating"`
	NumReviews int64    `gorm:"not null;default:0" json:"numReviews"`
	Price      float64  `gorm:"type:decimal(10,2);not null" json:"price"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name
func (SpotStatsSnapshot) TableName() string {
	return "spot_stats_snapshots"
}
