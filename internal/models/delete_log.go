package models

import "time"

// SpotDeleteLog records spots deleted by their owners so deletions remain
// auditable after the row itself is gone.
type SpotDeleteLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SpotID    uint      `gorm:"not null;index" json:"spotId"`
	OwnerID   uint      `gorm:"not null" json:"ownerId"`
	Name      string    `gorm:"type:varchar(50)" json:"name"`
	Reason    string    `gorm:"type:varchar(50);not null" json:"reason"`
	DeletedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"deletedAt"`
}

// TableName specifies the table name
func (SpotDeleteLog) TableName() string {
	return "spot_delete_logs"
}

// DeleteReason constants
const (
	DeleteReasonOwner     = "owner_request"
	DeleteReasonDataClean = "data_cleanup"
)
