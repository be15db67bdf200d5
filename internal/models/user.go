package models

import "time"

// User represents a registered account. Only id/firstName/lastName are ever
// exposed on spot responses (as the Owner block).
type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName      string    `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName       string    `gorm:"type:varchar(100);not null" json:"lastName"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Username       string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	HashedPassword string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// PublicUser is the owner block nested in spot detail responses.
type PublicUser struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Public strips everything clients should not see.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}
