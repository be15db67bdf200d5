package database

import (
	"spot-rental-api/internal/models"
)

// CreateUser persists a new account. Unique-index violations on email or
// username surface as driver errors for the handler to map.
func (d *DB) CreateUser(user *models.User) error {
	return d.db.Create(user).Error
}

// GetUserByID retrieves a user by primary key.
func (d *DB) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByCredential looks a user up by email or username, whichever
// matches. Login accepts either.
func (d *DB) GetUserByCredential(credential string) (*models.User, error) {
	var user models.User
	err := d.db.Where("email = ? OR username = ?", credential, credential).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserExists reports whether an account with the given email or username is
// already registered.
func (d *DB) UserExists(email, username string) (bool, error) {
	var count int64
	err := d.db.Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}
