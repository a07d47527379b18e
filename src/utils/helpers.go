package utils

import (
	"deskly/src/config"
	"deskly/src/db"
	"deskly/src/models"

	"gorm.io/gorm"
)

// Paginate applies the fixed default page size as a gorm scope.
func Paginate(page int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		offset := (page - 1) * config.DEFAULT_PAGE_SIZE
		return db.Offset(offset).Limit(config.DEFAULT_PAGE_SIZE)
	}
}

// FindAdmins returns every admin user, used when a pending office needs
// approval attention.
func FindAdmins() ([]models.User, error) {
	db := db.GetDb()
	var admins []models.User
	err := db.
		Model(&models.User{}).
		Where(&models.User{IsAdmin: true}, "is_admin").
		Find(&admins).
		Error
	if err != nil {
		return nil, err
	}
	return admins, nil
}
