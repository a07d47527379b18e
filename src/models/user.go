package models

import "deskly/src/types"

type User struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	Name    string `json:"name,omitempty"`
	Email   string `gorm:"uniqueIndex" json:"email,omitempty"`
	IsAdmin bool   `gorm:"default:false" json:"is_admin,omitempty"`

	Offices      []Office      `gorm:"foreignKey:user_id" json:"offices,omitempty"`
	Reservations []Reservation `gorm:"foreignKey:user_id" json:"reservations,omitempty"`

	types.Timestamps
}
