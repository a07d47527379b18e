package models

import "deskly/src/types"

type Reservation struct {
	ID        uint                    `gorm:"primarykey" json:"id"`
	OfficeID  uint                    `json:"office_id,omitempty"`
	UserID    uint                    `json:"user_id,omitempty"`
	StartDate types.Date              `gorm:"type:date" json:"start_date"`
	EndDate   types.Date              `gorm:"type:date" json:"end_date"`
	Price     int                     `json:"price,omitempty"`
	Status    types.ReservationStatus `gorm:"default:'active'" json:"status,omitempty"`

	Office *Office `gorm:"foreignKey:office_id" json:"office,omitempty"`
	User   *User   `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}
