package models

import (
	"deskly/src/types"

	"gorm.io/gorm"
)

type Office struct {
	ID              uint                 `gorm:"primarykey" json:"id"`
	UserID          uint                 `json:"user_id,omitempty"`
	Title           string               `json:"title,omitempty"`
	Description     string               `json:"description,omitempty"`
	Address         string               `json:"address_line1,omitempty"`
	Lat             float64              `gorm:"type:decimal(11,8)" json:"lat,omitempty"`
	Lng             float64              `gorm:"type:decimal(11,8)" json:"lng,omitempty"`
	PricePerDay     int                  `json:"price_per_day,omitempty"`
	MonthlyDiscount int                  `gorm:"default:0" json:"monthly_discount"`
	Hidden          bool                 `gorm:"default:false" json:"hidden"`
	ApprovalStatus  types.ApprovalStatus `gorm:"default:1" json:"approval_status,omitempty"`
	FeaturedImageID *uint                `json:"featured_image_id,omitempty"`

	// Populated by the search engine's correlated subquery, not a column.
	ReservationsCount int64 `gorm:"->;-:migration" json:"reservations_count"`

	User          *User         `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Reservations  []Reservation `gorm:"foreignKey:office_id" json:"reservations,omitempty"`
	Images        []Image       `gorm:"polymorphic:Resource;polymorphicValue:office" json:"images,omitempty"`
	FeaturedImage *Image        `gorm:"foreignKey:featured_image_id" json:"featured_image,omitempty"`
	Tags          []*Tag        `gorm:"many2many:office_tags;" json:"tags,omitempty"`

	types.Timestamps
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
