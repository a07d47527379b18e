package models

import "deskly/src/types"

// Image attaches to its owner through a resource_type/resource_id pair so a
// single table can serve several resource kinds.
type Image struct {
	ID           uint               `gorm:"primarykey" json:"id"`
	ResourceType types.ResourceType `gorm:"index:idx_images_resource" json:"resource_type,omitempty"`
	ResourceID   uint               `gorm:"index:idx_images_resource" json:"resource_id,omitempty"`
	Path         string             `json:"path,omitempty"`

	types.Timestamps
}
