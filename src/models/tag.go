package models

type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex" json:"name"`

	Offices []*Office `gorm:"many2many:office_tags;" json:"offices,omitempty"`
}
