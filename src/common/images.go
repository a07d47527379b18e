package common

import (
	"deskly/src/db"
	awslib "deskly/src/lib/aws"
	"deskly/src/models"
	"deskly/src/types"
	"errors"
	"fmt"
	"log"
	"path"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func findOwnedOffice(d *gorm.DB, officeID, callerID uint) (*models.Office, error) {
	var office models.Office
	if err := d.Where(&models.Office{ID: officeID}).First(&office).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	if office.UserID != callerID {
		return nil, types.ErrForbidden
	}
	return &office, nil
}

// AddOfficeImage stores the uploaded bytes through the storage collaborator
// and attaches the resulting path to the office.
func AddOfficeImage(officeID uint, filename string, data []byte, contentType string, callerID uint) (*models.Image, error) {
	d := db.GetDb()
	office, err := findOwnedOffice(d, officeID, callerID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s_%s%s", slug.Make(office.Title), uuid.NewString(), path.Ext(filename))
	storedPath, err := awslib.S3StoreImage(key, data, contentType)
	if err != nil {
		return nil, err
	}

	image := models.Image{
		ResourceType: types.RESOURCE_OFFICE,
		ResourceID:   office.ID,
		Path:         storedPath,
	}
	if err := d.Create(&image).Error; err != nil {
		// Roll the stored object back so nothing dangles in the bucket.
		if derr := awslib.S3DeleteImage(storedPath); derr != nil {
			log.Printf("Error removing orphaned image file '%s': %s\n", storedPath, derr.Error())
		}
		return nil, err
	}
	return &image, nil
}

// DeleteOfficeImage removes one image of an office. The office's only image
// and its current featured image are protected; an image reached through the
// wrong office is reported as missing, not forbidden.
func DeleteOfficeImage(officeID, imageID, callerID uint) error {
	d := db.GetDb()
	office, err := findOwnedOffice(d, officeID, callerID)
	if err != nil {
		return err
	}

	var image models.Image
	err = d.
		Where(&models.Image{
			ID:           imageID,
			ResourceType: types.RESOURCE_OFFICE,
			ResourceID:   office.ID,
		}).
		First(&image).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		return err
	}

	var count int64
	err = d.Model(&models.Image{}).
		Where(&models.Image{ResourceType: types.RESOURCE_OFFICE, ResourceID: office.ID}).
		Count(&count).
		Error
	if err != nil {
		return err
	}
	if count == 1 {
		return types.NewValidationError("image", "Cannot delete the only image.")
	}
	if office.FeaturedImageID != nil && *office.FeaturedImageID == image.ID {
		return types.NewValidationError("image", "Cannot delete the featured image.")
	}

	if err := d.Delete(&image).Error; err != nil {
		return err
	}
	go func(path string) {
		if err := awslib.S3DeleteImage(path); err != nil {
			log.Printf("Error removing image file '%s': %s\n", path, err.Error())
		}
	}(image.Path)
	return nil
}
