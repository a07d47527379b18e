package common

import (
	"deskly/src/config"
	"deskly/src/db"
	awslib "deskly/src/lib/aws"
	"deskly/src/models"
	"deskly/src/types"
	"deskly/src/utils"
	"errors"
	"log"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// distanceOrderSQL is a planar great-circle approximation, close enough for
// ranking nearby offices without PostGIS.
const distanceOrderSQL = "SQRT(POW(69.1 * (lat - ?), 2) + POW(69.1 * (? - lng) * COS(lat / 57.3), 2))"

const activeReservationsCountSQL = "offices.*, (SELECT COUNT(*) FROM reservations r WHERE r.office_id = offices.id AND r.status = ?) AS reservations_count"

// ParseCoords validates an optional lat/lng pair. Anything non-numeric or
// half-supplied means no distance ordering, never a rejected request.
func ParseCoords(lat, lng *string) (float64, float64, bool) {
	if lat == nil || lng == nil {
		return 0, 0, false
	}
	latF, err := strconv.ParseFloat(*lat, 64)
	if err != nil {
		return 0, 0, false
	}
	lngF, err := strconv.ParseFloat(*lng, 64)
	if err != nil {
		return 0, 0, false
	}
	return latF, lngF, true
}

func withOfficeRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("User").
		Preload("Images").
		Preload("Tags").
		Preload("FeaturedImage")
}

// ListOffices runs the filter pipeline. Hidden and unapproved offices only
// surface when the caller filters for their own listings.
func ListOffices(filters *types.OfficeQueryFilters, authUserID uint) ([]models.Office, types.PageMeta, error) {
	d := db.GetDb()
	q := d.Model(&models.Office{})

	ownListing := filters.UserID != 0 && filters.UserID == authUserID
	if !ownListing {
		q = q.
			Where("hidden = ?", false).
			Where("approval_status = ?", types.APPROVAL_APPROVED)
	}
	if filters.UserID != 0 {
		q = q.Where("user_id = ?", filters.UserID)
	}
	if filters.VisitorID != 0 {
		q = q.Where(
			"EXISTS (SELECT 1 FROM reservations r WHERE r.office_id = offices.id AND r.user_id = ?)",
			filters.VisitorID,
		)
	}
	if len(filters.Tags) > 0 {
		q = q.Where(
			"(SELECT COUNT(DISTINCT ot.tag_id) FROM office_tags ot WHERE ot.office_id = offices.id AND ot.tag_id IN ?) = ?",
			filters.Tags, len(filters.Tags),
		)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, types.PageMeta{}, err
	}

	q = q.Select(activeReservationsCountSQL, types.RESERVATION_ACTIVE)
	if lat, lng, ok := ParseCoords(filters.Lat, filters.Lng); ok {
		q = q.Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                distanceOrderSQL,
			Vars:               []any{lat, lng},
			WithoutParentheses: true,
		}})
	} else {
		q = q.Order("id asc")
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	var offices []models.Office
	err := withOfficeRelations(q.Scopes(utils.Paginate(page))).Find(&offices).Error
	if err != nil {
		return nil, types.PageMeta{}, err
	}
	return offices, types.NewPageMeta(total, config.DEFAULT_PAGE_SIZE, page), nil
}

func GetOffice(id uint) (*models.Office, error) {
	d := db.GetDb()
	var office models.Office
	err := withOfficeRelations(
		d.Model(&models.Office{}).
			Select(activeReservationsCountSQL, types.RESERVATION_ACTIVE).
			Where("offices.id = ?", id),
	).First(&office).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &office, nil
}

// CreateOffice persists a new office for the caller. The approval status is
// always pending regardless of input, and every admin gets notified.
func CreateOffice(body *types.CreateOfficeRequestBody, ownerID uint) (*models.Office, error) {
	d := db.GetDb()
	office := models.Office{
		UserID:          ownerID,
		Title:           body.Title,
		Description:     body.Description,
		Address:         body.Address,
		Lat:             body.Lat,
		Lng:             body.Lng,
		PricePerDay:     body.PricePerDay,
		MonthlyDiscount: body.MonthlyDiscount,
		Hidden:          body.Hidden,
		ApprovalStatus:  types.APPROVAL_PENDING,
	}
	err := d.Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, body.Tags)
		if err != nil {
			return err
		}
		office.Tags = tags
		return tx.Create(&office).Error
	})
	if err != nil {
		return nil, err
	}

	NotifyAdmins(types.NOTIFY_OFFICE_PENDING_APPROVAL, types.JSONB{
		"office_id":    office.ID,
		"office_title": office.Title,
	})
	return GetOffice(office.ID)
}

// resolveTags loads the requested tag rows. An unknown tag id is a
// validation failure, never silently dropped.
func resolveTags(tx *gorm.DB, ids []uint) ([]*models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []*models.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, types.NewValidationError("tags", "Invalid tag ID")
	}
	return tags, nil
}

// officeSensitiveColumns force a fresh approval cycle when changed. This is
// an explicit list, not reflection over all attributes.
var officeSensitiveColumns = map[string]bool{
	"title":            true,
	"description":      true,
	"address":          true,
	"lat":              true,
	"lng":              true,
	"price_per_day":    true,
	"monthly_discount": true,
	"hidden":           true,
}

// BuildOfficeUpdates turns the partial update body into an explicit column
// map and reports whether any sensitive column actually changes value.
// approval_status is never writable by the caller.
func BuildOfficeUpdates(office *models.Office, body *types.UpdateOfficeRequestBody) (map[string]any, bool) {
	updates := map[string]any{}
	if body.Title != nil && *body.Title != office.Title {
		updates["title"] = *body.Title
	}
	if body.Description != nil && *body.Description != office.Description {
		updates["description"] = *body.Description
	}
	if body.Address != nil && *body.Address != office.Address {
		updates["address"] = *body.Address
	}
	if body.Lat != nil && *body.Lat != office.Lat {
		updates["lat"] = *body.Lat
	}
	if body.Lng != nil && *body.Lng != office.Lng {
		updates["lng"] = *body.Lng
	}
	if body.PricePerDay != nil && *body.PricePerDay != office.PricePerDay {
		updates["price_per_day"] = *body.PricePerDay
	}
	if body.MonthlyDiscount != nil && *body.MonthlyDiscount != office.MonthlyDiscount {
		updates["monthly_discount"] = *body.MonthlyDiscount
	}
	if body.Hidden != nil && *body.Hidden != office.Hidden {
		updates["hidden"] = *body.Hidden
	}
	if body.FeaturedImageID != nil {
		updates["featured_image_id"] = *body.FeaturedImageID
	}
	sensitive := false
	for col := range updates {
		if officeSensitiveColumns[col] {
			sensitive = true
			break
		}
	}
	return updates, sensitive
}

// UpdateOffice applies an owner's partial update. Sensitive changes reset the
// office to pending and fire a single admin notification; a supplied tag list
// replaces the existing associations outright.
func UpdateOffice(id uint, body *types.UpdateOfficeRequestBody, callerID uint) (*models.Office, error) {
	d := db.GetDb()
	var office models.Office
	if err := d.Where(&models.Office{ID: id}).First(&office).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	if office.UserID != callerID {
		return nil, types.ErrForbidden
	}

	if body.FeaturedImageID != nil {
		var count int64
		err := d.Model(&models.Image{}).
			Where(&models.Image{
				ID:           *body.FeaturedImageID,
				ResourceType: types.RESOURCE_OFFICE,
				ResourceID:   office.ID,
			}).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, types.NewValidationError("featured_image_id", "The featured image must belong to this office")
		}
	}

	updates, sensitive := BuildOfficeUpdates(&office, body)
	if sensitive {
		updates["approval_status"] = types.APPROVAL_PENDING
	}

	err := d.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&office).Updates(updates).Error; err != nil {
				return err
			}
		}
		if body.Tags != nil {
			tags, err := resolveTags(tx, *body.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&office).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if sensitive {
		NotifyAdmins(types.NOTIFY_OFFICE_PENDING_APPROVAL, types.JSONB{
			"office_id":    office.ID,
			"office_title": office.Title,
		})
	}
	return GetOffice(office.ID)
}

// DeleteOffice soft-deletes an office with no reservation history, removing
// its image rows in the same transaction. Backing files are cleaned up
// best-effort after commit so storage failures cannot leave dangling rows.
func DeleteOffice(id uint, callerID uint) error {
	d := db.GetDb()
	var office models.Office
	if err := d.Preload("Images").Where(&models.Office{ID: id}).First(&office).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		return err
	}
	if office.UserID != callerID {
		return types.ErrForbidden
	}

	var reservations int64
	if err := d.Model(&models.Reservation{}).Where("office_id = ?", office.ID).Count(&reservations).Error; err != nil {
		return err
	}
	if reservations > 0 {
		return types.NewValidationError("office", "Cannot delete Office that has reservations")
	}

	err := d.Transaction(func(tx *gorm.DB) error {
		if office.FeaturedImageID != nil {
			if err := tx.Model(&office).Update("featured_image_id", nil).Error; err != nil {
				return err
			}
		}
		if err := tx.
			Where(&models.Image{ResourceType: types.RESOURCE_OFFICE, ResourceID: office.ID}).
			Delete(&models.Image{}).
			Error; err != nil {
			return err
		}
		return tx.Delete(&office).Error
	})
	if err != nil {
		return err
	}

	for _, image := range office.Images {
		go func(path string) {
			if err := awslib.S3DeleteImage(path); err != nil {
				log.Printf("Error removing image file '%s': %s\n", path, err.Error())
			}
		}(image.Path)
	}
	return nil
}
