package common

import (
	"deskly/src/config"
	"deskly/src/db"
	"deskly/src/models"
	"deskly/src/types"
	"deskly/src/utils"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CalculatePrice computes the charge for an inclusive day span. Spans of 28
// days or more qualify for the office's monthly discount, applied to the
// whole price with integer flooring.
func CalculatePrice(days, pricePerDay, monthlyDiscount int) int {
	price := days * pricePerDay
	if days >= 28 && monthlyDiscount > 0 {
		price = price - (price * monthlyDiscount / 100)
	}
	return price
}

// ValidateAdmission runs the office and date checks of the admission
// pipeline, in order, first failure wins. The overlap check needs storage and
// lives in CreateReservation.
func ValidateAdmission(office *models.Office, visitorID uint, start, end, today types.Date) error {
	if office.UserID == visitorID {
		return types.NewValidationError("office_id", "You cannot make a reservation on your own office")
	}
	if office.ApprovalStatus != types.APPROVAL_APPROVED || office.Hidden {
		return types.NewValidationError("office_id", "You cannot make a reservation on hidden office")
	}
	if !start.After(today.Time) {
		return types.NewValidationError("start_date", "The start date must be a date after today.")
	}
	if types.DaysBetween(start, end) < 2 {
		return types.NewValidationError("start_date", "You cannot make a reservation for only 1 day")
	}
	return nil
}

func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "40001") || strings.Contains(msg, "40P01")
}

// CreateReservation admits a reservation request. The overlap check and the
// insert share one transaction holding a row lock on the office, so two
// concurrent requests for overlapping ranges cannot both succeed; a
// serialization failure is retried once before surfacing.
func CreateReservation(body *types.CreateReservationRequestBody, visitorID uint) (*models.Reservation, error) {
	start, err := types.ParseDate(body.StartDate)
	if err != nil {
		return nil, types.NewValidationError("start_date", "The start date is not a valid date.")
	}
	end, err := types.ParseDate(body.EndDate)
	if err != nil {
		return nil, types.NewValidationError("end_date", "The end date is not a valid date.")
	}

	d := db.GetDb()
	var reservation models.Reservation
	attempt := func() error {
		return d.Transaction(func(tx *gorm.DB) error {
			var office models.Office
			err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where(&models.Office{ID: body.OfficeID}).
				First(&office).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return types.NewValidationError("office_id", "Invalid office ID")
				}
				return err
			}

			today := types.NewDate(time.Now())
			if err := ValidateAdmission(&office, visitorID, start, end, today); err != nil {
				return err
			}

			var overlapping int64
			err = tx.Model(&models.Reservation{}).
				Where("office_id = ?", office.ID).
				Where("status = ?", types.RESERVATION_ACTIVE).
				Where("start_date <= ? AND end_date >= ?", end, start).
				Count(&overlapping).
				Error
			if err != nil {
				return err
			}
			if overlapping > 0 {
				return types.NewValidationError("office_id", "You cannot make a reservation during this time")
			}

			days := types.DaysBetween(start, end)
			reservation = models.Reservation{
				OfficeID:  office.ID,
				UserID:    visitorID,
				StartDate: start,
				EndDate:   end,
				Price:     CalculatePrice(days, office.PricePerDay, office.MonthlyDiscount),
				Status:    types.RESERVATION_ACTIVE,
			}
			return tx.Create(&reservation).Error
		})
	}
	err = attempt()
	if isSerializationFailure(err) {
		log.Printf("Serialization failure on reservation for office %d, retrying once: %s\n", body.OfficeID, err.Error())
		err = attempt()
		if isSerializationFailure(err) {
			return nil, types.ErrConflict
		}
	}
	if err != nil {
		return nil, err
	}

	err = d.
		Preload("Office").
		Preload("Office.User").
		Preload("Office.FeaturedImage").
		First(&reservation, reservation.ID).
		Error
	if err != nil {
		return nil, err
	}

	var visitor models.User
	if err := d.First(&visitor, visitorID).Error; err == nil {
		Dispatch(&visitor, types.NOTIFY_NEW_USER_RESERVATION, types.JSONB{
			"reservation_id": reservation.ID,
			"office_title":   reservation.Office.Title,
		})
	}
	if reservation.Office != nil && reservation.Office.User != nil {
		Dispatch(reservation.Office.User, types.NOTIFY_NEW_HOST_RESERVATION, types.JSONB{
			"reservation_id": reservation.ID,
			"office_title":   reservation.Office.Title,
		})
	}
	return &reservation, nil
}

func applyReservationFilters(q *gorm.DB, filters *types.ReservationQueryFilters) *gorm.DB {
	if filters.Status != "" {
		q = q.Where("reservations.status = ?", filters.Status)
	}
	if filters.OfficeID != 0 {
		q = q.Where("reservations.office_id = ?", filters.OfficeID)
	}
	// A reservation matches the window when the ranges intersect at all.
	if from, err := types.ParseDate(filters.FromDate); err == nil {
		if to, err := types.ParseDate(filters.ToDate); err == nil {
			q = q.Where("reservations.start_date <= ? AND reservations.end_date >= ?", to, from)
		}
	}
	return q
}

// ListReservations returns the caller's own reservations, filtered and
// paginated, in creation order.
func ListReservations(filters *types.ReservationQueryFilters, callerID uint) ([]models.Reservation, types.PageMeta, error) {
	d := db.GetDb()
	q := d.Model(&models.Reservation{}).Where("reservations.user_id = ?", callerID)
	q = applyReservationFilters(q, filters)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, types.PageMeta{}, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	var reservations []models.Reservation
	err := q.
		Order("reservations.id asc").
		Scopes(utils.Paginate(page)).
		Preload("Office").
		Preload("Office.FeaturedImage").
		Find(&reservations).
		Error
	if err != nil {
		return nil, types.PageMeta{}, err
	}
	return reservations, types.NewPageMeta(total, config.DEFAULT_PAGE_SIZE, page), nil
}

// ListHostReservations returns reservations made on offices the caller owns.
func ListHostReservations(filters *types.ReservationQueryFilters, hostID uint) ([]models.Reservation, types.PageMeta, error) {
	d := db.GetDb()
	q := d.Model(&models.Reservation{}).
		Joins("JOIN offices ON offices.id = reservations.office_id").
		Where("offices.user_id = ?", hostID)
	q = applyReservationFilters(q, filters)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, types.PageMeta{}, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	var reservations []models.Reservation
	err := q.
		Order("reservations.id asc").
		Scopes(utils.Paginate(page)).
		Preload("Office").
		Preload("User").
		Find(&reservations).
		Error
	if err != nil {
		return nil, types.PageMeta{}, err
	}
	return reservations, types.NewPageMeta(total, config.DEFAULT_PAGE_SIZE, page), nil
}

// CancelReservation marks the caller's reservation cancelled. Cancelling an
// already-cancelled reservation is accepted as a no-op.
func CancelReservation(id, callerID uint) error {
	d := db.GetDb()
	var reservation models.Reservation
	if err := d.Where(&models.Reservation{ID: id}).First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		return err
	}
	if reservation.UserID != callerID {
		return types.ErrForbidden
	}
	if reservation.Status == types.RESERVATION_CANCELLED {
		return nil
	}
	return d.Model(&reservation).Update("status", types.RESERVATION_CANCELLED).Error
}

// NotifyDueReservations is the daily sweep: every active reservation starting
// today triggers a notification to the visitor and the host. Rows are walked
// in bounded batches.
func NotifyDueReservations() error {
	d := db.GetDb()
	today := types.NewDate(time.Now())
	var batch []models.Reservation
	result := d.
		Model(&models.Reservation{}).
		Where("status = ?", types.RESERVATION_ACTIVE).
		Where("start_date = ?", today).
		Preload("User").
		Preload("Office").
		Preload("Office.User").
		FindInBatches(&batch, 100, func(tx *gorm.DB, n int) error {
			for i := range batch {
				r := &batch[i]
				payload := types.JSONB{"reservation_id": r.ID}
				if r.Office != nil {
					payload["office_title"] = r.Office.Title
				}
				if r.User != nil {
					Dispatch(r.User, types.NOTIFY_USER_RESERVATION_STARTING, payload)
				}
				if r.Office != nil && r.Office.User != nil {
					Dispatch(r.Office.User, types.NOTIFY_HOST_RESERVATION_STARTING, payload)
				}
			}
			return nil
		})
	if result.Error != nil {
		log.Printf("Error sweeping due reservations: %s\n", result.Error.Error())
		return result.Error
	}
	return nil
}
