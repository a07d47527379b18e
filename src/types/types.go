package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
}

// Date is a calendar date without a time component. Reservations span whole
// days, so the wire and storage formats are both plain "2006-01-02".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Format(dateLayout), nil
}

func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

// DaysBetween returns the inclusive day span covered by [from, to].
func DaysBetween(from, to Date) int {
	return int(to.Sub(from.Time).Hours()/24) + 1
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type ApprovalStatus int

const (
	APPROVAL_PENDING  ApprovalStatus = 1
	APPROVAL_APPROVED ApprovalStatus = 2
)

type ReservationStatus string

const (
	RESERVATION_ACTIVE    ReservationStatus = "active"
	RESERVATION_CANCELLED ReservationStatus = "cancelled"
)

// ResourceType tags the owner of a polymorphic Image row.
type ResourceType string

const (
	RESOURCE_OFFICE ResourceType = "office"
)

type NotificationKind string

const (
	NOTIFY_OFFICE_PENDING_APPROVAL   NotificationKind = "office_pending_approval"
	NOTIFY_NEW_USER_RESERVATION      NotificationKind = "new_user_reservation"
	NOTIFY_NEW_HOST_RESERVATION      NotificationKind = "new_host_reservation"
	NOTIFY_USER_RESERVATION_STARTING NotificationKind = "user_reservation_starting"
	NOTIFY_HOST_RESERVATION_STARTING NotificationKind = "host_reservation_starting"
)

type OfficeQueryFilters struct {
	UserID    uint    `form:"user_id"`
	VisitorID uint    `form:"visitor_id"`
	Tags      []uint  `form:"tags[]"`
	Lat       *string `form:"lat"`
	Lng       *string `form:"lng"`
	Page      int     `form:"page"`
}

type CreateOfficeRequestBody struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description" binding:"required"`
	Address         string  `json:"address_line1" binding:"required"`
	Lat             float64 `json:"lat" binding:"required"`
	Lng             float64 `json:"lng" binding:"required"`
	PricePerDay     int     `json:"price_per_day" binding:"required,gt=0"`
	MonthlyDiscount int     `json:"monthly_discount" binding:"omitempty,gte=0,lte=100"`
	Hidden          bool    `json:"hidden"`
	Tags            []uint  `json:"tags"`
}

type UpdateOfficeRequestBody struct {
	Title           *string  `json:"title,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Address         *string  `json:"address_line1,omitempty"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
	PricePerDay     *int     `json:"price_per_day,omitempty" binding:"omitempty,gt=0"`
	MonthlyDiscount *int     `json:"monthly_discount,omitempty" binding:"omitempty,gte=0,lte=100"`
	Hidden          *bool    `json:"hidden,omitempty"`
	FeaturedImageID *uint    `json:"featured_image_id,omitempty"`
	Tags            *[]uint  `json:"tags,omitempty"`
}

type CreateReservationRequestBody struct {
	OfficeID  uint   `json:"office_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required,reservabledate"`
	EndDate   string `json:"end_date" binding:"required,reservabledate"`
}

type ReservationQueryFilters struct {
	Status   string `form:"status"`
	OfficeID uint   `form:"office_id"`
	FromDate string `form:"from_date"`
	ToDate   string `form:"to_date"`
	Page     int    `form:"page"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type OfficeImageURIParams struct {
	OfficeID uint `uri:"id" binding:"required"`
	ImageID  uint `uri:"imageId" binding:"required"`
}

type Claims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// PageMeta carries pagination metadata alongside list responses. Envelope
// formatting beyond this struct is the transport layer's concern.
type PageMeta struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
}

func NewPageMeta(total int64, perPage, page int) PageMeta {
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return PageMeta{Total: total, PerPage: perPage, CurrentPage: page, LastPage: last}
}

// ParseUintList splits a comma separated id list, tolerating blanks.
func ParseUintList(s string) []uint {
	var out []uint
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var id uint
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			out = append(out, id)
		}
	}
	return out
}
