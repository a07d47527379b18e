package common

import (
	"deskly/src/models"
	"deskly/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePrice(t *testing.T) {
	t.Run("charges the daily rate for short stays", func(t *testing.T) {
		assert.Equal(t, 2000, CalculatePrice(2, 1000, 10))
		assert.Equal(t, 27000, CalculatePrice(27, 1000, 10))
	})

	t.Run("applies the monthly discount from 28 days", func(t *testing.T) {
		assert.Equal(t, 25200, CalculatePrice(28, 1000, 10))
		assert.Equal(t, 27000, CalculatePrice(30, 1000, 10))
		assert.Equal(t, 36000, CalculatePrice(40, 1000, 10))
	})

	t.Run("ignores a zero discount", func(t *testing.T) {
		assert.Equal(t, 40000, CalculatePrice(40, 1000, 0))
	})

	t.Run("floors the discounted price", func(t *testing.T) {
		// 29 * 333 = 9657, minus 7% = 9657 - 675.99 -> 8982 with integer math
		assert.Equal(t, 9657-(9657*7/100), CalculatePrice(29, 333, 7))
	})
}

func mustDate(t *testing.T, s string) types.Date {
	t.Helper()
	d, err := types.ParseDate(s)
	assert.NoError(t, err)
	return d
}

func TestValidateAdmission(t *testing.T) {
	today := mustDate(t, "2026-09-01")
	office := &models.Office{
		ID:             1,
		UserID:         7,
		ApprovalStatus: types.APPROVAL_APPROVED,
	}

	t.Run("rejects the office owner", func(t *testing.T) {
		err := ValidateAdmission(office, 7, mustDate(t, "2026-09-02"), mustDate(t, "2026-09-05"), today)
		ve, ok := types.IsValidationError(err)
		assert.True(t, ok)
		assert.Equal(t, "You cannot make a reservation on your own office", ve.Errors["office_id"])
	})

	t.Run("rejects hidden offices", func(t *testing.T) {
		hidden := *office
		hidden.Hidden = true
		err := ValidateAdmission(&hidden, 2, mustDate(t, "2026-09-02"), mustDate(t, "2026-09-05"), today)
		ve, ok := types.IsValidationError(err)
		assert.True(t, ok)
		assert.Equal(t, "You cannot make a reservation on hidden office", ve.Errors["office_id"])
	})

	t.Run("rejects pending offices with the same message", func(t *testing.T) {
		pending := *office
		pending.ApprovalStatus = types.APPROVAL_PENDING
		err := ValidateAdmission(&pending, 2, mustDate(t, "2026-09-02"), mustDate(t, "2026-09-05"), today)
		ve, ok := types.IsValidationError(err)
		assert.True(t, ok)
		assert.Equal(t, "You cannot make a reservation on hidden office", ve.Errors["office_id"])
	})

	t.Run("rejects a start date that is today or earlier", func(t *testing.T) {
		err := ValidateAdmission(office, 2, today, mustDate(t, "2026-09-05"), today)
		ve, ok := types.IsValidationError(err)
		assert.True(t, ok)
		assert.Equal(t, "The start date must be a date after today.", ve.Errors["start_date"])
	})

	t.Run("rejects single day stays", func(t *testing.T) {
		err := ValidateAdmission(office, 2, mustDate(t, "2026-09-02"), mustDate(t, "2026-09-02"), today)
		ve, ok := types.IsValidationError(err)
		assert.True(t, ok)
		assert.Equal(t, "You cannot make a reservation for only 1 day", ve.Errors["start_date"])
	})

	t.Run("accepts a two day stay starting tomorrow", func(t *testing.T) {
		err := ValidateAdmission(office, 2, mustDate(t, "2026-09-02"), mustDate(t, "2026-09-03"), today)
		assert.NoError(t, err)
	})

	t.Run("checks ownership before office state", func(t *testing.T) {
		hiddenOwn := *office
		hiddenOwn.Hidden = true
		err := ValidateAdmission(&hiddenOwn, 7, mustDate(t, "2026-09-02"), mustDate(t, "2026-09-05"), today)
		ve, ok := types.IsValidationError(err)
		assert.True(t, ok)
		assert.Equal(t, "You cannot make a reservation on your own office", ve.Errors["office_id"])
	})
}

func TestIsSerializationFailure(t *testing.T) {
	assert.False(t, isSerializationFailure(nil))
	assert.False(t, isSerializationFailure(assert.AnError))
	assert.True(t, isSerializationFailure(errSQLState("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)")))
	assert.True(t, isSerializationFailure(errSQLState("ERROR: deadlock detected (SQLSTATE 40P01)")))
}

type errSQLState string

func (e errSQLState) Error() string { return string(e) }

func TestDaysBetweenMatchesInclusiveSpans(t *testing.T) {
	start := mustDate(t, "2026-09-02")
	assert.Equal(t, 1, types.DaysBetween(start, start))
	assert.Equal(t, 2, types.DaysBetween(start, mustDate(t, "2026-09-03")))
	assert.Equal(t, 40, types.DaysBetween(start, types.NewDate(start.Add(39*24*time.Hour))))
}
