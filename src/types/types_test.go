package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDate(t *testing.T) {
	t.Run("parses and formats the wire layout", func(t *testing.T) {
		d, err := ParseDate("2030-01-20")
		assert.NoError(t, err)
		assert.Equal(t, "2030-01-20", d.String())
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		_, err := ParseDate("20-01-2030")
		assert.Error(t, err)
	})

	t.Run("round trips through JSON", func(t *testing.T) {
		d, _ := ParseDate("2030-01-20")
		b, err := json.Marshal(d)
		assert.NoError(t, err)
		assert.Equal(t, `"2030-01-20"`, string(b))

		var back Date
		assert.NoError(t, json.Unmarshal(b, &back))
		assert.True(t, back.Equal(d.Time))
	})

	t.Run("truncates the time component", func(t *testing.T) {
		d := NewDate(time.Date(2030, 1, 20, 15, 4, 5, 0, time.UTC))
		assert.Equal(t, "2030-01-20", d.String())
	})

	t.Run("scans database values", func(t *testing.T) {
		var d Date
		assert.NoError(t, d.Scan(time.Date(2030, 1, 20, 10, 0, 0, 0, time.UTC)))
		assert.Equal(t, "2030-01-20", d.String())

		assert.NoError(t, d.Scan([]byte("2030-01-21")))
		assert.Equal(t, "2030-01-21", d.String())

		assert.Error(t, d.Scan(42))
	})
}

func TestDaysBetween(t *testing.T) {
	from, _ := ParseDate("2030-01-20")
	same := from
	to, _ := ParseDate("2030-01-21")

	assert.Equal(t, 1, DaysBetween(from, same))
	assert.Equal(t, 2, DaysBetween(from, to))
}

func TestNewPageMeta(t *testing.T) {
	t.Run("rounds the last page up", func(t *testing.T) {
		meta := NewPageMeta(41, 20, 1)
		assert.Equal(t, 3, meta.LastPage)
	})

	t.Run("an empty result still has one page", func(t *testing.T) {
		meta := NewPageMeta(0, 20, 1)
		assert.Equal(t, 1, meta.LastPage)
	})

	t.Run("an exact multiple does not overflow", func(t *testing.T) {
		meta := NewPageMeta(40, 20, 2)
		assert.Equal(t, 2, meta.LastPage)
		assert.Equal(t, 2, meta.CurrentPage)
	})
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("office_id", "Invalid office ID")
	err.Errors["start_date"] = "The start date must be a date after today."

	assert.Equal(t, "office_id: Invalid office ID; start_date: The start date must be a date after today.", err.Error())

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "Invalid office ID", ve.Errors["office_id"])

	_, ok = IsValidationError(assert.AnError)
	assert.False(t, ok)
}

func TestParseUintList(t *testing.T) {
	assert.Equal(t, []uint{1, 2, 3}, ParseUintList("1,2,3"))
	assert.Equal(t, []uint{5}, ParseUintList(" 5, , junk"))
	assert.Nil(t, ParseUintList(""))
}
