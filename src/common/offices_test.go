package common

import (
	"deskly/src/models"
	"deskly/src/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }
func uintPtr(u uint) *uint        { return &u }

func TestParseCoords(t *testing.T) {
	t.Run("parses a full pair", func(t *testing.T) {
		lat, lng, ok := ParseCoords(strPtr("39.74"), strPtr("-8.80"))
		assert.True(t, ok)
		assert.Equal(t, 39.74, lat)
		assert.Equal(t, -8.80, lng)
	})

	t.Run("rejects a half supplied pair", func(t *testing.T) {
		_, _, ok := ParseCoords(strPtr("39.74"), nil)
		assert.False(t, ok)
	})

	t.Run("rejects non numeric input without error", func(t *testing.T) {
		_, _, ok := ParseCoords(strPtr("north"), strPtr("-8.80"))
		assert.False(t, ok)
	})
}

func TestBuildOfficeUpdates(t *testing.T) {
	office := &models.Office{
		ID:              1,
		UserID:          7,
		Title:           "Quiet corner",
		Description:     "A quiet corner office",
		Address:         "1 Main St",
		Lat:             39.74,
		Lng:             -8.80,
		PricePerDay:     1000,
		MonthlyDiscount: 10,
		Hidden:          false,
		ApprovalStatus:  types.APPROVAL_APPROVED,
	}

	t.Run("an empty body changes nothing", func(t *testing.T) {
		updates, sensitive := BuildOfficeUpdates(office, &types.UpdateOfficeRequestBody{})
		assert.Empty(t, updates)
		assert.False(t, sensitive)
	})

	t.Run("a no-op value is not an update", func(t *testing.T) {
		body := &types.UpdateOfficeRequestBody{Title: strPtr("Quiet corner")}
		updates, sensitive := BuildOfficeUpdates(office, body)
		assert.Empty(t, updates)
		assert.False(t, sensitive)
	})

	t.Run("changing the price is sensitive", func(t *testing.T) {
		body := &types.UpdateOfficeRequestBody{PricePerDay: intPtr(2000)}
		updates, sensitive := BuildOfficeUpdates(office, body)
		assert.Equal(t, map[string]any{"price_per_day": 2000}, updates)
		assert.True(t, sensitive)
	})

	t.Run("changing coordinates is sensitive", func(t *testing.T) {
		body := &types.UpdateOfficeRequestBody{Lat: floatPtr(40.0), Lng: floatPtr(-8.0)}
		updates, sensitive := BuildOfficeUpdates(office, body)
		assert.Len(t, updates, 2)
		assert.True(t, sensitive)
	})

	t.Run("unhiding is sensitive", func(t *testing.T) {
		body := &types.UpdateOfficeRequestBody{Hidden: boolPtr(true)}
		updates, sensitive := BuildOfficeUpdates(office, body)
		assert.Equal(t, map[string]any{"hidden": true}, updates)
		assert.True(t, sensitive)
	})

	t.Run("swapping the featured image is not sensitive", func(t *testing.T) {
		body := &types.UpdateOfficeRequestBody{FeaturedImageID: uintPtr(4)}
		updates, sensitive := BuildOfficeUpdates(office, body)
		assert.Equal(t, map[string]any{"featured_image_id": uint(4)}, updates)
		assert.False(t, sensitive)
	})

	t.Run("mixed updates report sensitivity once", func(t *testing.T) {
		body := &types.UpdateOfficeRequestBody{
			Title:           strPtr("Sunny corner"),
			FeaturedImageID: uintPtr(4),
		}
		updates, sensitive := BuildOfficeUpdates(office, body)
		assert.Len(t, updates, 2)
		assert.True(t, sensitive)
	})
}
