package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spot-rental-api/internal/database"
	"spot-rental-api/internal/models"
)

func TestFormatRating(t *testing.T) {
	assert.Nil(t, formatRating(nil))

	avg := 4.5
	got := formatRating(&avg)
	require.NotNil(t, got)
	assert.Equal(t, "4.5", *got)

	// Always one decimal, even for whole numbers.
	avg = 4
	assert.Equal(t, "4.0", *formatRating(&avg))

	// Rounded, not truncated.
	avg = 3.6666
	assert.Equal(t, "3.7", *formatRating(&avg))
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2025, 6, 15, 14, 30, 45, 123456789, loc)

	assert.Equal(t, "2025-06-15 09:30:45", formatTimestamp(ts))
}

func TestSpotResponseNullFields(t *testing.T) {
	resp := newSpotResponse(database.SpotWithRating{
		Spot: models.Spot{ID: 1, Name: "Bare"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// Absent rating and preview serialize as null, never "" or 0.
	val, present := decoded["avgRating"]
	assert.True(t, present)
	assert.Nil(t, val)
	val, present = decoded["previewImage"]
	assert.True(t, present)
	assert.Nil(t, val)
}

func TestSpotDetailResponseShape(t *testing.T) {
	avg := 3.5
	detail := &database.SpotDetail{
		Spot: models.Spot{
			ID:      7,
			OwnerID: 2,
			Name:    "Detailed",
		},
		AvgRating:  &avg,
		NumReviews: 4,
		Images: []models.SpotImage{
			{ID: 10, SpotID: 7, URL: "a.jpg", Preview: true},
		},
		Owner: models.User{ID: 2, FirstName: "Jo", LastName: "March", Email: "jo@example.com"},
	}

	resp := newSpotDetailResponse(detail)
	assert.Equal(t, int64(4), resp.NumReviews)
	require.NotNil(t, resp.AvgStarRating)
	assert.Equal(t, "3.5", *resp.AvgStarRating)
	require.Len(t, resp.SpotImages, 1)
	assert.Equal(t, "a.jpg", resp.SpotImages[0].URL)
	assert.Equal(t, models.PublicUser{ID: 2, FirstName: "Jo", LastName: "March"}, resp.Owner)
}
