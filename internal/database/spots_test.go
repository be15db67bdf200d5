package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"spot-rental-api/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	db := NewFromGorm(gdb)
	require.NoError(t, db.InitSchema())
	return db
}

func seedUser(t *testing.T, db *DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:      "Test",
		LastName:       "User",
		Email:          username + "@example.com",
		Username:       username,
		HashedPassword: "x",
	}
	require.NoError(t, db.CreateUser(user))
	return user
}

func seedSpot(t *testing.T, db *DB, ownerID uint, name string) *models.Spot {
	t.Helper()
	spot := &models.Spot{
		OwnerID:     ownerID,
		Address:     "1 Main",
		City:        "Springfield",
		State:       "IL",
		Country:     "USA",
		Lat:         40,
		Lng:         -70,
		Name:        name,
		Description: "d",
		Price:       50,
	}
	require.NoError(t, db.CreateSpot(spot))
	return spot
}

func TestListSpotsAggregatesRatings(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")

	rated := seedSpot(t, db, owner.ID, "Rated")
	unrated := seedSpot(t, db, owner.ID, "Unrated")

	for _, stars := range []int{4, 5} {
		require.NoError(t, db.Gorm().Create(&models.Review{
			SpotID: rated.ID, UserID: owner.ID, Stars: stars,
		}).Error)
	}

	rows, err := db.ListSpots()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]SpotWithRating{}
	for _, row := range rows {
		byName[row.Name] = row
	}

	require.NotNil(t, byName["Rated"].AvgRating)
	assert.InDelta(t, 4.5, *byName["Rated"].AvgRating, 0.001)
	assert.Nil(t, byName["Unrated"].AvgRating, "spot without reviews must have nil rating, not zero")
	_ = unrated
}

func TestListSpotsPreviewImageSelection(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	spot := seedSpot(t, db, owner.ID, "WithImages")
	bare := seedSpot(t, db, owner.ID, "NoImages")

	require.NoError(t, db.AddSpotImage(&models.SpotImage{SpotID: spot.ID, URL: "a.jpg", Preview: false}))
	require.NoError(t, db.AddSpotImage(&models.SpotImage{SpotID: spot.ID, URL: "b.jpg", Preview: true}))
	require.NoError(t, db.AddSpotImage(&models.SpotImage{SpotID: spot.ID, URL: "c.jpg", Preview: true}))

	rows, err := db.ListSpots()
	require.NoError(t, err)

	byID := map[uint]SpotWithRating{}
	for _, row := range rows {
		byID[row.ID] = row
	}

	// First preview-flagged image wins when multiple carry the flag.
	withImages := byID[spot.ID]
	preview := withImages.PreviewImageURL()
	require.NotNil(t, preview)
	assert.Equal(t, "b.jpg", *preview)
	noImages := byID[bare.ID]
	assert.Nil(t, noImages.PreviewImageURL())
}

func TestListSpotsByOwnerFilters(t *testing.T) {
	db := openTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedSpot(t, db, alice.ID, "Alices")
	seedSpot(t, db, bob.ID, "Bobs")

	rows, err := db.ListSpotsByOwner(alice.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alices", rows[0].Name)
}

func TestGetSpotDetail(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	spot := seedSpot(t, db, owner.ID, "Detailed")

	require.NoError(t, db.Gorm().Create(&models.Review{SpotID: spot.ID, UserID: owner.ID, Stars: 3}).Error)
	require.NoError(t, db.Gorm().Create(&models.Review{SpotID: spot.ID, UserID: owner.ID, Stars: 4}).Error)
	require.NoError(t, db.AddSpotImage(&models.SpotImage{SpotID: spot.ID, URL: "p.jpg", Preview: true}))

	detail, err := db.GetSpotDetail(spot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.NumReviews)
	require.NotNil(t, detail.AvgRating)
	assert.InDelta(t, 3.5, *detail.AvgRating, 0.001)
	require.Len(t, detail.Images, 1)
	assert.Equal(t, owner.ID, detail.Owner.ID)
	assert.Equal(t, "Test", detail.Owner.FirstName)
}

func TestGetSpotDetailZeroAssociations(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	spot := seedSpot(t, db, owner.ID, "Lonely")

	detail, err := db.GetSpotDetail(spot.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.AvgRating)
	assert.Equal(t, int64(0), detail.NumReviews)
	assert.Empty(t, detail.Images)
}

func TestGetSpotDetailNotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetSpotDetail(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateSpotOwned(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	spot := seedSpot(t, db, owner.ID, "Before")

	updated, err := db.UpdateSpotOwned(spot.ID, owner.ID, map[string]interface{}{
		"name":  "After",
		"price": 75.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, 75.0, updated.Price)

	// Wrong owner behaves like a missing row at this layer.
	_, err = db.UpdateSpotOwned(spot.ID, owner.ID+1, map[string]interface{}{"name": "Nope"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = db.UpdateSpotOwned(9999, owner.ID, map[string]interface{}{"name": "Nope"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteSpotOwned(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	other := seedUser(t, db, "other")
	spot := seedSpot(t, db, owner.ID, "Doomed")

	require.NoError(t, db.Gorm().Create(&models.Review{SpotID: spot.ID, UserID: other.ID, Stars: 2}).Error)
	require.NoError(t, db.AddSpotImage(&models.SpotImage{SpotID: spot.ID, URL: "x.jpg"}))

	err := db.DeleteSpotOwned(spot.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, db.DeleteSpotOwned(spot.ID, owner.ID))

	_, err = db.GetSpotByID(spot.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var reviewCount, imageCount, logCount int64
	db.Gorm().Model(&models.Review{}).Where("spot_id = ?", spot.ID).Count(&reviewCount)
	db.Gorm().Model(&models.SpotImage{}).Where("spot_id = ?", spot.ID).Count(&imageCount)
	db.Gorm().Model(&models.SpotDeleteLog{}).Where("spot_id = ?", spot.ID).Count(&logCount)
	assert.Zero(t, reviewCount)
	assert.Zero(t, imageCount)
	assert.Equal(t, int64(1), logCount)

	err = db.DeleteSpotOwned(spot.ID, owner.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListSpotsByIDsPreservesOrder(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	first := seedSpot(t, db, owner.ID, "First")
	second := seedSpot(t, db, owner.ID, "Second")
	third := seedSpot(t, db, owner.ID, "Third")

	rows, err := db.ListSpotsByIDs([]uint{third.ID, first.ID, 9999, second.ID})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Third", rows[0].Name)
	assert.Equal(t, "First", rows[1].Name)
	assert.Equal(t, "Second", rows[2].Name)
}

func TestGetStatsAndTopCities(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	seedSpot(t, db, owner.ID, "A")
	b := seedSpot(t, db, owner.ID, "B")
	require.NoError(t, db.Gorm().Model(b).Update("city", "Shelbyville").Error)

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Spots)
	assert.Equal(t, int64(1), stats.Users)

	cities, err := db.TopCities(1)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, int64(1), cities[0].Count)
}
