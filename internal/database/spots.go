package database

import (
	"errors"
	"sort"

	"gorm.io/gorm"

	"spot-rental-api/internal/models"
)

// ErrNotOwner is returned when a caller tries to mutate a spot they do not own.
var ErrNotOwner = errors.New("spot is not owned by caller")

// SpotWithRating couples a spot row with its aggregated average rating.
// AvgRating is nil for spots without reviews.
type SpotWithRating struct {
	models.Spot
	AvgRating *float64
}

// spotDetailRow is the scan target for the detail variant of the aggregate
// query.
type spotDetailRow struct {
	models.Spot
	AvgRating  *float64
	NumReviews int64
}

// SpotDetail carries everything the detail endpoint exposes: the spot row,
// its derived fields and the loaded associations.
type SpotDetail struct {
	Spot       models.Spot
	AvgRating  *float64
	NumReviews int64
	Images     []models.SpotImage
	Owner      models.User
}

// SpotFilter narrows the aggregation query. The zero value selects every spot.
type SpotFilter struct {
	OwnerID *uint
	SpotID  *uint
}

// spotAggregateQuery builds the shared read query: every variant (all
// spots, by owner, single id) is this query with a different filter, so the
// derived-field logic lives in exactly one place.
func (d *DB) spotAggregateQuery(filter SpotFilter, withCount bool) *gorm.DB {
	selectExpr := "spots.*, AVG(reviews.stars) AS avg_rating"
	if withCount {
		selectExpr += ", COUNT(reviews.id) AS num_reviews"
	}

	q := d.db.Model(&models.Spot{}).
		Select(selectExpr).
		Joins("LEFT JOIN reviews ON reviews.spot_id = spots.id").
		Group("spots.id")

	if filter.OwnerID != nil {
		q = q.Where("spots.owner_id = ?", *filter.OwnerID)
	}
	if filter.SpotID != nil {
		q = q.Where("spots.id = ?", *filter.SpotID)
	}
	return q
}

// ListSpots returns every spot with its average rating and images loaded.
func (d *DB) ListSpots() ([]SpotWithRating, error) {
	return d.listSpots(SpotFilter{})
}

// ListSpotsByOwner returns the spots owned by the given user, with the same
// derived fields as ListSpots.
func (d *DB) ListSpotsByOwner(ownerID uint) ([]SpotWithRating, error) {
	return d.listSpots(SpotFilter{OwnerID: &ownerID})
}

// ListSpotsByIDs returns the aggregate rows for the given ids, preserving
// the order of ids (search relevance order). Unknown ids are skipped.
func (d *DB) ListSpotsByIDs(ids []uint) ([]SpotWithRating, error) {
	if len(ids) == 0 {
		return []SpotWithRating{}, nil
	}

	var rows []SpotWithRating
	q := d.spotAggregateQuery(SpotFilter{}, false).Where("spots.id IN ?", ids)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if err := d.attachImages(rows); err != nil {
		return nil, err
	}

	byID := make(map[uint]SpotWithRating, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]SpotWithRating, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}

func (d *DB) listSpots(filter SpotFilter) ([]SpotWithRating, error) {
	var rows []SpotWithRating
	if err := d.spotAggregateQuery(filter, false).Order("spots.id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	if err := d.attachImages(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// attachImages loads the images for the given rows in one query and buckets
// them onto their spots, preserving insertion order so the first
// preview-flagged image wins deterministically.
func (d *DB) attachImages(rows []SpotWithRating) error {
	if len(rows) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}

	var images []models.SpotImage
	if err := d.db.Where("spot_id IN ?", ids).Order("id").Find(&images).Error; err != nil {
		return err
	}

	bySpot := make(map[uint][]models.SpotImage, len(rows))
	for _, img := range images {
		bySpot[img.SpotID] = append(bySpot[img.SpotID], img)
	}
	for i := range rows {
		rows[i].Images = bySpot[rows[i].ID]
	}
	return nil
}

// GetSpotDetail returns a single spot with rating, review count, images and
// owner loaded. Returns gorm.ErrRecordNotFound when no spot matches.
func (d *DB) GetSpotDetail(id uint) (*SpotDetail, error) {
	var row spotDetailRow
	result := d.spotAggregateQuery(SpotFilter{SpotID: &id}, true).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	detail := &SpotDetail{
		Spot:       row.Spot,
		AvgRating:  row.AvgRating,
		NumReviews: row.NumReviews,
	}
	if err := d.db.Where("spot_id = ?", id).Order("id").Find(&detail.Images).Error; err != nil {
		return nil, err
	}
	if err := d.db.First(&detail.Owner, row.OwnerID).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return detail, nil
}

// GetSpotByID retrieves a bare spot row by ID.
func (d *DB) GetSpotByID(id uint) (*models.Spot, error) {
	var spot models.Spot
	if err := d.db.First(&spot, id).Error; err != nil {
		return nil, err
	}
	return &spot, nil
}

// CreateSpot persists a new spot.
func (d *DB) CreateSpot(spot *models.Spot) error {
	return d.db.Create(spot).Error
}

// UpdateSpotOwned applies the given column updates to a spot, but only when
// it still exists and is owned by ownerID. The conditional update closes the
// race between the handler's existence/ownership check and the write:
// RowsAffected tells us whether the row was still there.
func (d *DB) UpdateSpotOwned(id, ownerID uint, updates map[string]interface{}) (*models.Spot, error) {
	var spot models.Spot
	err := d.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Spot{}).
			Where("id = ? AND owner_id = ?", id, ownerID).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&spot, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &spot, nil
}

// DeleteSpotOwned deletes a spot together with its reviews and images and
// writes an audit row. The ownership condition rides on the DELETE itself so
// a concurrent delete cannot slip between check and act.
func (d *DB) DeleteSpotOwned(id, ownerID uint) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var spot models.Spot
		if err := tx.First(&spot, id).Error; err != nil {
			return err
		}
		if spot.OwnerID != ownerID {
			return ErrNotOwner
		}

		if err := tx.Where("spot_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("spot_id = ?", id).Delete(&models.SpotImage{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Spot{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Create(&models.SpotDeleteLog{
			SpotID:  spot.ID,
			OwnerID: spot.OwnerID,
			Name:    spot.Name,
			Reason:  models.DeleteReasonOwner,
		}).Error
	})
}

// AddSpotImage persists a new image for a spot.
func (d *DB) AddSpotImage(image *models.SpotImage) error {
	return d.db.Create(image).Error
}

// Stats holds row counts for the admin stats endpoint.
type Stats struct {
	Spots     int64 `json:"spots"`
	Users     int64 `json:"users"`
	Reviews   int64 `json:"reviews"`
	Images    int64 `json:"images"`
	Deletions int64 `json:"deletions"`
}

// GetStats counts rows across the main tables.
func (d *DB) GetStats() (*Stats, error) {
	var stats Stats
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Spot{}, &stats.Spots},
		{&models.User{}, &stats.Users},
		{&models.Review{}, &stats.Reviews},
		{&models.SpotImage{}, &stats.Images},
		{&models.SpotDeleteLog{}, &stats.Deletions},
	}
	for _, c := range counts {
		if err := d.db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &stats, nil
}

// TopCities returns the busiest cities by listing count, largest first.
func (d *DB) TopCities(limit int) ([]CityCount, error) {
	var rows []CityCount
	err := d.db.Model(&models.Spot{}).
		Select("city, count(*) as count").
		Group("city").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	// Sort in Go: ORDER BY on the aggregate alias is spelled differently
	// across MySQL, Postgres and SQLite.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].City < rows[j].City
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// CityCount is one row of the TopCities aggregate.
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}
