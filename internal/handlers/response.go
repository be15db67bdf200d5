package handlers

import (
	"fmt"
	"time"

	"spot-rental-api/internal/database"
	"spot-rental-api/internal/models"
)

// timestampLayout renders timestamps at second precision in UTC with no
// zone suffix, matching the existing client contract.
const timestampLayout = "2006-01-02 15:04:05"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// formatRating renders an average as a one-decimal string, or nil so the
// JSON field stays null for spots without reviews.
func formatRating(avg *float64) *string {
	if avg == nil {
		return nil
	}
	s := fmt.Sprintf("%.1f", *avg)
	return &s
}

// SpotResponse is one element of the {Spots:[...]} list payloads.
type SpotResponse struct {
	ID           uint    `json:"id"`
	OwnerID      uint    `json:"ownerId"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
	AvgRating    *string `json:"avgRating"`
	PreviewImage *string `json:"previewImage"`
}

// SpotImageResponse is the image shape nested in detail responses and
// returned by the add-image endpoint.
type SpotImageResponse struct {
	ID      uint   `json:"id"`
	URL     string `json:"url"`
	Preview bool   `json:"preview"`
}

// SpotDetailResponse is the GET /spots/:spotId payload.
type SpotDetailResponse struct {
	ID            uint                `json:"id"`
	OwnerID       uint                `json:"ownerId"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	State         string              `json:"state"`
	Country       string              `json:"country"`
	Lat           float64             `json:"lat"`
	Lng           float64             `json:"lng"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         float64             `json:"price"`
	CreatedAt     string              `json:"createdAt"`
	UpdatedAt     string              `json:"updatedAt"`
	NumReviews    int64               `json:"numReviews"`
	AvgStarRating *string             `json:"avgStarRating"`
	SpotImages    []SpotImageResponse `json:"SpotImages"`
	Owner         models.PublicUser   `json:"Owner"`
}

// SpotRowResponse is the create/update payload: the persisted row with
// formatted timestamps but no derived fields.
type SpotRowResponse struct {
	ID          uint    `json:"id"`
	OwnerID     uint    `json:"ownerId"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func newSpotResponse(row database.SpotWithRating) SpotResponse {
	return SpotResponse{
		ID:           row.ID,
		OwnerID:      row.OwnerID,
		Address:      row.Address,
		City:         row.City,
		State:        row.State,
		Country:      row.Country,
		Lat:          row.Lat,
		Lng:          row.Lng,
		Name:         row.Name,
		Description:  row.Description,
		Price:        row.Price,
		CreatedAt:    formatTimestamp(row.CreatedAt),
		UpdatedAt:    formatTimestamp(row.UpdatedAt),
		AvgRating:    formatRating(row.AvgRating),
		PreviewImage: row.PreviewImageURL(),
	}
}

func newSpotListResponse(rows []database.SpotWithRating) []SpotResponse {
	spots := make([]SpotResponse, len(rows))
	for i := range rows {
		spots[i] = newSpotResponse(rows[i])
	}
	return spots
}

func newSpotDetailResponse(detail *database.SpotDetail) SpotDetailResponse {
	images := make([]SpotImageResponse, len(detail.Images))
	for i, img := range detail.Images {
		images[i] = SpotImageResponse{ID: img.ID, URL: img.URL, Preview: img.Preview}
	}
	return SpotDetailResponse{
		ID:            detail.Spot.ID,
		OwnerID:       detail.Spot.OwnerID,
		Address:       detail.Spot.Address,
		City:          detail.Spot.City,
		State:         detail.Spot.State,
		Country:       detail.Spot.Country,
		Lat:           detail.Spot.Lat,
		Lng:           detail.Spot.Lng,
		Name:          detail.Spot.Name,
		Description:   detail.Spot.Description,
		Price:         detail.Spot.Price,
		CreatedAt:     formatTimestamp(detail.Spot.CreatedAt),
		UpdatedAt:     formatTimestamp(detail.Spot.UpdatedAt),
		NumReviews:    detail.NumReviews,
		AvgStarRating: formatRating(detail.AvgRating),
		SpotImages:    images,
		Owner:         detail.Owner.Public(),
	}
}

func newSpotRowResponse(spot *models.Spot) SpotRowResponse {
	return SpotRowResponse{
		ID:          spot.ID,
		OwnerID:     spot.OwnerID,
		Address:     spot.Address,
		City:        spot.City,
		State:       spot.State,
		Country:     spot.Country,
		Lat:         spot.Lat,
		Lng:         spot.Lng,
		Name:        spot.Name,
		Description: spot.Description,
		Price:       spot.Price,
		CreatedAt:   formatTimestamp(spot.CreatedAt),
		UpdatedAt:   formatTimestamp(spot.UpdatedAt),
	}
}
