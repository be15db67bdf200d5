package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"spot-rental-api/internal/auth"
	"spot-rental-api/internal/cache"
	"spot-rental-api/internal/database"
	"spot-rental-api/internal/models"
	"spot-rental-api/internal/search"
	"spot-rental-api/internal/validation"
)

const spotNotFoundMessage = "Spot couldn't be found"

// SpotHandler handles the spot listing endpoints.
type SpotHandler struct {
	db       *database.DB
	cache    *cache.Cache
	searcher *search.Client
	log      zerolog.Logger
}

// NewSpotHandler creates a new spot handler. cache and searcher may be nil
// when those subsystems are disabled.
func NewSpotHandler(db *database.DB, responseCache *cache.Cache, searcher *search.Client, log zerolog.Logger) *SpotHandler {
	return &SpotHandler{
		db:       db,
		cache:    responseCache,
		searcher: searcher,
		log:      log,
	}
}

// ListSpots returns every spot with derived rating and preview image.
func (h *SpotHandler) ListSpots(c *gin.Context) {
	var cached []SpotResponse
	if h.cache.GetJSON(c.Request.Context(), cache.AllSpotsKey(), &cached) {
		c.JSON(http.StatusOK, gin.H{"Spots": cached})
		return
	}

	rows, err := h.db.ListSpots()
	if err != nil {
		h.serverError(c, err)
		return
	}

	spots := newSpotListResponse(rows)
	h.cache.SetJSON(c.Request.Context(), cache.AllSpotsKey(), spots)
	c.JSON(http.StatusOK, gin.H{"Spots": spots})
}

// ListCurrentUserSpots returns the spots owned by the authenticated caller.
func (h *SpotHandler) ListCurrentUserSpots(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var cached []SpotResponse
	if h.cache.GetJSON(c.Request.Context(), cache.OwnerKey(userID), &cached) {
		c.JSON(http.StatusOK, gin.H{"Spots": cached})
		return
	}

	rows, err := h.db.ListSpotsByOwner(userID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	spots := newSpotListResponse(rows)
	h.cache.SetJSON(c.Request.Context(), cache.OwnerKey(userID), spots)
	c.JSON(http.StatusOK, gin.H{"Spots": spots})
}

// SearchSpots performs a full-text search over listings.
func (h *SpotHandler) SearchSpots(c *gin.Context) {
	if h.searcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Search is not enabled"})
		return
	}

	params := search.FilterParams{
		Query:   c.Query("q"),
		City:    c.Query("city"),
		Country: c.Query("country"),
		SortBy:  c.Query("sort"),
	}
	if v := c.Query("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params.MinPrice = &f
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params.MaxPrice = &f
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			params.Limit = n
		}
	}

	ids, err := h.searcher.FilterSearch(params)
	if err != nil {
		h.serverError(c, err)
		return
	}
	rows, err := h.db.ListSpotsByIDs(ids)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Spots": newSpotListResponse(rows)})
}

// GetSpot returns the detail view for one spot.
func (h *SpotHandler) GetSpot(c *gin.Context) {
	spotID, ok := parseSpotID(c)
	if !ok {
		return
	}

	var cached SpotDetailResponse
	if h.cache.GetJSON(c.Request.Context(), cache.DetailKey(spotID), &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	detail, err := h.db.GetSpotDetail(spotID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": spotNotFoundMessage})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	resp := newSpotDetailResponse(detail)
	h.cache.SetJSON(c.Request.Context(), cache.DetailKey(spotID), resp)
	c.JSON(http.StatusOK, resp)
}

// CreateSpot validates the payload and persists a new spot owned by the
// caller. The owner always comes from the token, never from the body.
func (h *SpotHandler) CreateSpot(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var payload validation.SpotPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}

	valid, fieldErrs := validation.ValidateSpot(payload)
	if fieldErrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request", "errors": fieldErrs})
		return
	}

	spot := models.Spot{
		OwnerID:     userID,
		Address:     valid.Address,
		City:        valid.City,
		State:       valid.State,
		Country:     valid.Country,
		Lat:         valid.Lat,
		Lng:         valid.Lng,
		Name:        valid.Name,
		Description: valid.Description,
		Price:       valid.Price,
	}
	if err := h.db.CreateSpot(&spot); err != nil {
		h.serverError(c, err)
		return
	}

	h.afterSpotWrite(c, &spot)
	c.JSON(http.StatusCreated, newSpotRowResponse(&spot))
}

// UpdateSpot applies a full payload to a spot the caller owns.
func (h *SpotHandler) UpdateSpot(c *gin.Context) {
	spotID, ok := parseSpotID(c)
	if !ok {
		return
	}
	userID, _ := auth.UserID(c)

	spot, err := h.db.GetSpotByID(spotID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": spotNotFoundMessage})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	if spot.OwnerID != userID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot update a Spot you do not own"})
		return
	}

	var payload validation.SpotPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}
	valid, fieldErrs := validation.ValidateSpot(payload)
	if fieldErrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request", "errors": fieldErrs})
		return
	}

	updated, err := h.db.UpdateSpotOwned(spotID, userID, map[string]interface{}{
		"address":     valid.Address,
		"city":        valid.City,
		"state":       valid.State,
		"country":     valid.Country,
		"lat":         valid.Lat,
		"lng":         valid.Lng,
		"name":        valid.Name,
		"description": valid.Description,
		"price":       valid.Price,
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Deleted between the ownership check and the write.
		c.JSON(http.StatusNotFound, gin.H{"message": spotNotFoundMessage})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.afterSpotWrite(c, updated)
	c.JSON(http.StatusCreated, newSpotRowResponse(updated))
}

// DeleteSpot removes a spot the caller owns, along with its reviews and
// images.
func (h *SpotHandler) DeleteSpot(c *gin.Context) {
	spotID, ok := parseSpotID(c)
	if !ok {
		return
	}
	userID, _ := auth.UserID(c)

	err := h.db.DeleteSpotOwned(spotID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": spotNotFoundMessage})
		return
	}
	if errors.Is(err, database.ErrNotOwner) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete a Spot you do not own"})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.cache.InvalidateSpot(c.Request.Context(), spotID, userID)
	if h.searcher != nil {
		if err := h.searcher.DeleteSpot(spotID); err != nil {
			h.log.Error().Err(err).Uint("spot_id", spotID).Msg("search delete failed")
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully deleted"})
}

// AddSpotImage attaches an image to a spot the caller owns.
func (h *SpotHandler) AddSpotImage(c *gin.Context) {
	spotID, ok := parseSpotID(c)
	if !ok {
		return
	}
	userID, _ := auth.UserID(c)

	spot, err := h.db.GetSpotByID(spotID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": spotNotFoundMessage})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	if spot.OwnerID != userID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot add an image to a Spot you do not own"})
		return
	}

	var body struct {
		URL     string `json:"url"`
		Preview bool   `json:"preview"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}

	image := models.SpotImage{
		SpotID:  spotID,
		URL:     body.URL,
		Preview: body.Preview,
	}
	if err := h.db.AddSpotImage(&image); err != nil {
		h.serverError(c, err)
		return
	}

	h.cache.InvalidateSpot(c.Request.Context(), spotID, spot.OwnerID)
	c.JSON(http.StatusCreated, SpotImageResponse{
		ID:      image.ID,
		URL:     image.URL,
		Preview: image.Preview,
	})
}

// afterSpotWrite drops stale cache entries and keeps the search index in
// step with the row. Index failures are logged, never surfaced: search is
// best-effort.
func (h *SpotHandler) afterSpotWrite(c *gin.Context, spot *models.Spot) {
	h.cache.InvalidateSpot(c.Request.Context(), spot.ID, spot.OwnerID)
	if h.searcher != nil {
		if err := h.searcher.IndexSpot(spot); err != nil {
			h.log.Error().Err(err).Uint("spot_id", spot.ID).Msg("search index failed")
		}
	}
}

func (h *SpotHandler) serverError(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "Server error",
		"errors":  err.Error(),
	})
}

// parseSpotID reads the :spotId route param. Anything that is not a
// positive integer behaves like a missing spot.
func parseSpotID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("spotId"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": spotNotFoundMessage})
		return 0, false
	}
	return uint(id), true
}
